package controller

import (
	"kurum-asistan-be/internal/pkg/serverutils"
	"kurum-asistan-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITicketController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
}

type ticketController struct {
	service service.ITicketService
}

func NewTicketController(service service.ITicketService) ITicketController {
	return &ticketController{service: service}
}

func (c *ticketController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ticket/v1")
	h.Get("", c.GetAll)
	h.Post(":id/read", c.MarkRead)
}

func (c *ticketController) GetAll(ctx *fiber.Ctx) error {
	userId := userIdOrDefault(ctx.Query("user_id"))

	res, err := c.service.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all tickets", res))
}

func (c *ticketController) MarkRead(ctx *fiber.Ctx) error {
	userId := userIdOrDefault(ctx.Query("user_id"))

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid ticket id"))
	}

	if err := c.service.MarkRead(ctx.Context(), userId, id); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Ticket marked as read", nil))
}

func userIdOrDefault(userId string) string {
	if userId == "" {
		return "default"
	}
	return userId
}
