package controller

import (
	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/internal/pkg/serverutils"
	"kurum-asistan-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	Translate(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service          service.IChatbotService
	translateService service.ITranslateService
}

func NewChatbotController(chatbotService service.IChatbotService, translateService service.ITranslateService) IChatbotController {
	return &chatbotController{
		service:          chatbotService,
		translateService: translateService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.SendMessage)
	h.Get("history", c.GetHistory)

	t := r.Group("/translate/v1")
	t.Post("", c.Translate)
}

func (c *chatbotController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.SendMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatbotController) GetHistory(ctx *fiber.Ctx) error {
	userId := ctx.Query("user_id")

	res, err := c.service.GetHistory(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *chatbotController) Translate(ctx *fiber.Ctx) error {
	var req dto.TranslateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.translateService.Translate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success translate", res))
}
