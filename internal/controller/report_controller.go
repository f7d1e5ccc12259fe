package controller

import (
	"strconv"

	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/internal/pkg/serverutils"
	"kurum-asistan-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Query(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Post("", c.Upload)
	h.Get("", c.GetAll)
	h.Delete(":id", c.Delete)
	h.Post("query", c.Query)
}

func (c *reportController) Upload(ctx *fiber.Ctx) error {
	userId := userIdOrDefault(ctx.FormValue("user_id"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "File is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	defer file.Close()

	res, err := c.service.Upload(ctx.Context(), userId, fileHeader.Filename, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Report uploaded", res))
}

func (c *reportController) GetAll(ctx *fiber.Ctx) error {
	userId := userIdOrDefault(ctx.Query("user_id"))

	res, err := c.service.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all reports", res))
}

func (c *reportController) Delete(ctx *fiber.Ctx) error {
	userId := userIdOrDefault(ctx.Query("user_id"))

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid report id"))
	}

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Report deleted", nil))
}

func (c *reportController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Query(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success query reports", res))
}
