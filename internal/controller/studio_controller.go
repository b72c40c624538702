package controller

import (
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStudioController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetDetail(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type studioController struct {
	service service.IStudioService
}

func NewStudioController(service service.IStudioService) IStudioController {
	return &studioController{service: service}
}

func (c *studioController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/studio/v1/:notebookId")
	h.Post("", c.Generate)
	h.Get("", c.GetAll)
	h.Get(":itemId", c.GetDetail)
	h.Delete(":itemId", c.Delete)
}

func (c *studioController) Generate(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}

	var req dto.GenerateStudioRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), notebookId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start studio generation", res))
}

func (c *studioController) GetAll(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}

	res, err := c.service.GetAll(ctx.Context(), notebookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get studio items", res))
}

func (c *studioController) GetDetail(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}
	itemId, err := parseUUIDParam(ctx, "itemId")
	if err != nil {
		return err
	}

	res, err := c.service.GetDetail(ctx.Context(), notebookId, itemId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get studio item", res))
}

func (c *studioController) Delete(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}
	itemId, err := parseUUIDParam(ctx, "itemId")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), notebookId, itemId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete studio item", nil))
}
