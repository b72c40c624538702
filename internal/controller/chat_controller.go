package controller

import (
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1/:notebookId")
	h.Post("", c.Send)
	h.Get("", c.GetHistory)
	h.Delete("", c.ClearHistory)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), notebookId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}

	res, err := c.service.GetHistory(ctx.Context(), notebookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) ClearHistory(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}

	if err := c.service.ClearHistory(ctx.Context(), notebookId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear chat history", nil))
}
