package controller

import (
	"errors"

	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetTranscript(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/", c.SendChat)
	h.Get("/transcript", c.GetTranscript)
	h.Get("/history", c.GetHistory)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	sessionID, _ := ctx.Locals("session_id").(string)
	res, err := c.service.SendChat(ctx.Context(), sessionID, &req)
	if err != nil {
		return ctx.Status(chatErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"code":    chatErrorStatus(err),
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat answered",
		"data":    res,
	})
}

func (c *chatController) GetTranscript(ctx *fiber.Ctx) error {
	sessionID, _ := ctx.Locals("session_id").(string)
	res, err := c.service.GetTranscript(sessionID)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    404,
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Transcript",
		"data":    res,
	})
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionID, _ := ctx.Locals("session_id").(string)
	messages, err := c.service.GetHistory(ctx.Context(), sessionID)
	if err != nil {
		return ctx.Status(chatErrorStatus(err)).JSON(fiber.Map{
			"success": false,
			"code":    chatErrorStatus(err),
			"message": err.Error(),
		})
	}

	turns := make([]dto.HistoryTurnDTO, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, dto.HistoryTurnDTO{
			Role:      m.Role,
			Content:   m.Chat,
			CitedFile: m.CitedFile,
			CreatedAt: m.CreatedAt,
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat history",
		"data":    dto.GetHistoryResponse{Turns: turns},
	})
}

func chatErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrTurnInFlight):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrEmptyChat):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
