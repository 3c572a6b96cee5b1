package controller

import (
	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRosterController interface {
	RegisterRoutes(r fiber.Router)
	Import(ctx *fiber.Ctx) error
	ListUsers(ctx *fiber.Ctx) error
	UpsertUser(ctx *fiber.Ctx) error
	DeleteUser(ctx *fiber.Ctx) error
}

type rosterController struct {
	service service.IRosterService
}

func NewRosterController(service service.IRosterService) IRosterController {
	return &rosterController{service: service}
}

func (c *rosterController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/roster")
	h.Post("/import", c.Import)
	h.Get("/users", c.ListUsers)
	h.Put("/users", c.UpsertUser)
	h.Delete("/users/:username", c.DeleteUser)
}

// Import ingests a classlist CSV uploaded under the "roster" field.
func (c *rosterController) Import(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("roster")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected a 'roster' file upload")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := c.service.ImportCSV(ctx.Context(), f)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Roster imported",
		"data":    res,
	})
}

func (c *rosterController) ListUsers(ctx *fiber.Ctx) error {
	users, err := c.service.ListUsers(ctx.Context())
	if err != nil {
		return err
	}

	res := make([]dto.UpsertUserRequest, 0, len(users))
	for _, u := range users {
		res = append(res, dto.UpsertUserRequest{
			Username:      u.Username,
			StudentNumber: u.StudentNumber,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			Role:          string(u.Role),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Roster users",
		"data":    res,
	})
}

func (c *rosterController) UpsertUser(ctx *fiber.Ctx) error {
	var req dto.UpsertUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.UpsertUser(ctx.Context(), &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "User saved",
		"data":    nil,
	})
}

func (c *rosterController) DeleteUser(ctx *fiber.Ctx) error {
	if err := c.service.DeleteUser(ctx.Context(), ctx.Params("username")); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "User deleted",
		"data":    nil,
	})
}
