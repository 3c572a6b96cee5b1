package controller

import (
	"time"

	"ta-chatbot-be/internal/config"
	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	SessionStatus(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	authCfg config.AuthConfig
}

func NewAuthController(service service.IAuthService, authCfg config.AuthConfig) IAuthController {
	return &authController{service: service, authCfg: authCfg}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
	h.Get("/session", c.SessionStatus)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}

	// Rejection is a normal gate outcome, not a transport error. The ternary
	// status rides in the body; 401 signals it for clients that key on codes.
	if res.Status == entity.AuthRejected.String() {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": "Username/password is incorrect",
			"data":    res,
		})
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     c.authCfg.CookieName,
		Value:    res.Token,
		Expires:  time.Now().Add(time.Duration(c.authCfg.ExpiryDays) * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Login successful",
		"data":    res,
	})
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	if sessionID, ok := ctx.Locals("session_id").(string); ok && sessionID != "" {
		c.service.Logout(sessionID)
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     c.authCfg.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Logged out successfully",
		"data":    nil,
	})
}

func (c *authController) SessionStatus(ctx *fiber.Ctx) error {
	sessionID, _ := ctx.Locals("session_id").(string)
	res := c.service.SessionStatus(sessionID)
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Session status",
		"data":    res,
	})
}
