package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware validates the session token on protected routes. The token
// rides in the configured cookie (set at login) or, as a fallback, in a
// Bearer Authorization header.
func JwtMiddleware(cookieName, signingKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := ctx.Cookies(cookieName)
		if tokenStr == "" {
			authHeader := ctx.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(signingKey), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
		}

		ctx.Locals("username", claims["username"])
		ctx.Locals("session_id", claims["session_id"])
		ctx.Locals("role", claims["role"])
		return ctx.Next()
	}
}

// OptionalJwtMiddleware sets the token claims as locals when a valid token is
// present and passes through otherwise. Routes behind it see the unattempted
// state instead of a 401 when no session exists.
func OptionalJwtMiddleware(cookieName, signingKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := ctx.Cookies(cookieName)
		if tokenStr == "" {
			authHeader := ctx.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}
		if tokenStr == "" {
			return ctx.Next()
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(signingKey), nil
		})
		if err != nil || !token.Valid {
			return ctx.Next()
		}
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			ctx.Locals("username", claims["username"])
			ctx.Locals("session_id", claims["session_id"])
			ctx.Locals("role", claims["role"])
		}
		return ctx.Next()
	}
}

// AdminOnly restricts a route to roster administrators. Must run after
// JwtMiddleware.
func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals("role").(string)
		if role != "admin" {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Admins only"})
		}
		return ctx.Next()
	}
}
