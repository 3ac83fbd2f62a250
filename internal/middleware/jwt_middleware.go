package middleware

import (
	"strings"

	"lockedin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that enforces a valid bearer token.
// A missing or malformed Authorization header is 401; a token that fails
// verification, for whatever reason, is 403. On success the identity claims
// land in the request locals for the downstream handler.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No token provided",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No token provided",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid token",
			})
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid token",
			})
		}
		email, _ := claims["email"].(string)

		c.Locals("user_id", uint(userID))
		c.Locals("email", email)

		return c.Next()
	}
}

// UserID reads the authenticated user id placed in locals by AuthRequired.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

// Email reads the authenticated email claim placed in locals by AuthRequired.
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}
