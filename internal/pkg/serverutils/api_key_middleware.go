package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// ApiKeyMiddleware guards honeypot routes with the shared x-api-key header.
// An empty expected key disables auth (local development).
func ApiKeyMiddleware(expectedKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if expectedKey == "" {
			return ctx.Next()
		}

		provided := ctx.Get("x-api-key")
		if provided == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:  "unauthorized",
				Detail: "Missing x-api-key header",
			})
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expectedKey)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:  "unauthorized",
				Detail: "Invalid API key",
			})
		}
		return ctx.Next()
	}
}
