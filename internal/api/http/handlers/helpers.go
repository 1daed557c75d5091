package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/serenity-care/wellness-api/internal/auth"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return apperrors.Validate(out)
}

func claimsOf(c *fiber.Ctx) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return claims, nil
}
