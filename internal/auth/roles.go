package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/serenity-care/wellness-api/internal/domain"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

// RequireRole fails unless the claims carry exactly role. Roles do not inherit.
func RequireRole(claims *Claims, role domain.Role) error {
	if claims == nil || !role.Valid() || claims.Role != role {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}

// Require ensures the authenticated caller holds role.
func Require(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if err := RequireRole(claims, role); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures any known role is authenticated.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ClaimsFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
