package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/serenity-care/wellness-api/internal/api/dto"
	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/observability"
	"github.com/serenity-care/wellness-api/internal/service"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

// AdminHandler exposes moderation endpoints.
type AdminHandler struct {
	auth    *service.AuthService
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{auth: authService, metrics: metrics}
}

// CreateEmployee handles POST /api/admin/employees.
func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.auth.CreateEmployee(c.UserContext(), claims, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Deactivate handles PATCH /api/admin/accounts/:role/:id/deactivate.
func (h *AdminHandler) Deactivate(c *fiber.Ctx) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	role, err := domain.ParseRole(c.Params("role"))
	if err != nil {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": c.Params("role")})
	}
	if err := h.auth.DeactivateAccount(c.UserContext(), claims, role, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Metrics handles GET /api/admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
