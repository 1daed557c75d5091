package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/serenity-care/wellness-api/internal/api/dto"
	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/service"
)

// CatalogHandler exposes the therapy service catalog.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /api/services.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	services, err := h.catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, dto.NewServiceResponse(s))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /api/services.
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateServiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	svc := &domain.TherapyService{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
	}
	if err := h.catalog.Create(c.UserContext(), svc); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewServiceResponse(*svc)})
}
