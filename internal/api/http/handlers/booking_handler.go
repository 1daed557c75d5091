package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/serenity-care/wellness-api/internal/api/dto"
	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/service"
)

// BookingHandler exposes patient and employee booking endpoints.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs handler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	booking, err := h.bookings.Create(c.UserContext(), claims, req.ServiceID, req.ScheduledAt, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookingResponse(*booking)})
}

// ListMine handles GET /api/bookings.
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookings.ListForUser(c.UserContext(), claims)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingResponses(bookings)})
}

// ListAll handles GET /api/employee/bookings.
func (h *BookingHandler) ListAll(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListAll(c.UserContext(), domain.BookingStatus(c.Query("status")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingResponses(bookings)})
}

// UpdateStatus handles PATCH /api/employee/bookings/:id.
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBookingStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	booking, err := h.bookings.UpdateStatus(c.UserContext(), claims, c.Params("id"), domain.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponse(*booking)})
}

func bookingResponses(bookings []domain.Booking) []dto.BookingResponse {
	out := make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.NewBookingResponse(b))
	}
	return out
}
