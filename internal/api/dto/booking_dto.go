package dto

import (
	"time"

	"github.com/serenity-care/wellness-api/internal/domain"
)

// CreateServiceRequest payload for catalog entries.
type CreateServiceRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Description     string `json:"description" validate:"max=2000"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0,lte=480"`
	PriceCents      int64  `json:"price_cents" validate:"gte=0"`
}

// ServiceResponse is the public view of a therapy service.
type ServiceResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
}

// NewServiceResponse maps the domain service.
func NewServiceResponse(s domain.TherapyService) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		PriceCents:      s.PriceCents,
	}
}

// CreateBookingRequest payload for booking a session.
type CreateBookingRequest struct {
	ServiceID   string    `json:"service_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

// UpdateBookingStatusRequest payload for employees moving a booking along.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// BookingResponse is the public view of a booking.
type BookingResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ServiceID   string    `json:"service_id"`
	EmployeeID  string    `json:"employee_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBookingResponse maps the domain booking.
func NewBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		ServiceID:   b.ServiceID,
		EmployeeID:  b.EmployeeID,
		ScheduledAt: b.ScheduledAt,
		Notes:       b.Notes,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

// CreateMoodEntryRequest payload for the mood journal.
type CreateMoodEntryRequest struct {
	Score int      `json:"score" validate:"required,gte=1,lte=5"`
	Note  string   `json:"note" validate:"max=2000"`
	Tags  []string `json:"tags" validate:"max=10,dive,max=32"`
}

// MoodEntryResponse is the public view of a journal entry.
type MoodEntryResponse struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Note      string    `json:"note,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMoodEntryResponse maps the domain entry.
func NewMoodEntryResponse(e domain.MoodEntry) MoodEntryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return MoodEntryResponse{ID: e.ID, Score: e.Score, Note: e.Note, Tags: tags, CreatedAt: e.CreatedAt}
}
