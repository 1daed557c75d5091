package events

import (
	"time"

	"github.com/serenity-care/wellness-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountCreated       EventType = "account_created"
	EventAccountDeactivated   EventType = "account_deactivated"
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
)

// Actor identifies who triggered an event.
type Actor struct {
	Role      domain.Role `json:"role"`
	SubjectID string      `json:"subject_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountPayload describes the account an event refers to.
type AccountPayload struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
	Email     string      `json:"email"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	BookingID   string    `json:"booking_id"`
	ServiceID   string    `json:"service_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	BookingID string               `json:"booking_id"`
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}
