package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serenity-care/wellness-api/internal/auth"
	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/events"
	"github.com/serenity-care/wellness-api/internal/repository"
	"github.com/serenity-care/wellness-api/internal/store"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

// BookingService handles appointment requests and their lifecycle.
type BookingService struct {
	bookings   repository.BookingRepository
	catalog    *CatalogService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewBookingService builds the service.
func NewBookingService(bookings repository.BookingRepository, catalog *CatalogService, dispatcher events.Dispatcher, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings:   bookings,
		catalog:    catalog,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create books a session for the calling patient.
func (s *BookingService) Create(ctx context.Context, claims *auth.Claims, serviceID string, scheduledAt time.Time, notes string) (*domain.Booking, error) {
	if !scheduledAt.After(s.now()) {
		return nil, apperrors.NewValidationError("scheduled time must be in the future", nil)
	}
	svc, err := s.catalog.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperrors.NewValidationError("service is not bookable", map[string]any{"service_id": serviceID})
	}

	booking := &domain.Booking{
		UserID:      claims.SubjectID,
		ServiceID:   svc.ID,
		ScheduledAt: scheduledAt.UTC(),
		Notes:       notes,
		Status:      domain.BookingStatusPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, claims, events.EventBookingCreated, events.BookingCreatedPayload{
		BookingID:   booking.ID,
		ServiceID:   booking.ServiceID,
		ScheduledAt: booking.ScheduledAt,
	})
	return booking, nil
}

// ListForUser returns the caller's own bookings.
func (s *BookingService) ListForUser(ctx context.Context, claims *auth.Claims) ([]domain.Booking, error) {
	return s.bookings.List(ctx, repository.BookingFilter{UserID: claims.SubjectID})
}

// ListAll returns every booking, optionally narrowed by status.
func (s *BookingService) ListAll(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(status)})
	}
	return s.bookings.List(ctx, repository.BookingFilter{Status: status})
}

// UpdateStatus moves a booking along its lifecycle and assigns the employee.
func (s *BookingService) UpdateStatus(ctx context.Context, claims *auth.Claims, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(status)})
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFound("booking", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	if booking.Status.Terminal() {
		return nil, apperrors.NewConflict("booking is already closed", map[string]any{"status": string(booking.Status)})
	}

	old := booking.Status
	if err := s.bookings.UpdateStatus(ctx, id, old, status, claims.SubjectID); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperrors.NewConflict("booking was updated by someone else", map[string]any{"id": id})
		}
		return nil, err
	}
	booking.Status = status
	booking.EmployeeID = claims.SubjectID

	s.publish(ctx, claims, events.EventBookingStatusChanged, events.BookingStatusChangedPayload{
		BookingID: id,
		OldStatus: old,
		NewStatus: status,
	})
	return booking, nil
}

func (s *BookingService) publish(ctx context.Context, claims *auth.Claims, typ events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Actor:     events.Actor{Role: claims.Role, SubjectID: claims.SubjectID},
		Timestamp: s.now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(typ)), zap.Error(err))
	}
}
