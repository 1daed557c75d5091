package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/store"
)

// ErrStatusChanged is returned when a booking no longer has the status an
// update expected, typically because another employee moved it first.
var ErrStatusChanged = errors.New("booking status changed concurrently")

// BookingFilter narrows booking listings. Zero values are ignored.
type BookingFilter struct {
	UserID string
	Status domain.BookingStatus
}

// BookingRepository persists appointments.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	// UpdateStatus moves the booking from one status to another. It fails with
	// ErrStatusChanged unless the booking still has status from.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, employeeID string) error
}

type bookingRepository struct {
	store store.RecordStore
}

// NewBookingRepository returns a record store backed implementation.
func NewBookingRepository(s store.RecordStore) BookingRepository {
	return &bookingRepository{store: s}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	return r.store.Insert(ctx, domain.CollectionBookings, store.Record{
		"id":          b.ID,
		"userId":      b.UserID,
		"serviceId":   b.ServiceID,
		"employeeId":  b.EmployeeID,
		"scheduledAt": formatTime(b.ScheduledAt),
		"notes":       b.Notes,
		"status":      string(b.Status),
		"createdAt":   formatTime(now),
		"updatedAt":   formatTime(now),
	})
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	rec, err := r.store.FindOne(ctx, domain.CollectionBookings, store.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	b := decodeBooking(rec)
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	filter := store.Filter{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	recs, err := r.store.Find(ctx, domain.CollectionBookings, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeBooking(rec))
	}
	return out, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, employeeID string) error {
	filter := store.Filter{"id": id, "status": string(from)}
	n, err := r.store.Update(ctx, domain.CollectionBookings, filter, store.Record{
		"status":     string(to),
		"employeeId": employeeID,
		"updatedAt":  formatTime(time.Now()),
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrStatusChanged
}

func decodeBooking(rec store.Record) domain.Booking {
	return domain.Booking{
		ID:          str(rec, "id"),
		UserID:      str(rec, "userId"),
		ServiceID:   str(rec, "serviceId"),
		EmployeeID:  str(rec, "employeeId"),
		ScheduledAt: timestamp(rec, "scheduledAt"),
		Notes:       str(rec, "notes"),
		Status:      domain.BookingStatus(str(rec, "status")),
		CreatedAt:   timestamp(rec, "createdAt"),
		UpdatedAt:   timestamp(rec, "updatedAt"),
	}
}
