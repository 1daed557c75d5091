package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/store"
)

// ServiceRepository persists the therapy service catalog.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.TherapyService) error
	GetByID(ctx context.Context, id string) (*domain.TherapyService, error)
	List(ctx context.Context, activeOnly bool) ([]domain.TherapyService, error)
}

type serviceRepository struct {
	store store.RecordStore
}

// NewServiceRepository returns a record store backed implementation.
func NewServiceRepository(s store.RecordStore) ServiceRepository {
	return &serviceRepository{store: s}
}

func (r *serviceRepository) Create(ctx context.Context, svc *domain.TherapyService) error {
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	svc.CreatedAt = time.Now().UTC()
	return r.store.Insert(ctx, domain.CollectionServices, store.Record{
		"id":              svc.ID,
		"name":            svc.Name,
		"description":     svc.Description,
		"durationMinutes": svc.DurationMinutes,
		"priceCents":      svc.PriceCents,
		"isActive":        svc.IsActive,
		"createdAt":       formatTime(svc.CreatedAt),
	})
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.TherapyService, error) {
	rec, err := r.store.FindOne(ctx, domain.CollectionServices, store.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	svc := decodeService(rec)
	return &svc, nil
}

func (r *serviceRepository) List(ctx context.Context, activeOnly bool) ([]domain.TherapyService, error) {
	var filter store.Filter
	if activeOnly {
		filter = store.Filter{"isActive": true}
	}
	recs, err := r.store.Find(ctx, domain.CollectionServices, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TherapyService, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeService(rec))
	}
	return out, nil
}

func decodeService(rec store.Record) domain.TherapyService {
	return domain.TherapyService{
		ID:              str(rec, "id"),
		Name:            str(rec, "name"),
		Description:     str(rec, "description"),
		DurationMinutes: int(integer(rec, "durationMinutes")),
		PriceCents:      integer(rec, "priceCents"),
		IsActive:        boolean(rec, "isActive"),
		CreatedAt:       timestamp(rec, "createdAt"),
	}
}
