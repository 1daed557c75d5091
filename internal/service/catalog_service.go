package service

import (
	"context"
	"errors"
	"strings"

	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/repository"
	"github.com/serenity-care/wellness-api/internal/store"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

// CatalogService manages bookable therapy services.
type CatalogService struct {
	services repository.ServiceRepository
}

// NewCatalogService builds the service.
func NewCatalogService(services repository.ServiceRepository) *CatalogService {
	return &CatalogService{services: services}
}

// List returns active services for the public catalog.
func (s *CatalogService) List(ctx context.Context) ([]domain.TherapyService, error) {
	return s.services.List(ctx, true)
}

// Get loads one service.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.TherapyService, error) {
	svc, err := s.services.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFound("service", map[string]any{"id": id})
	}
	return svc, err
}

// Create adds a service to the catalog.
func (s *CatalogService) Create(ctx context.Context, svc *domain.TherapyService) error {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	if svc.DurationMinutes < 0 || svc.PriceCents < 0 {
		return apperrors.NewValidationError("duration and price must not be negative", nil)
	}
	svc.IsActive = true
	return s.services.Create(ctx, svc)
}
