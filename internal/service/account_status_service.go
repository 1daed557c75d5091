package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/events"
	"github.com/serenity-care/wellness-api/internal/repository"
	"github.com/serenity-care/wellness-api/internal/store"
)

// AccountStatusService answers whether a token subject is still active. Lookups
// go through the optional cache before hitting the record store.
type AccountStatusService struct {
	accounts repository.AccountRepository
	cache    repository.StatusCache
	logger   *zap.Logger
}

// NewAccountStatusService builds the service. cache may be nil.
func NewAccountStatusService(accounts repository.AccountRepository, cache repository.StatusCache, logger *zap.Logger) *AccountStatusService {
	return &AccountStatusService{accounts: accounts, cache: cache, logger: logger}
}

// IsActive implements auth.AccountStatusChecker.
func (s *AccountStatusService) IsActive(ctx context.Context, role domain.Role, subjectID string) (bool, error) {
	if s.cache != nil {
		active, found, err := s.cache.Get(ctx, role, subjectID)
		if err != nil {
			s.logger.Warn("status cache read failed", zap.Error(err))
		} else if found {
			return active, nil
		}
	}

	account, err := s.accounts.GetByID(ctx, role, subjectID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, role, subjectID, account.IsActive); err != nil {
			s.logger.Warn("status cache write failed", zap.Error(err))
		}
	}
	return account.IsActive, nil
}

// HandleAccountDeactivated evicts the cached status of a deactivated account.
func (s *AccountStatusService) HandleAccountDeactivated(ctx context.Context, event events.Event) error {
	if s.cache == nil {
		return nil
	}
	payload, ok := event.Payload.(events.AccountPayload)
	if !ok {
		return nil
	}
	return s.cache.Invalidate(ctx, payload.Role, payload.AccountID)
}
