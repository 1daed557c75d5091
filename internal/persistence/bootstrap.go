package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/store"
)

// Bootstrap creates the known collections and unique email indexes on the
// account collections. A store that cannot enforce uniqueness is refused.
func Bootstrap(ctx context.Context, s store.RecordStore, logger *zap.Logger) error {
	idx, ok := s.(store.UniqueIndexer)
	if !ok {
		return fmt.Errorf("record store %T cannot enforce unique account emails", s)
	}

	for _, name := range domain.Collections {
		if err := s.CreateTable(ctx, name); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
	}

	for _, role := range domain.Roles {
		if err := idx.EnsureUniqueIndex(ctx, role.Collection(), "email"); err != nil {
			return fmt.Errorf("index %s.email: %w", role.Collection(), err)
		}
	}

	logger.Info("record store bootstrapped", zap.Int("collections", len(domain.Collections)))
	return nil
}
