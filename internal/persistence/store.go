package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/serenity-care/wellness-api/internal/config"
	"github.com/serenity-care/wellness-api/internal/store"
)

// OpenStore builds the record store selected by STORE_DRIVER. The returned
// close function releases the underlying connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.RecordStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := NewMongo(ctx, cfg.Store, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		s := store.NewMongoStore(client, cfg.Store.MongoDatabase)
		return s, func() { _ = s.Close(context.Background()) }, nil
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return store.NewPostgresStore(pg.PoolHandle()), pg.Close, nil
	case config.DriverMemory:
		logger.Warn("using in-memory record store; data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
