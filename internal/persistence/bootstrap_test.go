package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/serenity-care/wellness-api/internal/config"
	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/store"
)

type indexingStore struct {
	*store.MemoryStore
	indexed []string
}

func (s *indexingStore) EnsureUniqueIndex(ctx context.Context, table, field string) error {
	s.indexed = append(s.indexed, table+"."+field)
	return s.MemoryStore.EnsureUniqueIndex(ctx, table, field)
}

// plainStore hides EnsureUniqueIndex.
type plainStore struct {
	store.RecordStore
}

func TestBootstrapCreatesCollections(t *testing.T) {
	ctx := context.Background()
	s := &indexingStore{MemoryStore: store.NewMemoryStore()}

	require.NoError(t, Bootstrap(ctx, s, zap.NewNop()))
	require.NoError(t, Bootstrap(ctx, s, zap.NewNop()))

	for _, name := range domain.Collections {
		rows, err := s.Find(ctx, name, nil)
		require.NoError(t, err)
		assert.Empty(t, rows, name)
	}
	assert.Contains(t, s.indexed, "users.email")
	assert.Contains(t, s.indexed, "admin_users.email")
	assert.Contains(t, s.indexed, "employees.email")
}

func TestBootstrapEnforcesUniqueEmails(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, Bootstrap(ctx, s, zap.NewNop()))

	for _, role := range domain.Roles {
		require.NoError(t, s.Insert(ctx, role.Collection(), store.Record{"id": "1", "email": "same@example.com"}))
		err := s.Insert(ctx, role.Collection(), store.Record{"id": "2", "email": "same@example.com"})
		assert.ErrorIs(t, err, store.ErrDuplicate, role)
	}
}

func TestBootstrapRefusesStoresWithoutUniqueIndexes(t *testing.T) {
	err := Bootstrap(context.Background(), plainStore{store.NewMemoryStore()}, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenStoreMemory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
	s, closeFn, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &store.MemoryStore{}, s)
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}
	_, _, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedisDisabledWithoutAddr(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{}, zap.NewNop())
	assert.Nil(t, r)
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
}
