package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func uniqueTable(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// runContract exercises the RecordStore contract against any backend.
func runContract(t *testing.T, s RecordStore) {
	t.Helper()

	t.Run("create table is idempotent", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("ct")
		require.NoError(t, s.CreateTable(ctx, table))
		require.NoError(t, s.CreateTable(ctx, table))

		rows, err := s.Find(ctx, table, nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("insert then find one returns the record", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("svc")
		require.NoError(t, s.CreateTable(ctx, table))

		rec := Record{"id": "svc1", "name": "Individual Therapy", "isActive": true}
		require.NoError(t, s.Insert(ctx, table, rec))

		got, err := s.FindOne(ctx, table, Filter{"id": "svc1"})
		require.NoError(t, err)
		assert.Equal(t, rec, got)

		all, err := s.Find(ctx, table, nil)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Individual Therapy", all[0]["name"])
	})

	t.Run("find preserves insertion order and filters", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("ord")
		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, s.Insert(ctx, table, Record{"id": id, "kind": "x"}))
		}
		require.NoError(t, s.Insert(ctx, table, Record{"id": "d", "kind": "y"}))

		rows, err := s.Find(ctx, table, Filter{"kind": "x"})
		require.NoError(t, err)
		ids := make([]string, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID())
		}
		assert.Equal(t, []string{"c", "a", "b"}, ids)

		first, err := s.FindOne(ctx, table, Filter{"kind": "x"})
		require.NoError(t, err)
		assert.Equal(t, "c", first.ID())
	})

	t.Run("find one on no match", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("nf")
		require.NoError(t, s.CreateTable(ctx, table))
		_, err := s.FindOne(ctx, table, Filter{"id": "missing"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown table reads as empty", func(t *testing.T) {
		rows, err := s.Find(context.Background(), uniqueTable("ghost"), nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("update merges patch into every match", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("upd")
		require.NoError(t, s.Insert(ctx, table, Record{"id": "1", "group": "g", "name": "one"}))
		require.NoError(t, s.Insert(ctx, table, Record{"id": "2", "group": "g", "name": "two"}))
		require.NoError(t, s.Insert(ctx, table, Record{"id": "3", "group": "h", "name": "three"}))

		n, err := s.Update(ctx, table, Filter{"group": "g"}, Record{"isActive": false})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		rows, err := s.Find(ctx, table, nil)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, Record{"id": "1", "group": "g", "name": "one", "isActive": false}, rows[0])
		assert.Equal(t, Record{"id": "2", "group": "g", "name": "two", "isActive": false}, rows[1])
		assert.Equal(t, Record{"id": "3", "group": "h", "name": "three"}, rows[2])
	})

	t.Run("delete removes all matches", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("del")
		for _, id := range []string{"1", "2", "3"} {
			require.NoError(t, s.Insert(ctx, table, Record{"id": id, "owner": "u1"}))
		}
		require.NoError(t, s.Insert(ctx, table, Record{"id": "4", "owner": "u2"}))

		n, err := s.Delete(ctx, table, Filter{"owner": "u1"})
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		rows, err := s.Find(ctx, table, Filter{"owner": "u1"})
		require.NoError(t, err)
		assert.Empty(t, rows)

		rest, err := s.Find(ctx, table, nil)
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})

	t.Run("delete one removes only the first match", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("del1")
		for _, id := range []string{"1", "2"} {
			require.NoError(t, s.Insert(ctx, table, Record{"id": id, "owner": "u1"}))
		}

		n, err := s.DeleteOne(ctx, table, Filter{"owner": "u1"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		rows, err := s.Find(ctx, table, nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2", rows[0].ID())
	})

	t.Run("unique index rejects a second record with the same value", func(t *testing.T) {
		idx, ok := s.(UniqueIndexer)
		require.True(t, ok, "%T must support unique indexes", s)

		ctx := context.Background()
		table := uniqueTable("acct")
		require.NoError(t, s.Insert(ctx, table, Record{"id": "1", "email": "a@example.com"}))
		require.NoError(t, idx.EnsureUniqueIndex(ctx, table, "email"))
		require.NoError(t, idx.EnsureUniqueIndex(ctx, table, "email"))

		err := s.Insert(ctx, table, Record{"id": "2", "email": "a@example.com"})
		assert.ErrorIs(t, err, ErrDuplicate)

		require.NoError(t, s.Insert(ctx, table, Record{"id": "3", "email": "b@example.com"}))
		require.NoError(t, s.Insert(ctx, table, Record{"id": "4"}))
		require.NoError(t, s.Insert(ctx, table, Record{"id": "5"}))

		_, err = s.Update(ctx, table, Filter{"id": "3"}, Record{"email": "a@example.com"})
		assert.ErrorIs(t, err, ErrDuplicate)

		rows, err := s.Find(ctx, table, Filter{"email": "a@example.com"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "1", rows[0].ID())
	})

	t.Run("numbers compare by value", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("num")
		require.NoError(t, s.Insert(ctx, table, Record{"id": "1", "score": int64(3)}))

		rows, err := s.Find(ctx, table, Filter{"score": 3})
		require.NoError(t, err)
		assert.Len(t, rows, 1)

		rows, err = s.Find(ctx, table, Filter{"score": 3.0})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("array fields never match a scalar", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("arr")
		require.NoError(t, s.Insert(ctx, table, Record{"id": "1", "tags": []any{"a", "b"}}))

		rows, err := s.Find(ctx, table, Filter{"tags": "a"})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("non scalar filters are rejected", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("bad")
		require.NoError(t, s.CreateTable(ctx, table))

		for _, f := range []Filter{
			{"tags": []string{"a"}},
			{"meta": map[string]any{"k": "v"}},
			{"missing": nil},
			{"$where": "1"},
		} {
			_, err := s.Find(ctx, table, f)
			assert.ErrorIs(t, err, ErrInvalidFilter, "%v", f)
			_, err = s.Update(ctx, table, f, Record{"x": 1})
			assert.ErrorIs(t, err, ErrInvalidFilter, "%v", f)
			_, err = s.Delete(ctx, table, f)
			assert.ErrorIs(t, err, ErrInvalidFilter, "%v", f)
		}
	})

	t.Run("update with an empty patch reports the match count", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("nop")
		require.NoError(t, s.Insert(ctx, table, Record{"id": "1", "group": "g"}))
		require.NoError(t, s.Insert(ctx, table, Record{"id": "2", "group": "g"}))

		n, err := s.Update(ctx, table, Filter{"group": "g"}, Record{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		n, err = s.Update(ctx, table, Filter{"group": "none"}, nil)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)
	})

	t.Run("every operation validates the table name", func(t *testing.T) {
		ctx := context.Background()
		const bad = "bad table"

		_, err := s.Find(ctx, bad, nil)
		assert.ErrorIs(t, err, ErrInvalidTable)
		_, err = s.FindOne(ctx, bad, nil)
		assert.ErrorIs(t, err, ErrInvalidTable)
		_, err = s.Update(ctx, bad, nil, Record{"x": 1})
		assert.ErrorIs(t, err, ErrInvalidTable)
		_, err = s.Delete(ctx, bad, nil)
		assert.ErrorIs(t, err, ErrInvalidTable)
		_, err = s.DeleteOne(ctx, bad, nil)
		assert.ErrorIs(t, err, ErrInvalidTable)
		assert.ErrorIs(t, s.Insert(ctx, bad, Record{"id": "1"}), ErrInvalidTable)
		assert.ErrorIs(t, s.CreateTable(ctx, bad), ErrInvalidTable)
	})

	t.Run("duplicate ids are not rejected", func(t *testing.T) {
		ctx := context.Background()
		table := uniqueTable("dup")
		require.NoError(t, s.Insert(ctx, table, Record{"id": "same"}))
		require.NoError(t, s.Insert(ctx, table, Record{"id": "same"}))

		rows, err := s.Find(ctx, table, Filter{"id": "same"})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestMemoryStoreContract(t *testing.T) {
	runContract(t, NewMemoryStore())
}

func TestMongoStoreContract(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	s := NewMongoStore(client, uniqueTable("wellness_test"))
	require.NoError(t, s.Ping(ctx))
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close(context.Background())
	})

	runContract(t, s)
}

func TestPostgresStoreContract(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	runContract(t, NewPostgresStore(pool))
}
