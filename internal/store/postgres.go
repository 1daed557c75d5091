package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

// PostgresStore keeps each table as rows of JSONB documents ordered by a serial
// key. Filters compile to one `doc->'field' = value` term per field, so numbers
// compare by value and arrays never match a scalar.
type PostgresStore struct {
	pool  *pgxpool.Pool
	known sync.Map
}

// NewPostgresStore wraps an already connected pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateTable(ctx context.Context, name string) error {
	if err := ValidateTable(name); err != nil {
		return err
	}
	if _, ok := s.known.Load(name); ok {
		return nil
	}
	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            seq BIGSERIAL PRIMARY KEY,
            doc JSONB NOT NULL
        )`, ident(name))
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return pgErr("create table", err)
	}
	s.known.Store(name, struct{}{})
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, table string, record Record) error {
	if err := s.CreateTable(ctx, table); err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (doc) VALUES ($1)`, ident(table))
	if _, err := s.pool.Exec(ctx, query, jsonDoc(record)); err != nil {
		return pgErr("insert", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, table string, filter Filter) ([]Record, error) {
	return s.query(ctx, table, filter, false)
}

func (s *PostgresStore) FindOne(ctx context.Context, table string, filter Filter) (Record, error) {
	rows, err := s.query(ctx, table, filter, true)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func (s *PostgresStore) query(ctx context.Context, table string, filter Filter, first bool) ([]Record, error) {
	if err := checkQuery(table, filter); err != nil {
		return nil, err
	}
	where, args, err := whereClause(filter, 1)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE %s ORDER BY seq`, ident(table), where)
	if first {
		query += " LIMIT 1"
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return []Record{}, nil
		}
		return nil, pgErr("find", err)
	}
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var doc map[string]any
		err := row.Scan(&doc)
		return Record(doc), err
	})
	if err != nil {
		if isUndefinedTable(err) {
			return []Record{}, nil
		}
		return nil, pgErr("scan", err)
	}
	return docs, nil
}

// Update with an empty patch rewrites matches unchanged, so the count still holds.
func (s *PostgresStore) Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	where, args, err := whereClause(filter, 2)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`UPDATE %s SET doc = doc || $1::jsonb WHERE %s`, ident(table), where)
	return s.exec(ctx, "update", query, append([]any{jsonDoc(patch)}, args...)...)
}

func (s *PostgresStore) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	where, args, err := whereClause(filter, 1)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s`, ident(table), where)
	return s.exec(ctx, "delete", query, args...)
}

func (s *PostgresStore) DeleteOne(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	where, args, err := whereClause(filter, 1)
	if err != nil {
		return 0, err
	}
	t := ident(table)
	query := fmt.Sprintf(`
        DELETE FROM %s WHERE seq = (
            SELECT seq FROM %s WHERE %s ORDER BY seq LIMIT 1
        )`, t, t, where)
	return s.exec(ctx, "delete one", query, args...)
}

// EnsureUniqueIndex adds a unique expression index on doc->>field. Rows lacking
// the field index as NULL and never collide.
func (s *PostgresStore) EnsureUniqueIndex(ctx context.Context, table, field string) error {
	if err := checkQuery(table, Filter{field: ""}); err != nil {
		return err
	}
	if err := s.CreateTable(ctx, table); err != nil {
		return err
	}
	query := fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((doc->>'%s'))`,
		ident(indexName(table, field)), ident(table), field)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return pgErr("create index", err)
	}
	return nil
}

func (s *PostgresStore) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	cmd, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return 0, nil
		}
		return 0, pgErr(op, err)
	}
	return cmd.RowsAffected(), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close is a no-op; the pool is owned by the persistence layer.
func (s *PostgresStore) Close(context.Context) error { return nil }

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func jsonDoc(r Record) map[string]any {
	if r == nil {
		return map[string]any{}
	}
	return map[string]any(r)
}

// whereClause renders one equality term per filter field, numbering parameters
// from first. Field names are already validated, so they are inlined as literals.
// Values are sent as JSON text because pgx passes strings to jsonb verbatim.
func whereClause(filter Filter, first int) (string, []any, error) {
	if len(filter) == 0 {
		return "TRUE", nil, nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	terms := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		raw, err := json.Marshal(filter[k])
		if err != nil {
			return "", nil, fmt.Errorf("%w: field %q: %w", ErrInvalidFilter, k, err)
		}
		terms = append(terms, fmt.Sprintf(`doc->'%s' = $%d::jsonb`, k, first+i))
		args = append(args, string(raw))
	}
	return strings.Join(terms, " AND "), args, nil
}

func indexName(table, field string) string {
	name := strings.ToLower(table + "_" + field + "_uniq")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}

func pgErr(op string, err error) error {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		if pe.Code == pgUniqueViolation {
			return fmt.Errorf("postgres %s: %w", op, ErrDuplicate)
		}
		return fmt.Errorf("postgres %s: %w", op, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return unavailable(op, err)
	}
	return fmt.Errorf("postgres %s: %w", op, err)
}
