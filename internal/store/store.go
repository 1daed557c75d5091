// Package store defines the minimal record-oriented persistence contract shared by
// the MongoDB, Postgres and in-memory backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// IDField is the conventional identifier field of a record.
const IDField = "id"

var (
	// ErrNotFound is returned by FindOne when nothing matches.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable marks failures reaching the backing database. Callers may retry.
	ErrUnavailable = errors.New("record store unavailable")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidTable is returned for table names that are not plain identifiers.
	ErrInvalidTable = errors.New("invalid table name")
	// ErrInvalidFilter is returned for filters holding values other than scalars.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Record is a free-form document.
type Record map[string]any

// ID returns the record identifier, or "" when absent.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Filter selects records whose fields equal every given value. A nil or empty
// filter matches all records. Values must be strings, booleans or numbers;
// numbers compare by value, so int 1 matches float64 1. Nil, slices and maps
// are rejected with ErrInvalidFilter because the drivers disagree on them
// (JSONB containment, null versus missing fields).
type Filter map[string]any

// Validate reports ErrInvalidFilter for keys or values a driver cannot compare
// by plain equality.
func (f Filter) Validate() error {
	for k, v := range f {
		if !fieldNamePattern.MatchString(k) {
			return fmt.Errorf("%w: field %q", ErrInvalidFilter, k)
		}
		if !isScalar(v) {
			return fmt.Errorf("%w: field %q holds %T", ErrInvalidFilter, k, v)
		}
	}
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// UniqueIndexer is implemented by stores that can reject a second record
// carrying the same value in field. Violations surface as ErrDuplicate.
type UniqueIndexer interface {
	EnsureUniqueIndex(ctx context.Context, table, field string) error
}

// RecordStore is the persistence contract consumed by repositories.
type RecordStore interface {
	// CreateTable creates an empty table if it does not exist yet.
	CreateTable(ctx context.Context, name string) error
	// Insert appends a record. Duplicate identifiers are not detected.
	Insert(ctx context.Context, table string, record Record) error
	// Find returns matching records in insertion order. Unknown tables yield no records.
	Find(ctx context.Context, table string, filter Filter) ([]Record, error)
	// FindOne returns the first match in insertion order or ErrNotFound.
	FindOne(ctx context.Context, table string, filter Filter) (Record, error)
	// Update merges patch into every matching record and returns the match
	// count. An empty patch changes nothing but still reports the count.
	Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error)
	// Delete removes every matching record.
	Delete(ctx context.Context, table string, filter Filter) (int64, error)
	// DeleteOne removes the first matching record.
	DeleteOne(ctx context.Context, table string, filter Filter) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)
	fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)
)

// ValidateTable rejects names that cannot be used as a collection or table name.
func ValidateTable(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, name)
	}
	return nil
}

// checkQuery validates the table name and filter shared by every read and write.
func checkQuery(table string, filter Filter) error {
	if err := ValidateTable(table); err != nil {
		return err
	}
	return filter.Validate()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
