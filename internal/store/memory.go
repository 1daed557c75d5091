package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps tables in process memory. It is not durable and is meant for
// tests and local demos.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Record
	unique map[string][]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string][]Record),
		unique: make(map[string][]string),
	}
}

func (s *MemoryStore) CreateTable(_ context.Context, name string) error {
	if err := ValidateTable(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[name]; !ok {
		s.tables[name] = []Record{}
	}
	return nil
}

// EnsureUniqueIndex makes Insert and Update reject a second record with the
// same value in field. Records lacking the field are not constrained.
func (s *MemoryStore) EnsureUniqueIndex(_ context.Context, table, field string) error {
	if err := checkQuery(table, Filter{field: ""}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.unique[table] {
		if f == field {
			return nil
		}
	}
	if err := uniqueAmong([]string{field}, s.tables[table]); err != nil {
		return fmt.Errorf("memory create index %s.%s: %w", table, field, err)
	}
	s.unique[table] = append(s.unique[table], field)
	return nil
}

func (s *MemoryStore) Insert(_ context.Context, table string, record Record) error {
	if err := ValidateTable(table); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(table, record); err != nil {
		return err
	}
	s.tables[table] = append(s.tables[table], record.Clone())
	return nil
}

func (s *MemoryStore) Find(_ context.Context, table string, filter Filter) ([]Record, error) {
	if err := checkQuery(table, filter); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Record{}
	for _, rec := range s.tables[table] {
		if Matches(rec, filter) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) FindOne(_ context.Context, table string, filter Filter) (Record, error) {
	if err := checkQuery(table, filter); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.tables[table] {
		if Matches(rec, filter) {
			return rec.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Update(_ context.Context, table string, filter Filter, patch Record) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	var matched []int
	for i, rec := range rows {
		if Matches(rec, filter) {
			matched = append(matched, i)
		}
	}

	if len(matched) == 0 {
		return 0, nil
	}
	next := make([]Record, len(rows))
	copy(next, rows)
	for _, i := range matched {
		rec := rows[i].Clone()
		for k, v := range patch {
			rec[k] = v
		}
		next[i] = rec
	}
	if s.touchesUnique(table, patch) {
		if err := uniqueAmong(s.unique[table], next); err != nil {
			return 0, fmt.Errorf("memory update %s: %w", table, err)
		}
	}
	s.tables[table] = next
	return int64(len(matched)), nil
}

func (s *MemoryStore) Delete(_ context.Context, table string, filter Filter) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	return s.remove(table, filter, -1), nil
}

func (s *MemoryStore) DeleteOne(_ context.Context, table string, filter Filter) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	return s.remove(table, filter, 1), nil
}

func (s *MemoryStore) remove(table string, filter Filter, limit int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		return 0
	}
	kept := rows[:0]
	var n int64
	for _, rec := range rows {
		if (limit < 0 || n < int64(limit)) && Matches(rec, filter) {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	s.tables[table] = kept
	return n
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) touchesUnique(table string, patch Record) bool {
	for _, field := range s.unique[table] {
		if _, ok := patch[field]; ok {
			return true
		}
	}
	return false
}

// checkUnique reports ErrDuplicate when rec collides with a stored record.
// Callers hold the write lock.
func (s *MemoryStore) checkUnique(table string, rec Record) error {
	for _, field := range s.unique[table] {
		want, ok := rec[field]
		if !ok {
			continue
		}
		for _, other := range s.tables[table] {
			if got, ok := other[field]; ok && scalarEqual(got, want) {
				return fmt.Errorf("memory %s.%s: %w", table, field, ErrDuplicate)
			}
		}
	}
	return nil
}

func uniqueAmong(fields []string, recs []Record) error {
	for _, field := range fields {
		for i := range recs {
			a, ok := recs[i][field]
			if !ok {
				continue
			}
			for j := i + 1; j < len(recs); j++ {
				if b, ok := recs[j][field]; ok && scalarEqual(a, b) {
					return fmt.Errorf("field %s: %w", field, ErrDuplicate)
				}
			}
		}
	}
	return nil
}

// Matches reports whether rec satisfies every equality term of filter.
func Matches(rec Record, filter Filter) bool {
	for k, want := range filter {
		got, ok := rec[k]
		if !ok || !scalarEqual(got, want) {
			return false
		}
	}
	return true
}

// scalarEqual compares numbers by value and everything else with ==.
func scalarEqual(a, b any) bool {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		return ok && x == y
	}
	if !isScalar(a) || !isScalar(b) {
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
