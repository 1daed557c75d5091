package repository

import (
	"reflect"
	"time"

	"github.com/serenity-care/wellness-api/internal/store"
)

// Timestamps are stored as RFC 3339 strings so every backend round-trips them alike.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func str(rec store.Record, key string) string {
	v, _ := rec[key].(string)
	return v
}

func boolean(rec store.Record, key string) bool {
	v, _ := rec[key].(bool)
	return v
}

// integer accepts the numeric types the different drivers decode into.
func integer(rec store.Record, key string) int64 {
	switch v := rec[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func timestamp(rec store.Record, key string) time.Time {
	switch v := rec[key].(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t
	case time.Time:
		return v
	default:
		return time.Time{}
	}
}

func stringList(rec store.Record, key string) []string {
	v := reflect.ValueOf(rec[key])
	if v.Kind() != reflect.Slice {
		return nil
	}
	out := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if s, ok := v.Index(i).Interface().(string); ok {
			out = append(out, s)
		}
	}
	return out
}
