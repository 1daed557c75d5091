package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/store"
)

// MoodRepository persists mood journal entries.
type MoodRepository interface {
	Create(ctx context.Context, entry *domain.MoodEntry) error
	ListByUser(ctx context.Context, userID string) ([]domain.MoodEntry, error)
}

type moodRepository struct {
	store store.RecordStore
}

// NewMoodRepository returns a record store backed implementation.
func NewMoodRepository(s store.RecordStore) MoodRepository {
	return &moodRepository{store: s}
}

func (r *moodRepository) Create(ctx context.Context, e *domain.MoodEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	tags := make([]any, 0, len(e.Tags))
	for _, t := range e.Tags {
		tags = append(tags, t)
	}
	return r.store.Insert(ctx, domain.CollectionMoodEntries, store.Record{
		"id":        e.ID,
		"userId":    e.UserID,
		"score":     e.Score,
		"note":      e.Note,
		"tags":      tags,
		"createdAt": formatTime(e.CreatedAt),
	})
}

func (r *moodRepository) ListByUser(ctx context.Context, userID string) ([]domain.MoodEntry, error) {
	recs, err := r.store.Find(ctx, domain.CollectionMoodEntries, store.Filter{"userId": userID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.MoodEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.MoodEntry{
			ID:        str(rec, "id"),
			UserID:    str(rec, "userId"),
			Score:     int(integer(rec, "score")),
			Note:      str(rec, "note"),
			Tags:      stringList(rec, "tags"),
			CreatedAt: timestamp(rec, "createdAt"),
		})
	}
	return out, nil
}
