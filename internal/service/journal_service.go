package service

import (
	"context"
	"strings"

	"github.com/serenity-care/wellness-api/internal/auth"
	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/repository"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

const maxNoteLength = 2000

// JournalService backs the mood journal.
type JournalService struct {
	entries repository.MoodRepository
}

// NewJournalService builds the service.
func NewJournalService(entries repository.MoodRepository) *JournalService {
	return &JournalService{entries: entries}
}

// Add records a mood entry for the caller.
func (s *JournalService) Add(ctx context.Context, claims *auth.Claims, score int, note string, tags []string) (*domain.MoodEntry, error) {
	if score < domain.MinMoodScore || score > domain.MaxMoodScore {
		return nil, apperrors.NewValidationError("score must be between 1 and 5", map[string]any{"score": score})
	}
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLength {
		return nil, apperrors.NewValidationError("note is too long", nil)
	}

	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			clean = append(clean, t)
		}
	}

	entry := &domain.MoodEntry{UserID: claims.SubjectID, Score: score, Note: note, Tags: clean}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the caller's journal in the order it was written.
func (s *JournalService) List(ctx context.Context, claims *auth.Claims) ([]domain.MoodEntry, error) {
	return s.entries.ListByUser(ctx, claims.SubjectID)
}
