package domain

import "time"

// Mood score bounds for journal entries.
const (
	MinMoodScore = 1
	MaxMoodScore = 5
)

// MoodEntry is a single mood journal record written by a patient.
type MoodEntry struct {
	ID        string
	UserID    string
	Score     int
	Note      string
	Tags      []string
	CreatedAt time.Time
}
