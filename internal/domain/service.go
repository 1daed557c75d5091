package domain

import "time"

// TherapyService is an offering patients can book, e.g. individual therapy.
type TherapyService struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int64
	IsActive        bool
	CreatedAt       time.Time
}
