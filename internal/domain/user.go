package domain

import "time"

// Collection names used by the record store.
const (
	CollectionUsers       = "users"
	CollectionAdminUsers  = "admin_users"
	CollectionEmployees   = "employees"
	CollectionServices    = "services"
	CollectionBookings    = "bookings"
	CollectionMoodEntries = "mood_entries"
)

// Collections lists every collection created at bootstrap.
var Collections = []string{
	CollectionUsers,
	CollectionAdminUsers,
	CollectionEmployees,
	CollectionServices,
	CollectionBookings,
	CollectionMoodEntries,
}

// Account is a credential record. The role is implied by the collection it lives in.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
