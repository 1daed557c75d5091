package domain

import (
	"fmt"
	"time"
)

// Role is the coarse-grained permission class carried by an identity token.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Roles lists every known role.
var Roles = []Role{RoleUser, RoleAdmin, RoleEmployee}

// ParseRole converts a raw string into a known Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleAdmin, RoleEmployee:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Collection returns the account collection holding credentials for the role.
func (r Role) Collection() string {
	switch r {
	case RoleUser:
		return CollectionUsers
	case RoleAdmin:
		return CollectionAdminUsers
	case RoleEmployee:
		return CollectionEmployees
	default:
		return ""
	}
}

// Token describes the identity facts carried by an issued token.
type Token struct {
	SubjectID string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
