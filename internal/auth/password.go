package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes of its input.
const maxPasswordBytes = 72

// ErrInvalidArgument is returned when a password cannot be hashed.
var ErrInvalidArgument = errors.New("invalid argument")

// HashPassword hashes a plaintext password with configured cost. The salt is
// random per call and embedded in the result.
func HashPassword(password string, cost int) (string, error) {
	if password == "" || len(password) > maxPasswordBytes {
		return "", ErrInvalidArgument
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches the hashed value. Malformed
// hashes and empty input never match.
func VerifyPassword(hashed, plain string) bool {
	if hashed == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
