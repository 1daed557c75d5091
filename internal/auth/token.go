package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/serenity-care/wellness-api/internal/domain"
)

// TokenLifetime is the fixed validity window of every issued token.
const TokenLifetime = 7 * 24 * time.Hour

// ErrEmptySecret is returned when no signing secret is supplied.
var ErrEmptySecret = errors.New("token secret must not be empty")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenManager{secret: []byte(secret), now: time.Now}, nil
}

// WithClock replaces the time source. Intended for tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	return &TokenManager{secret: tm.secret, now: now}
}

// Claims describes JWT payload.
type Claims struct {
	SubjectID string      `json:"sub"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Token converts the claims into the domain view.
func (c *Claims) Token() domain.Token {
	t := domain.Token{SubjectID: c.SubjectID, Email: c.Email, Role: c.Role}
	if c.IssuedAt != nil {
		t.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		t.ExpiresAt = c.ExpiresAt.Time
	}
	return t
}

// Issue builds and signs a JWT for the subject.
func (tm *TokenManager) Issue(subjectID, email string, role domain.Role) (string, time.Time, error) {
	if subjectID == "" || !role.Valid() {
		return "", time.Time{}, errors.New("subject id and a known role are required")
	}
	now := tm.now().Truncate(jwt.TimePrecision)
	expiresAt := now.Add(TokenLifetime)
	claims := &Claims{
		SubjectID: subjectID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the token and returns its claims. Any failure, including an
// expired token, yields false.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, bool) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.SubjectID == "" || !claims.Role.Valid() {
		return nil, errors.New("invalid token subject")
	}
	return claims, nil
}
