package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-care/wellness-api/internal/domain"
)

func newTestTokens(t *testing.T, secret string, now time.Time) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(secret)
	require.NoError(t, err)
	return tm.WithClock(func() time.Time { return now })
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tm := newTestTokens(t, "secret", now)

	for _, role := range domain.Roles {
		token, exp, err := tm.Issue("u1", "a@b.com", role)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)
		assert.Equal(t, now.Add(TokenLifetime), exp)

		claims, ok := tm.Verify(token)
		require.True(t, ok, role)
		assert.Equal(t, "u1", claims.SubjectID)
		assert.Equal(t, "a@b.com", claims.Email)
		assert.Equal(t, role, claims.Role)

		view := claims.Token()
		assert.True(t, view.IssuedAt.Equal(now))
		assert.True(t, view.ExpiresAt.Equal(exp))
	}
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	tm := newTestTokens(t, "secret", time.Now())
	_, _, err := tm.Issue("u1", "a@b.com", domain.Role("superuser"))
	assert.Error(t, err)
	_, _, err = tm.Issue("", "a@b.com", domain.RoleUser)
	assert.Error(t, err)
}

func TestVerifyExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	token, _, err := newTestTokens(t, "secret", issuedAt).Issue("u1", "a@b.com", domain.RoleUser)
	require.NoError(t, err)

	_, ok := newTestTokens(t, "secret", issuedAt.Add(TokenLifetime-time.Second)).Verify(token)
	assert.True(t, ok, "valid just before expiry")

	_, ok = newTestTokens(t, "secret", issuedAt.Add(TokenLifetime)).Verify(token)
	assert.False(t, ok, "invalid at expiry")

	_, ok = newTestTokens(t, "secret", issuedAt.Add(8*24*time.Hour)).Verify(token)
	assert.False(t, ok, "invalid after expiry")
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	now := time.Now()
	token, _, err := newTestTokens(t, "secret-a", now).Issue("u1", "a@b.com", domain.RoleAdmin)
	require.NoError(t, err)

	_, ok := newTestTokens(t, "secret-b", now).Verify(token)
	assert.False(t, ok)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	now := time.Now()
	tm := newTestTokens(t, "secret", now)
	token, _, err := tm.Issue("u1", "a@b.com", domain.RoleUser)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"role":"user"`, `"role":"admin"`, 1)
	require.NotEqual(t, string(payload), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, ok := tm.Verify(strings.Join(parts, "."))
	assert.False(t, ok)
}

func TestVerifyRejectsGarbageAndOtherAlgorithms(t *testing.T) {
	now := time.Now()
	tm := newTestTokens(t, "secret", now)

	for _, tok := range []string{"", "garbage", "a.b.c", "...."} {
		_, ok := tm.Verify(tok)
		assert.False(t, ok, tok)
	}

	claims := &Claims{
		SubjectID: "u1",
		Role:      domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok := tm.Verify(unsigned)
	assert.False(t, ok)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, ok = tm.Verify(hs512)
	assert.False(t, ok)
}

func TestVerifyRejectsUnknownRoleAndMissingExpiry(t *testing.T) {
	now := time.Now()
	tm := newTestTokens(t, "secret", now)

	unknownRole := &Claims{
		SubjectID: "u1",
		Role:      domain.Role("root"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, unknownRole).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, ok := tm.Verify(tok)
	assert.False(t, ok)

	noExpiry := &Claims{SubjectID: "u1", Role: domain.RoleUser}
	tok, err = jwt.NewWithClaims(jwt.SigningMethodHS256, noExpiry).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, ok = tm.Verify(tok)
	assert.False(t, ok)
}
