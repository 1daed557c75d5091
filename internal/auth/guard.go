package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/serenity-care/wellness-api/internal/domain"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

const (
	claimsKey    = "auth_claims"
	bearerPrefix = "Bearer "
)

// AccountStatusChecker reports whether the subject of a token is still active.
type AccountStatusChecker interface {
	IsActive(ctx context.Context, role domain.Role, subjectID string) (bool, error)
}

// Guard authenticates requests from their bearer token.
type Guard struct {
	tokens     *TokenManager
	cookieName string
	status     AccountStatusChecker
}

// GuardOption customises a Guard.
type GuardOption func(*Guard)

// WithTokenCookie accepts a token from the named cookie when no Authorization header is sent.
func WithTokenCookie(name string) GuardOption {
	return func(g *Guard) { g.cookieName = name }
}

// WithAccountStatus re-checks the account on every request.
func WithAccountStatus(checker AccountStatusChecker) GuardOption {
	return func(g *Guard) { g.status = checker }
}

// NewGuard constructs a guard.
func NewGuard(tokens *TokenManager, opts ...GuardOption) *Guard {
	g := &Guard{tokens: tokens}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ExtractBearer returns the token of an "Authorization: Bearer <token>" header value.
func ExtractBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// ExtractToken reads the request token. A malformed header is never rescued by the cookie.
func (g *Guard) ExtractToken(c *fiber.Ctx) (string, bool) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		return ExtractBearer(header)
	}
	if g.cookieName == "" {
		return "", false
	}
	token := strings.TrimSpace(c.Cookies(g.cookieName))
	return token, token != ""
}

// Authenticate verifies the request token and returns its claims.
func (g *Guard) Authenticate(c *fiber.Ctx) (*Claims, error) {
	tokenStr, ok := g.ExtractToken(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("missing token")
	}
	claims, ok := g.tokens.Verify(tokenStr)
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}
	if g.status != nil {
		active, err := g.status.IsActive(c.UserContext(), claims.Role, claims.SubjectID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, apperrors.NewUnauthorized("account is not active")
		}
	}
	return claims, nil
}

// Handle enforces authentication for protected routes.
func (g *Guard) Handle(c *fiber.Ctx) error {
	claims, err := g.Authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated caller.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok && claims != nil
}
