package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-care/wellness-api/internal/domain"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

type fakeStatus struct {
	active map[string]bool
	err    error
}

func (f *fakeStatus) IsActive(_ context.Context, _ domain.Role, subjectID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[subjectID], nil
}

func newGuardApp(g *Guard, role domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message})
		},
	})
	app.Get("/protected", g.Handle, Require(role), func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		return c.SendString(claims.SubjectID)
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, header string, cookie *http.Cookie) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestExtractBearer(t *testing.T) {
	cases := map[string]struct {
		token string
		ok    bool
	}{
		"Bearer abc.def.ghi": {"abc.def.ghi", true},
		"Bearer   spaced ":   {"spaced", true},
		"Bearer ":            {"", false},
		"bearer abc":         {"", false},
		"Basic abc":          {"", false},
		"abc":                {"", false},
		"":                   {"", false},
	}
	for header, want := range cases {
		token, ok := ExtractBearer(header)
		assert.Equal(t, want.ok, ok, header)
		assert.Equal(t, want.token, token, header)
	}
}

func TestRequireRoleIsStrictEquality(t *testing.T) {
	for _, have := range domain.Roles {
		for _, want := range domain.Roles {
			err := RequireRole(&Claims{Role: have}, want)
			if have == want {
				assert.NoError(t, err)
				continue
			}
			de := apperrors.ToDomainError(err)
			assert.Equal(t, http.StatusForbidden, de.HTTPStatus, "%s vs %s", have, want)
		}
	}
	assert.Error(t, RequireRole(&Claims{Role: "root"}, domain.Role("root")))
	assert.Error(t, RequireRole(nil, domain.RoleUser))
}

func TestGuardStatusMapping(t *testing.T) {
	tm := newTestTokens(t, "secret", time.Now())
	app := newGuardApp(NewGuard(tm), domain.RoleAdmin)

	userToken, _, err := tm.Issue("u1", "a@b.com", domain.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := tm.Issue("a1", "admin@b.com", domain.RoleAdmin)
	require.NoError(t, err)

	status, _ := doGet(t, app, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doGet(t, app, "Bearer garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doGet(t, app, "Token "+adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doGet(t, app, "Bearer "+userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := doGet(t, app, "Bearer "+adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a1", body)
}

func TestGuardExpiredToken(t *testing.T) {
	issued := time.Now().Add(-8 * 24 * time.Hour)
	token, _, err := newTestTokens(t, "secret", issued).Issue("u1", "a@b.com", domain.RoleUser)
	require.NoError(t, err)

	app := newGuardApp(NewGuard(newTestTokens(t, "secret", time.Now())), domain.RoleUser)
	status, _ := doGet(t, app, "Bearer "+token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGuardCookieFallback(t *testing.T) {
	tm := newTestTokens(t, "secret", time.Now())
	token, _, err := tm.Issue("u1", "a@b.com", domain.RoleUser)
	require.NoError(t, err)
	cookie := &http.Cookie{Name: "token", Value: token}

	withoutCookie := newGuardApp(NewGuard(tm), domain.RoleUser)
	status, _ := doGet(t, withoutCookie, "", cookie)
	assert.Equal(t, http.StatusUnauthorized, status)

	withCookie := newGuardApp(NewGuard(tm, WithTokenCookie("token")), domain.RoleUser)
	status, _ = doGet(t, withCookie, "", cookie)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doGet(t, withCookie, "Bearer garbage", cookie)
	assert.Equal(t, http.StatusUnauthorized, status, "malformed header is not rescued by cookie")
}

func TestGuardAccountStatus(t *testing.T) {
	tm := newTestTokens(t, "secret", time.Now())
	status := &fakeStatus{active: map[string]bool{"u1": true}}
	app := newGuardApp(NewGuard(tm, WithAccountStatus(status)), domain.RoleUser)

	active, _, err := tm.Issue("u1", "a@b.com", domain.RoleUser)
	require.NoError(t, err)
	inactive, _, err := tm.Issue("u2", "c@d.com", domain.RoleUser)
	require.NoError(t, err)

	code, _ := doGet(t, app, "Bearer "+active, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = doGet(t, app, "Bearer "+inactive, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	status.err = apperrors.NewStoreUnavailable(errors.New("down"))
	code, _ = doGet(t, app, "Bearer "+active, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
