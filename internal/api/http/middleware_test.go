package http

import (
	"errors"
	"fmt"
	nethttp "net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/serenity-care/wellness-api/internal/store"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

func TestToDomainErrorMapsStoreErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error passes through", apperrors.NewForbidden("nope"), "FORBIDDEN", nethttp.StatusForbidden},
		{"not found", fmt.Errorf("load: %w", store.ErrNotFound), "NOT_FOUND", nethttp.StatusNotFound},
		{"duplicate", store.ErrDuplicate, "CONFLICT", nethttp.StatusConflict},
		{"unavailable", fmt.Errorf("find: %w", store.ErrUnavailable), "STORE_UNAVAILABLE", nethttp.StatusServiceUnavailable},
		{"fiber error", fiber.ErrMethodNotAllowed, "METHOD_NOT_ALLOWED", nethttp.StatusMethodNotAllowed},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", nethttp.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := toDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}
}
