package util

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupPayload struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(signupPayload{Email: "a@b.com", Password: "longenough"}))

	err := Validate(signupPayload{Email: "nope", Password: "short"})
	de := ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "email", de.Details["email"])
	assert.Equal(t, "min", de.Details["password"])
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.com"))
	assert.False(t, ValidEmail("a@"))
	assert.False(t, ValidEmail(""))
}
