package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", NewValidationError("missing %s", "fullName"), http.StatusBadRequest, "missing fullName"},
		{"not found", NewNotFoundError("product with id %d not found", 7), http.StatusNotFound, "product with id 7 not found"},
		{"conflict", NewConflictError("slug already exists"), http.StatusConflict, "slug already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			he, ok := AsHTTPError(tc.err)
			require.True(t, ok)
			assert.Equal(t, tc.status, he.Status)
			assert.Equal(t, tc.msg, he.Message)
		})
	}
}

func TestNewPersistenceError_HidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistenceError(cause)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "internal server error", he.Message)
	assert.ErrorIs(t, err, cause)
}

func TestAsHTTPError_Wrapped(t *testing.T) {
	err := fmt.Errorf("checkout: %w", NewValidationError("missing items"))

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "missing items", he.Message)

	_, ok = AsHTTPError(errors.New("plain"))
	assert.False(t, ok)
}
