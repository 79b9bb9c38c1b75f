package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("blog: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("only the author: %w", ErrForbidden), http.StatusForbidden},
		{"conflict", fmt.Errorf("already following: %w", ErrConflict), http.StatusConflict},
		{"invalid input", fmt.Errorf("content is required: %w", ErrInvalidInput), http.StatusBadRequest},
		{"invalid operation", fmt.Errorf("cannot follow yourself: %w", ErrInvalidOperation), http.StatusBadRequest},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"app error code wins", New(http.StatusTeapot, "short and stout", ErrNotFound), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatus(tt.err))
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := New(http.StatusBadRequest, "invalid type", ErrInvalidInput)
	assert.Equal(t, "invalid type", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidInput))

	bare := New(http.StatusNotFound, "", nil)
	assert.Equal(t, "Not Found", bare.Error())
}
