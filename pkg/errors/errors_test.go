package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := &AppError{Code: "NOT_FOUND", Message: "product with id RW0001 not found", Status: http.StatusNotFound}
	assert.Equal(t, "NOT_FOUND: product with id RW0001 not found", err.Error())

	wrapped := &AppError{Code: "INTERNAL_ERROR", Message: "boom", Status: 500, Err: errors.New("disk full")}
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := CreationFailed(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestConstructors_StatusAndSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		status   int
		sentinel error
	}{
		{"not found", NotFound("product", "RW0001"), http.StatusNotFound, ErrNotFound},
		{"invalid input", InvalidInput("name is required"), http.StatusBadRequest, ErrInvalidInput},
		{"invalid category", InvalidCategory("Jewelry", "one-piece"), http.StatusBadRequest, ErrInvalidInput},
		{"invalid image count", InvalidImageCount(6, 1, 5), http.StatusBadRequest, ErrInvalidInput},
		{"unsupported media type", UnsupportedMediaType("text/plain"), http.StatusUnsupportedMediaType, ErrInvalidInput},
		{"payload too large", PayloadTooLarge(20<<20, 10<<20), http.StatusRequestEntityTooLarge, ErrInvalidInput},
		{"unauthorized", Unauthorized("invalid credentials"), http.StatusUnauthorized, ErrUnauthorized},
		{"storage timeout", StorageTimeout("store image"), http.StatusServiceUnavailable, ErrStorageTimeout},
		{"capacity exceeded", CapacityExceeded(9999), http.StatusInternalServerError, ErrCapacityExceeded},
		{"duplicate identifier", DuplicateIdentifier("RW0001"), http.StatusInternalServerError, ErrDuplicateIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrInvalidInput))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrStorageTimeout))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("anything else")))
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("get product: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "insert product")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "insert product")
}
