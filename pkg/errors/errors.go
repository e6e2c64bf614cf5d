package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternal            = errors.New("internal error")
	ErrStorageTimeout      = errors.New("storage timeout")
	ErrCapacityExceeded    = errors.New("identifier capacity exceeded")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// InvalidCategory creates a 400 error for a category that does not belong to
// the given product type.
func InvalidCategory(productType, category string) *AppError {
	return &AppError{
		Code:    "INVALID_CATEGORY",
		Message: fmt.Sprintf("category %q is not valid for type %q", category, productType),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// InvalidImageCount creates a 400 error for an out-of-range image count.
func InvalidImageCount(count, min, max int) *AppError {
	return &AppError{
		Code:    "INVALID_IMAGE_COUNT",
		Message: fmt.Sprintf("got %d images, a product requires between %d and %d", count, min, max),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// UnsupportedMediaType creates a 415 error for a disallowed content type.
func UnsupportedMediaType(contentType string) *AppError {
	return &AppError{
		Code:    "UNSUPPORTED_MEDIA_TYPE",
		Message: fmt.Sprintf("content type %q is not an allowed image type", contentType),
		Status:  http.StatusUnsupportedMediaType,
		Err:     ErrInvalidInput,
	}
}

// PayloadTooLarge creates a 413 error for an oversized upload.
func PayloadTooLarge(size, max int64) *AppError {
	return &AppError{
		Code:    "PAYLOAD_TOO_LARGE",
		Message: fmt.Sprintf("file size %d exceeds maximum allowed size of %d bytes", size, max),
		Status:  http.StatusRequestEntityTooLarge,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// StorageTimeout creates a 503 error for a storage operation that exceeded its
// deadline. The condition is retryable by the caller.
func StorageTimeout(operation string) *AppError {
	return &AppError{
		Code:    "STORAGE_TIMEOUT",
		Message: fmt.Sprintf("storage operation %q timed out", operation),
		Status:  http.StatusServiceUnavailable,
		Err:     ErrStorageTimeout,
	}
}

// CapacityExceeded creates a 500 error for an exhausted identifier range.
// Callers are not expected to recover; the boundary responds with a generic
// server failure.
func CapacityExceeded(max int) *AppError {
	return &AppError{
		Code:    "CAPACITY_EXCEEDED",
		Message: fmt.Sprintf("product identifier sequence exhausted (max %d)", max),
		Status:  http.StatusInternalServerError,
		Err:     ErrCapacityExceeded,
	}
}

// DuplicateIdentifier creates a 500 error for an identifier collision on
// insert. Allocation is serialized, so this should be unreachable; it is
// checked defensively and treated as an internal invariant violation.
func DuplicateIdentifier(id string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_IDENTIFIER",
		Message: fmt.Sprintf("product identifier %s already exists", id),
		Status:  http.StatusInternalServerError,
		Err:     ErrDuplicateIdentifier,
	}
}

// CreationFailed creates a 500 error wrapping the underlying cause of a failed
// product creation.
func CreationFailed(err error) *AppError {
	return &AppError{
		Code:    "PRODUCT_CREATION_FAILED",
		Message: "product creation failed",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrStorageTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
