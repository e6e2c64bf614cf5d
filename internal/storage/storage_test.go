package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/RaihanulHaque/rimu-world/pkg/errors"
)

const maxSize = 10 * 1024 * 1024

func TestValidateImage_Allowed(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/webp", "image/gif"} {
		assert.NoError(t, ValidateImage(ct, 1024, maxSize), ct)
	}
}

func TestValidateImage_UnsupportedType(t *testing.T) {
	err := ValidateImage("application/pdf", 1024, maxSize)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", appErr.Code)
}

func TestValidateImage_TooLarge(t *testing.T) {
	err := ValidateImage("image/jpeg", maxSize+1, maxSize)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", appErr.Code)
}

func TestValidateImage_ExactlyMaxSize(t *testing.T) {
	assert.NoError(t, ValidateImage("image/jpeg", maxSize, maxSize))
}

func TestExtensionFor(t *testing.T) {
	ext, ok := ExtensionFor("image/jpeg")
	assert.True(t, ok)
	assert.Equal(t, ".jpg", ext)

	_, ok = ExtensionFor("text/html")
	assert.False(t, ok)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeFor(".png"))
	assert.Equal(t, "image/jpeg", ContentTypeFor(".jpg"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor(".exe"))
}
