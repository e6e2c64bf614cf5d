package storage

import (
	"context"
	"io"

	apperrors "github.com/RaihanulHaque/rimu-world/pkg/errors"
)

// Allowed content types for product image uploads, with their canonical file
// extensions.
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStore defines the interface for product image storage.
type ImageStore interface {
	// Store writes one image and returns its reference. A failed store must
	// leave no partial file behind.
	Store(ctx context.Context, input *StoreInput) (*StoreResult, error)

	// Open returns a reader over the stored image and its content type.
	Open(ctx context.Context, ref string) (io.ReadCloser, string, error)

	// Delete removes a stored image. Deleting a reference that does not
	// exist is not an error.
	Delete(ctx context.Context, ref string) error
}

// StoreInput holds the parameters for storing a product image.
type StoreInput struct {
	ProductID   string
	Index       int // 1-based position within the product's image set
	ContentType string
	Size        int64
	Data        io.Reader
}

// StoreResult holds the result of a successful store. Ref is the stable
// reference persisted with the product; URLs are rendered from it at the
// API boundary.
type StoreResult struct {
	Ref string
}

// ValidateImage checks the declared content type and size of an upload before
// any bytes are written. Callers run this for the whole batch up front so a
// rejected image costs nothing.
func ValidateImage(contentType string, size, maxSize int64) error {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return apperrors.UnsupportedMediaType(contentType)
	}
	if size > maxSize {
		return apperrors.PayloadTooLarge(size, maxSize)
	}
	return nil
}

// ExtensionFor returns the file extension for an allowed content type.
func ExtensionFor(contentType string) (string, bool) {
	ext, ok := allowedContentTypes[contentType]
	return ext, ok
}

// ContentTypeFor maps a stored file extension back to its content type.
func ContentTypeFor(ext string) string {
	for ct, e := range allowedContentTypes {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}
