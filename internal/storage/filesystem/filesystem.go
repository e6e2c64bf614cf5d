package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/RaihanulHaque/rimu-world/internal/storage"
)

// Store implements storage.ImageStore on the local filesystem. Images live at
// <root>/<productID>/<index><ext> and are written atomically: bytes go to a
// temp file in the target directory, which is fsynced and renamed into place.
type Store struct {
	root string
}

// New creates a filesystem image store rooted at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &Store{root: dir}, nil
}

// Store writes one image atomically and returns its reference.
func (s *Store) Store(ctx context.Context, input *storage.StoreInput) (*storage.StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext, ok := storage.ExtensionFor(input.ContentType)
	if !ok {
		return nil, fmt.Errorf("no extension for content type %q", input.ContentType)
	}

	dir := filepath.Join(s.root, input.ProductID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create product directory: %w", err)
	}

	name := fmt.Sprintf("%d%s", input.Index, ext)
	target := filepath.Join(dir, name)

	if err := writeAtomic(target, input.Data); err != nil {
		return nil, err
	}

	return &storage.StoreResult{Ref: path.Join(input.ProductID, name)}, nil
}

// Open returns a reader over the stored image and its content type.
func (s *Store) Open(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	p, err := s.resolve(ref)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, "", err
	}

	return f, storage.ContentTypeFor(filepath.Ext(p)), nil
}

// Delete removes a stored image. A missing file is treated as already deleted.
func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}

	// Best effort: drop the product directory once it is empty.
	_ = os.Remove(filepath.Dir(p))

	return nil
}

// resolve maps a reference onto a path under the store root, rejecting
// anything that would escape it. A rejected reference reads as a missing
// file so callers answer 404, not 500.
func (s *Store) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)[1:]
	if clean == "" || clean != ref {
		return "", fmt.Errorf("invalid image reference %q: %w", ref, fs.ErrNotExist)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// writeAtomic streams r into target via a sibling temp file so a crash or
// failed write never leaves a partial image at the final path.
func writeAtomic(target string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write image data: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync image data: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize image file: %w", err)
	}

	return nil
}
