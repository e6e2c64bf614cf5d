package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sync"

	"github.com/RaihanulHaque/rimu-world/internal/storage"
)

type fileEntry struct {
	ContentType string
	Data        []byte
}

// Store implements storage.ImageStore using an in-memory map. It exists for
// tests; the filesystem store is the production implementation.
type Store struct {
	mu    sync.RWMutex
	files map[string]*fileEntry

	// FailAt, when > 0, makes the FailAt-th Store call fail. Used to
	// exercise rollback paths.
	FailAt int
	stores int
}

// New creates a new in-memory image store.
func New() *Store {
	return &Store{files: make(map[string]*fileEntry)}
}

// Store keeps the image bytes in memory and returns the reference.
func (s *Store) Store(_ context.Context, input *storage.StoreInput) (*storage.StoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stores++
	if s.FailAt > 0 && s.stores == s.FailAt {
		return nil, fmt.Errorf("simulated storage failure on store %d", s.stores)
	}

	ext, ok := storage.ExtensionFor(input.ContentType)
	if !ok {
		return nil, fmt.Errorf("no extension for content type %q", input.ContentType)
	}

	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, err
	}

	ref := path.Join(input.ProductID, fmt.Sprintf("%d%s", input.Index, ext))
	s.files[ref] = &fileEntry{ContentType: input.ContentType, Data: data}

	return &storage.StoreResult{Ref: ref}, nil
}

// Open returns a reader over the stored bytes.
func (s *Store) Open(_ context.Context, ref string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.files[ref]
	if !ok {
		return nil, "", fmt.Errorf("image %s: %w", ref, fs.ErrNotExist)
	}

	return io.NopCloser(bytes.NewReader(entry.Data)), entry.ContentType, nil
}

// Delete removes the image. Unknown references are ignored.
func (s *Store) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, ref)
	return nil
}

// Refs returns the references currently held, for test assertions.
func (s *Store) Refs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]string, 0, len(s.files))
	for ref := range s.files {
		refs = append(refs, ref)
	}
	return refs
}
