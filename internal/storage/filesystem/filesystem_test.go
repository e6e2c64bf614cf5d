package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaihanulHaque/rimu-world/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStore_Store_Success(t *testing.T) {
	s := setupStore(t)

	result, err := s.Store(context.Background(), &storage.StoreInput{
		ProductID:   "RW0001",
		Index:       1,
		ContentType: "image/jpeg",
		Size:        4,
		Data:        strings.NewReader("data"),
	})
	require.NoError(t, err)

	assert.Equal(t, "RW0001/1.jpg", result.Ref)

	// The file exists with the written contents.
	b, err := os.ReadFile(filepath.Join(s.root, "RW0001", "1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
}

func TestStore_Store_ExtensionFollowsContentType(t *testing.T) {
	s := setupStore(t)

	result, err := s.Store(context.Background(), &storage.StoreInput{
		ProductID:   "RW0002",
		Index:       3,
		ContentType: "image/png",
		Size:        3,
		Data:        strings.NewReader("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "RW0002/3.png", result.Ref)
}

func TestStore_Store_UnknownContentType(t *testing.T) {
	s := setupStore(t)

	result, err := s.Store(context.Background(), &storage.StoreInput{
		ProductID:   "RW0001",
		Index:       1,
		ContentType: "application/pdf",
		Size:        3,
		Data:        strings.NewReader("pdf"),
	})
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestStore_Store_NoPartialFileOnFailure(t *testing.T) {
	s := setupStore(t)

	r := io.MultiReader(strings.NewReader("partial"), failingReader{})
	result, err := s.Store(context.Background(), &storage.StoreInput{
		ProductID:   "RW0003",
		Index:       1,
		ContentType: "image/jpeg",
		Size:        100,
		Data:        r,
	})
	assert.Nil(t, result)
	assert.Error(t, err)

	// Neither the final file nor any temp remnant may survive the failure.
	entries, err := os.ReadDir(filepath.Join(s.root, "RW0003"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Store_CancelledContext(t *testing.T) {
	s := setupStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Store(ctx, &storage.StoreInput{
		ProductID:   "RW0001",
		Index:       1,
		ContentType: "image/jpeg",
		Size:        4,
		Data:        strings.NewReader("data"),
	})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_Open_Success(t *testing.T) {
	s := setupStore(t)

	_, err := s.Store(context.Background(), &storage.StoreInput{
		ProductID:   "RW0001",
		Index:       2,
		ContentType: "image/webp",
		Size:        5,
		Data:        strings.NewReader("webpy"),
	})
	require.NoError(t, err)

	rc, contentType, err := s.Open(context.Background(), "RW0001/2.webp")
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, "image/webp", contentType)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "webpy", string(b))
}

func TestStore_Open_NotFound(t *testing.T) {
	s := setupStore(t)

	rc, _, err := s.Open(context.Background(), "RW0009/1.jpg")
	assert.Nil(t, rc)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_Open_RejectsTraversal(t *testing.T) {
	s := setupStore(t)

	for _, ref := range []string{"../secret", "RW0001/../../etc/passwd", "RW0001/..", "/abs/path", ""} {
		rc, _, err := s.Open(context.Background(), ref)
		assert.Nil(t, rc, "ref %q", ref)
		// Rejected references read as missing files, not internal errors.
		assert.ErrorIs(t, err, os.ErrNotExist, "ref %q", ref)
	}
}

func TestStore_Delete_Success(t *testing.T) {
	s := setupStore(t)

	_, err := s.Store(context.Background(), &storage.StoreInput{
		ProductID:   "RW0001",
		Index:       1,
		ContentType: "image/jpeg",
		Size:        4,
		Data:        strings.NewReader("data"),
	})
	require.NoError(t, err)

	err = s.Delete(context.Background(), "RW0001/1.jpg")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(s.root, "RW0001", "1.jpg"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)

	// The now-empty product directory is removed as well.
	_, statErr = os.Stat(filepath.Join(s.root, "RW0001"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestStore_Delete_MissingFileIsNoop(t *testing.T) {
	s := setupStore(t)

	err := s.Delete(context.Background(), "RW0001/1.jpg")
	assert.NoError(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
