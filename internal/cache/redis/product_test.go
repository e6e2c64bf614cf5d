package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaihanulHaque/rimu-world/internal/domain"
	apperrors "github.com/RaihanulHaque/rimu-world/pkg/errors"
)

func setupTestCache(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := NewProductCache(client, 10*time.Minute)
	return cache, mr
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:        "RW0001",
		Name:      "Silk Kameez",
		Type:      domain.TypeClothing,
		Category:  "two-piece",
		Price:     459900,
		Details:   "Hand-embroidered silk",
		Colors:    []string{"maroon"},
		Sizes:     []string{"S", "M"},
		Images:    []string{"RW0001/1.jpg"},
		CreatedAt: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestProductCache_Get_Success(t *testing.T) {
	cache, mr := setupTestCache(t)

	p := sampleProduct()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, mr.Set("product:"+p.ID, string(data)))

	got, err := cache.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Type, got.Type)
	assert.Equal(t, p.Price, got.Price)
	assert.Equal(t, p.Images, got.Images)
}

func TestProductCache_Get_Miss(t *testing.T) {
	cache, _ := setupTestCache(t)

	got, err := cache.Get(context.Background(), "RW0042")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductCache_Get_CorruptPayload(t *testing.T) {
	cache, mr := setupTestCache(t)

	require.NoError(t, mr.Set("product:RW0001", "{not json"))

	got, err := cache.Get(context.Background(), "RW0001")
	assert.Nil(t, got)
	assert.Error(t, err)
}

func TestProductCache_Set_AppliesTTL(t *testing.T) {
	cache, mr := setupTestCache(t)

	p := sampleProduct()
	require.NoError(t, cache.Set(context.Background(), p))

	assert.True(t, mr.Exists("product:"+p.ID))
	assert.Equal(t, 10*time.Minute, mr.TTL("product:"+p.ID))

	// After TTL elapses the entry is gone.
	mr.FastForward(11 * time.Minute)
	assert.False(t, mr.Exists("product:"+p.ID))
}

func TestProductCache_SetThenGet_RoundTrip(t *testing.T) {
	cache, _ := setupTestCache(t)

	p := sampleProduct()
	require.NoError(t, cache.Set(context.Background(), p))

	got, err := cache.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProductCache_Delete(t *testing.T) {
	cache, mr := setupTestCache(t)

	p := sampleProduct()
	require.NoError(t, cache.Set(context.Background(), p))
	require.NoError(t, cache.Delete(context.Background(), p.ID))

	assert.False(t, mr.Exists("product:"+p.ID))

	_, err := cache.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductCache_Delete_MissingKeyIsNoop(t *testing.T) {
	cache, _ := setupTestCache(t)

	assert.NoError(t, cache.Delete(context.Background(), "RW0042"))
}
