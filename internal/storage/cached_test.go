package storage

import (
	"context"
	"testing"
	"time"

	"card-service/internal/cache"
	"card-service/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	return m.Called(ctx, key, body, contentType).Error(0)
}

func (m *mockObjectStore) PresignedURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestCachedStore_PresignsOnce(t *testing.T) {
	ctx := context.Background()
	inner := new(mockObjectStore)
	inner.On("PresignedURL", ctx, "avatar-1.png").Return("https://signed/1", nil).Once()

	store := NewCachedStore(inner, cache.NewMemoryURLCache(), time.Hour)

	for i := 0; i < 3; i++ {
		url, err := store.PresignedURL(ctx, "avatar-1.png")
		require.NoError(t, err)
		assert.Equal(t, "https://signed/1", url)
	}
	inner.AssertExpectations(t)
}

func TestCachedStore_WritesEvict(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore(time.Hour)
	urls := cache.NewMemoryURLCache()
	store := NewCachedStore(inner, urls, time.Hour)

	_, err := store.PresignedURL(ctx, "k")
	require.NoError(t, err)
	_, ok := urls.Get(ctx, "k")
	require.True(t, ok)

	require.NoError(t, store.Upload(ctx, "k", []byte("x"), "image/png"))
	_, ok = urls.Get(ctx, "k")
	assert.False(t, ok)

	_, err = store.PresignedURL(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "k"))
	_, ok = urls.Get(ctx, "k")
	assert.False(t, ok)
	_, exists := inner.Object("k")
	assert.False(t, exists)
}
