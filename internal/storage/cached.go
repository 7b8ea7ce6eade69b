package storage

import (
	"context"
	"time"

	"card-service/internal/cache"
)

// CachedStore memoizes presigned URLs. Upload and Delete evict the key so a
// replaced object is never served from a stale entry.
type CachedStore struct {
	ObjectStore
	cache cache.URLCache
	ttl   time.Duration
}

func NewCachedStore(store ObjectStore, urlCache cache.URLCache, presignExpiry time.Duration) *CachedStore {
	// Entries expire before the signature does.
	return &CachedStore{ObjectStore: store, cache: urlCache, ttl: presignExpiry * 9 / 10}
}

func (s *CachedStore) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	s.cache.Delete(ctx, key)
	return s.ObjectStore.Upload(ctx, key, body, contentType)
}

func (s *CachedStore) PresignedURL(ctx context.Context, key string) (string, error) {
	if url, ok := s.cache.Get(ctx, key); ok {
		return url, nil
	}

	url, err := s.ObjectStore.PresignedURL(ctx, key)
	if err != nil {
		return "", err
	}

	s.cache.Set(ctx, key, url, s.ttl)
	return url, nil
}

func (s *CachedStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(ctx, key)
	return s.ObjectStore.Delete(ctx, key)
}
