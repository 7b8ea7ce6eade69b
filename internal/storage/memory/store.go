// Package memory is an in-process object store for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

const presignedURLFmt = "memory://objects/%s?expires=%d"

type Object struct {
	Body        []byte
	ContentType string
}

type Store struct {
	mu      sync.RWMutex
	objects map[string]Object
	expiry  time.Duration
	now     func() time.Time
}

func NewStore(expiry time.Duration) *Store {
	return &Store{
		objects: make(map[string]Object),
		expiry:  expiry,
		now:     time.Now,
	}
}

func (s *Store) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := make([]byte, len(body))
	copy(cp, body)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Body: cp, ContentType: contentType}
	return nil
}

func (s *Store) PresignedURL(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf(presignedURLFmt, url.PathEscape(key), s.now().Add(s.expiry).Unix()), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Object returns the stored object for key.
func (s *Store) Object(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
