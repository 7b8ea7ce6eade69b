// Package memory implements repository.Store in process. It enforces the
// same integrity rules as the PostgreSQL schema: foreign keys with cascade,
// one active code per card, one avatar per card and one icon per link.
package memory

import (
	"context"
	"sync"
	"time"

	"card-service/internal/domain/asset"
	"card-service/internal/domain/card"
	"card-service/internal/domain/code"
	"card-service/internal/domain/social"
	"card-service/internal/repository"
)

type state struct {
	cards   map[int64]*card.Card
	codes   map[int64]*code.Code
	socials map[int64]*social.Link
	assets  map[int64]*asset.Asset
	nextID  map[string]int64
}

func newState() *state {
	return &state{
		cards:   make(map[int64]*card.Card),
		codes:   make(map[int64]*code.Code),
		socials: make(map[int64]*social.Link),
		assets:  make(map[int64]*asset.Asset),
		nextID:  make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.cards {
		cp := *v
		c.cards[k] = &cp
	}
	for k, v := range s.codes {
		cp := *v
		c.codes[k] = &cp
	}
	for k, v := range s.socials {
		cp := *v
		c.socials[k] = &cp
	}
	for k, v := range s.assets {
		cp := *v
		c.assets[k] = &cp
	}
	for k, v := range s.nextID {
		c.nextID[k] = v
	}
	return c
}

func (s *state) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// Store serializes every operation on one mutex. A transaction holds the
// mutex for its whole duration and works on a copy that replaces the live
// state only on success.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{state: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Repositories() repository.Repositories {
	return s.repositories(func(fn func(*state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.state)
	})
}

func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	repos := s.repositories(func(op func(*state) error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return op(work)
	})

	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = work
	return nil
}

type runner func(func(*state) error) error

func (s *Store) repositories(run runner) repository.Repositories {
	return repository.Repositories{
		Cards:   &cardRepository{run: run, now: s.now},
		Codes:   &codeRepository{run: run, now: s.now},
		Socials: &socialRepository{run: run, now: s.now},
		Assets:  &assetRepository{run: run, now: s.now},
	}
}
