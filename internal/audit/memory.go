package audit

import (
	"context"
	"sort"
	"sync"
)

// MemorySink keeps events in process.
type MemorySink struct {
	mu     sync.Mutex
	events []*Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Insert(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events = append(s.events, &cp)
	return nil
}

func (s *MemorySink) ListByCard(_ context.Context, cardID int64, limit int) ([]*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*Event{}
	for _, e := range s.events {
		if e.CardID != nil && *e.CardID == cardID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns every stored event in insertion order.
func (s *MemorySink) All() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Event, len(s.events))
	copy(out, s.events)
	return out
}
