package audit

import (
	"context"
	"sync"
	"time"

	"card-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType names what happened to a card.
type EventType string

const (
	EventCardCreated      EventType = "card_created"
	EventCardUpdated      EventType = "card_updated"
	EventCardDeleted      EventType = "card_deleted"
	EventCodeRegenerated  EventType = "code_regenerated"
	EventCodeRedeemed     EventType = "code_redeemed"
	EventAdminLogin       EventType = "admin_login"
	EventAdminLoginFailed EventType = "admin_login_failed"
)

const (
	defaultWriteTimeout = 2 * time.Second
	defaultQueryLimit   = 100
	maxQueryLimit       = 500
)

// Event represents an audit event
type Event struct {
	ID        uuid.UUID
	Type      EventType
	CardID    *int64
	RequestID string
	Metadata  map[string]any
	CreatedAt time.Time
}

// Sink persists audit events.
type Sink interface {
	Insert(ctx context.Context, event *Event) error
	ListByCard(ctx context.Context, cardID int64, limit int) ([]*Event, error)
}

// Logger records events asynchronously so a slow sink never delays the
// request that produced them. A nil *Logger discards everything.
type Logger struct {
	sink    Sink
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

type Option func(*Logger)

func WithTimeout(d time.Duration) Option {
	return func(l *Logger) {
		l.timeout = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// NewLogger creates a new audit logger
func NewLogger(sink Sink, log *zap.Logger, opts ...Option) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Logger{
		sink:    sink,
		log:     log.Named("audit"),
		timeout: defaultWriteTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record queues an event. Sensitive metadata keys are redacted before the
// event leaves the caller. cardID may be zero for events without a card.
func (l *Logger) Record(ctx context.Context, eventType EventType, cardID int64, metadata map[string]any) {
	if l == nil || l.sink == nil {
		return
	}

	event := &Event{
		ID:        uuid.New(),
		Type:      eventType,
		RequestID: logger.RequestIDFromContext(ctx),
		Metadata:  logger.SanitizeMap(metadata),
		CreatedAt: l.now().UTC(),
	}
	if cardID > 0 {
		id := cardID
		event.CardID = &id
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		writeCtx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		if err := l.sink.Insert(writeCtx, event); err != nil {
			l.log.Warn("audit write failed",
				zap.String("event_type", string(event.Type)),
				zap.String("request_id", event.RequestID),
				logger.SafeError(err),
			)
		}
	}()
}

// Events returns the newest events for a card, newest first.
func (l *Logger) Events(ctx context.Context, cardID int64, limit int) ([]*Event, error) {
	if l == nil || l.sink == nil {
		return []*Event{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultQueryLimit
	case limit > maxQueryLimit:
		limit = maxQueryLimit
	}
	return l.sink.ListByCard(ctx, cardID, limit)
}

// Wait blocks until every queued event has been written or has failed.
func (l *Logger) Wait() {
	if l == nil {
		return
	}
	l.wg.Wait()
}
