package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSink writes to the audit_events table.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) Insert(ctx context.Context, event *Event) error {
	metadataJSON := []byte("{}")
	if len(event.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_events (id, event_type, card_id, request_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.pool.Exec(ctx, query,
		event.ID,
		string(event.Type),
		event.CardID,
		event.RequestID,
		metadataJSON,
		event.CreatedAt,
	)
	return err
}

func (s *PostgresSink) ListByCard(ctx context.Context, cardID int64, limit int) ([]*Event, error) {
	query := `
		SELECT id, event_type, card_id, COALESCE(request_id, ''), metadata, created_at
		FROM audit_events
		WHERE card_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, cardID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event := &Event{}
		var eventType string
		var metadataJSON []byte

		if err := rows.Scan(
			&event.ID,
			&eventType,
			&event.CardID,
			&event.RequestID,
			&metadataJSON,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		event.Type = EventType(eventType)

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, err
			}
		}

		events = append(events, event)
	}

	return events, rows.Err()
}
