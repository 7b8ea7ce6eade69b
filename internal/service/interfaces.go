package service

import (
	"context"

	"card-service/internal/audit"
	"card-service/internal/auth"
)

// Consumer-side interfaces defined by services

type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	PresignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, eventType audit.EventType, cardID int64, metadata map[string]any)
}

type TokenIssuer interface {
	GetOrCreate(existing string, cardID int64) (*auth.IssuedToken, error)
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, audit.EventType, int64, map[string]any) {}
