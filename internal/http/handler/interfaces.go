package handler

import (
	"context"

	"card-service/internal/audit"
	"card-service/internal/auth"
	"card-service/internal/domain/asset"
	"card-service/internal/domain/card"
	"card-service/internal/domain/code"
	"card-service/internal/domain/social"
	"card-service/internal/service"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

type CardOperations interface {
	Create(ctx context.Context, input card.CreateCardInput) (*service.CreatedCard, error)
	Get(ctx context.Context, cardID int64, includeHidden bool) (*service.CardView, error)
	Patch(ctx context.Context, cardID int64, patch card.Patch) (*service.CardView, error)
	Delete(ctx context.Context, cardID int64) error
}

type CodeOperations interface {
	Redeem(ctx context.Context, plaintext, existingToken string) (*service.Redemption, error)
	Regenerate(ctx context.Context, cardID int64) (*code.Issued, error)
}

type SocialOperations interface {
	Create(ctx context.Context, input social.CreateLinkInput) (*social.Link, error)
	Patch(ctx context.Context, cardID, linkID int64, patch social.Patch) (*social.Link, error)
	Delete(ctx context.Context, cardID, linkID int64) error
}

type AssetOperations interface {
	MaxSize() int64
	UploadAvatar(ctx context.Context, cardID int64, u service.Upload) (*asset.Asset, error)
	UploadIcon(ctx context.Context, cardID, linkID int64, u service.Upload) (*asset.Asset, error)
}

type AdminLogin interface {
	Login(key string) (*auth.IssuedToken, error)
}

type AuditLog interface {
	Record(ctx context.Context, eventType audit.EventType, cardID int64, metadata map[string]any)
	Events(ctx context.Context, cardID int64, limit int) ([]*audit.Event, error)
}
