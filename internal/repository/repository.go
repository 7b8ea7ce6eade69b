package repository

import (
	"context"

	"card-service/internal/domain/asset"
	"card-service/internal/domain/card"
	"card-service/internal/domain/code"
	"card-service/internal/domain/social"
	apperrors "card-service/pkg/errors"
)

// ErrCodeHashTaken is returned by CodeRepository.Create when the digest
// already belongs to a code, active or not. Codes are never deleted, so the
// caller should generate a new code and try again.
var ErrCodeHashTaken = apperrors.Conflict("code already issued")

// CardRepository defines card data access operations
type CardRepository interface {
	Create(ctx context.Context, input card.CreateCardInput) (*card.Card, error)
	GetByID(ctx context.Context, id int64) (*card.Card, error)
	// Lock takes a row lock on the card for the rest of the transaction.
	// It returns NotFound when the card does not exist.
	Lock(ctx context.Context, id int64) error
	Update(ctx context.Context, id int64, patch card.Patch) (*card.Card, error)
	Delete(ctx context.Context, id int64) error
}

// CodeRepository defines access code data access operations
type CodeRepository interface {
	Create(ctx context.Context, cardID int64, codeHash string) (*code.Code, error)
	GetActiveByHash(ctx context.Context, codeHash string) (*code.Code, error)
	DeactivateByCard(ctx context.Context, cardID int64) (int64, error)
	ListByCard(ctx context.Context, cardID int64) ([]*code.Code, error)
}

// SocialRepository defines social link data access operations
type SocialRepository interface {
	// Create appends the link after the card's current last order_id.
	Create(ctx context.Context, input social.CreateLinkInput) (*social.Link, error)
	GetByID(ctx context.Context, cardID, linkID int64) (*social.Link, error)
	// GetForUpdate is GetByID plus a row lock.
	GetForUpdate(ctx context.Context, cardID, linkID int64) (*social.Link, error)
	ListByCard(ctx context.Context, cardID int64) ([]*social.Link, error)
	Update(ctx context.Context, cardID, linkID int64, patch social.Patch) (*social.Link, error)
	SetIcon(ctx context.Context, cardID, linkID int64, assetID *int64) error
	Delete(ctx context.Context, cardID, linkID int64) error
}

// AssetRepository defines asset metadata data access operations
type AssetRepository interface {
	Create(ctx context.Context, input asset.CreateAssetInput) (*asset.Asset, error)
	GetByID(ctx context.Context, id int64) (*asset.Asset, error)
	GetAvatar(ctx context.Context, cardID int64) (*asset.Asset, error)
	ListByCard(ctx context.Context, cardID int64) ([]*asset.Asset, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Cards   CardRepository
	Codes   CodeRepository
	Socials SocialRepository
	Assets  AssetRepository
}

// Store hands out repositories. WithinTx runs fn against repositories bound
// to a single transaction, committing when fn returns nil and rolling back
// otherwise, including on context cancellation.
type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
