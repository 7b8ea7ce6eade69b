package storage

import (
	"context"
	"fmt"
)

const (
	avatarKeyFmt = "avatar-%d.png"
	iconKeyFmt   = "app_icon-%d-%d.png"
)

// ObjectStore is the blob store behind card assets.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	PresignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// AvatarKey is the storage key of a card's avatar.
func AvatarKey(cardID int64) string {
	return fmt.Sprintf(avatarKeyFmt, cardID)
}

// IconKey is the storage key of a social link's custom icon.
func IconKey(cardID, socialLinkID int64) string {
	return fmt.Sprintf(iconKeyFmt, cardID, socialLinkID)
}
