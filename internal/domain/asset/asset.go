package asset

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindAvatar        Kind = "avatar"
	KindCustomIcon    Kind = "custom_icon"
	errInvalidKindFmt      = "invalid asset kind: %s"
)

func (k Kind) Validate() error {
	switch k {
	case KindAvatar, KindCustomIcon:
		return nil
	default:
		return fmt.Errorf(errInvalidKindFmt, k)
	}
}

// Asset is the metadata row for one stored object. SocialLinkID is set only
// for custom icons.
type Asset struct {
	ID           int64
	CardID       int64
	SocialLinkID *int64
	Kind         Kind
	StorageKey   string
	ContentType  string
	Size         int64
	CreatedAt    time.Time
}

type CreateAssetInput struct {
	CardID       int64
	SocialLinkID *int64
	Kind         Kind
	StorageKey   string
	ContentType  string
	Size         int64
}
