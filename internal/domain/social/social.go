package social

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeInstagram     Type = "instagram"
	TypeTelegram      Type = "telegram"
	TypeTikTok        Type = "tiktok"
	TypeYouTube       Type = "youtube"
	TypeCustom        Type = "custom"
	errInvalidTypeFmt      = "invalid social link type: %s"
)

func (t Type) Validate() error {
	switch t {
	case TypeInstagram, TypeTelegram, TypeTikTok, TypeYouTube, TypeCustom:
		return nil
	default:
		return fmt.Errorf(errInvalidTypeFmt, t)
	}
}

type Link struct {
	ID          int64
	CardID      int64
	Type        Type
	URL         string
	Label       string
	OrderID     int
	IsVisible   bool
	IconAssetID *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l *Link) HasIcon() bool {
	return l.IconAssetID != nil
}

type CreateLinkInput struct {
	CardID int64
	Type   Type
	URL    string
	Label  string
}

// Patch is the allow-listed partial update for a link. Ownership, ordering and
// the icon reference are not reachable through it.
type Patch struct {
	Type      *Type
	URL       *string
	Label     *string
	IsVisible *bool
}

func (p Patch) IsEmpty() bool {
	return p.Type == nil && p.URL == nil && p.Label == nil && p.IsVisible == nil
}

func (p Patch) Apply(l *Link) {
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.URL != nil {
		l.URL = *p.URL
	}
	if p.Label != nil {
		l.Label = *p.Label
	}
	if p.IsVisible != nil {
		l.IsVisible = *p.IsVisible
	}
}
