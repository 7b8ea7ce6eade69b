package handler

import (
	"time"

	"card-service/internal/audit"
	"card-service/internal/domain/asset"
	"card-service/internal/domain/card"
	"card-service/internal/domain/social"
	"card-service/internal/service"
)

type CardResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Phone       string           `json:"phone"`
	Email       string           `json:"email"`
	Website     string           `json:"website"`
	City        string           `json:"city"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Socials     []SocialResponse `json:"socials"`
	AvatarLink  *string          `json:"avatar_link"`
}

// CreateCardResponse carries the plaintext code. It is the only response
// that ever contains it.
type CreateCardResponse struct {
	CardResponse
	Code string `json:"code"`
}

type SocialResponse struct {
	ID          int64     `json:"id"`
	CardID      int64     `json:"card_id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Label       string    `json:"label"`
	OrderID     int       `json:"order_id"`
	IsVisible   bool      `json:"is_visible"`
	IconAssetID *int64    `json:"icon_asset_id"`
	AppIconLink *string   `json:"app_icon_link"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssetResponse struct {
	ID           int64     `json:"id"`
	CardID       int64     `json:"card_id"`
	SocialLinkID *int64    `json:"social_link_id"`
	Kind         string    `json:"kind"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	CardID      int64  `json:"card_id"`
	Reused      bool   `json:"reused"`
}

type VerifyTokenResponse struct {
	Valid     bool   `json:"valid"`
	CardID    int64  `json:"card_id"`
	TokenType string `json:"token_type"`
	ExpiresAt int64  `json:"expires_at"`
}

type AdminSessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type RegenerateCodeResponse struct {
	CardID int64  `json:"card_id"`
	Code   string `json:"code"`
}

type AuditEventResponse struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	CardID    *int64         `json:"card_id"`
	RequestID string         `json:"request_id"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

func toCardResponse(c *card.Card) CardResponse {
	return CardResponse{
		ID:          c.ID,
		Name:        c.Name,
		Title:       c.Title,
		Description: c.Description,
		Phone:       c.Phone,
		Email:       c.Email,
		Website:     c.Website,
		City:        c.City,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Socials:     []SocialResponse{},
	}
}

func toCardViewResponse(v *service.CardView) CardResponse {
	resp := toCardResponse(v.Card)
	resp.AvatarLink = v.AvatarLink
	for _, s := range v.Socials {
		sr := toSocialResponse(s.Link)
		sr.AppIconLink = s.AppIconLink
		resp.Socials = append(resp.Socials, sr)
	}
	return resp
}

func toSocialResponse(l *social.Link) SocialResponse {
	return SocialResponse{
		ID:          l.ID,
		CardID:      l.CardID,
		Type:        string(l.Type),
		URL:         l.URL,
		Label:       l.Label,
		OrderID:     l.OrderID,
		IsVisible:   l.IsVisible,
		IconAssetID: l.IconAssetID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toAssetResponse(a *asset.Asset) AssetResponse {
	return AssetResponse{
		ID:           a.ID,
		CardID:       a.CardID,
		SocialLinkID: a.SocialLinkID,
		Kind:         string(a.Kind),
		ContentType:  a.ContentType,
		Size:         a.Size,
		CreatedAt:    a.CreatedAt,
	}
}

func toAuditEventResponses(events []*audit.Event) []AuditEventResponse {
	out := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		metadata := e.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		out = append(out, AuditEventResponse{
			ID:        e.ID.String(),
			EventType: string(e.Type),
			CardID:    e.CardID,
			RequestID: e.RequestID,
			Metadata:  metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
