package memory

import (
	"context"
	"sort"
	"time"

	"card-service/internal/domain/asset"
	"card-service/internal/domain/card"
	"card-service/internal/domain/code"
	"card-service/internal/domain/social"
	"card-service/internal/repository"
	apperrors "card-service/pkg/errors"
)

const (
	errCardNotFound       = "card not found"
	errCodeNotFound       = "code not found"
	errSocialLinkNotFound = "social link not found"
	errAssetNotFound      = "asset not found"
	errActiveCodeExists   = "card already has an active code"
	errAssetAlreadyExists = "asset already exists"

	tableCards   = "cards"
	tableCodes   = "codes"
	tableSocials = "card_socials"
	tableAssets  = "assets"
)

type cardRepository struct {
	run runner
	now func() time.Time
}

func (r *cardRepository) Create(_ context.Context, input card.CreateCardInput) (*card.Card, error) {
	var out *card.Card
	err := r.run(func(s *state) error {
		now := r.now()
		c := &card.Card{
			ID:          s.id(tableCards),
			Name:        input.Name,
			Title:       input.Title,
			Description: input.Description,
			Phone:       input.Phone,
			Email:       input.Email,
			Website:     input.Website,
			City:        input.City,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.cards[c.ID] = c
		cp := *c
		out = &cp
		return nil
	})
	return out, err
}

func (r *cardRepository) GetByID(_ context.Context, id int64) (*card.Card, error) {
	var out *card.Card
	err := r.run(func(s *state) error {
		c, ok := s.cards[id]
		if !ok {
			return apperrors.NotFound(errCardNotFound)
		}
		cp := *c
		out = &cp
		return nil
	})
	return out, err
}

func (r *cardRepository) Lock(_ context.Context, id int64) error {
	return r.run(func(s *state) error {
		if _, ok := s.cards[id]; !ok {
			return apperrors.NotFound(errCardNotFound)
		}
		return nil
	})
}

func (r *cardRepository) Update(_ context.Context, id int64, patch card.Patch) (*card.Card, error) {
	var out *card.Card
	err := r.run(func(s *state) error {
		c, ok := s.cards[id]
		if !ok {
			return apperrors.NotFound(errCardNotFound)
		}
		patch.Apply(c)
		c.UpdatedAt = r.now()
		cp := *c
		out = &cp
		return nil
	})
	return out, err
}

func (r *cardRepository) Delete(_ context.Context, id int64) error {
	return r.run(func(s *state) error {
		if _, ok := s.cards[id]; !ok {
			return apperrors.NotFound(errCardNotFound)
		}
		delete(s.cards, id)
		for k, c := range s.codes {
			if c.CardID == id {
				delete(s.codes, k)
			}
		}
		for k, l := range s.socials {
			if l.CardID == id {
				delete(s.socials, k)
			}
		}
		for k, a := range s.assets {
			if a.CardID == id {
				delete(s.assets, k)
			}
		}
		return nil
	})
}

type codeRepository struct {
	run runner
	now func() time.Time
}

func (r *codeRepository) Create(_ context.Context, cardID int64, codeHash string) (*code.Code, error) {
	var out *code.Code
	err := r.run(func(s *state) error {
		if _, ok := s.cards[cardID]; !ok {
			return apperrors.NotFound(errCardNotFound)
		}
		for _, c := range s.codes {
			if c.CodeHash == codeHash {
				return repository.ErrCodeHashTaken
			}
		}
		for _, c := range s.codes {
			if c.CardID == cardID && c.IsActive {
				return apperrors.Conflict(errActiveCodeExists)
			}
		}
		c := &code.Code{
			ID:        s.id(tableCodes),
			CardID:    cardID,
			CodeHash:  codeHash,
			IsActive:  true,
			CreatedAt: r.now(),
		}
		s.codes[c.ID] = c
		cp := *c
		out = &cp
		return nil
	})
	return out, err
}

func (r *codeRepository) GetActiveByHash(_ context.Context, codeHash string) (*code.Code, error) {
	var out *code.Code
	err := r.run(func(s *state) error {
		for _, c := range s.codes {
			if c.IsActive && c.CodeHash == codeHash {
				cp := *c
				out = &cp
				return nil
			}
		}
		return apperrors.NotFound(errCodeNotFound)
	})
	return out, err
}

func (r *codeRepository) DeactivateByCard(_ context.Context, cardID int64) (int64, error) {
	var n int64
	err := r.run(func(s *state) error {
		now := r.now()
		for _, c := range s.codes {
			if c.CardID == cardID && c.IsActive {
				c.IsActive = false
				at := now
				c.DeactivatedAt = &at
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *codeRepository) ListByCard(_ context.Context, cardID int64) ([]*code.Code, error) {
	var out []*code.Code
	err := r.run(func(s *state) error {
		for _, c := range s.codes {
			if c.CardID == cardID {
				cp := *c
				out = append(out, &cp)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

type socialRepository struct {
	run runner
	now func() time.Time
}

func (r *socialRepository) Create(_ context.Context, input social.CreateLinkInput) (*social.Link, error) {
	var out *social.Link
	err := r.run(func(s *state) error {
		if _, ok := s.cards[input.CardID]; !ok {
			return apperrors.NotFound(errCardNotFound)
		}
		next := 0
		for _, l := range s.socials {
			if l.CardID == input.CardID && l.OrderID >= next {
				next = l.OrderID + 1
			}
		}
		now := r.now()
		l := &social.Link{
			ID:        s.id(tableSocials),
			CardID:    input.CardID,
			Type:      input.Type,
			URL:       input.URL,
			Label:     input.Label,
			OrderID:   next,
			IsVisible: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.socials[l.ID] = l
		out = copyLink(l)
		return nil
	})
	return out, err
}

func (r *socialRepository) GetByID(_ context.Context, cardID, linkID int64) (*social.Link, error) {
	var out *social.Link
	err := r.run(func(s *state) error {
		l, err := findLink(s, cardID, linkID)
		if err != nil {
			return err
		}
		out = copyLink(l)
		return nil
	})
	return out, err
}

func (r *socialRepository) GetForUpdate(ctx context.Context, cardID, linkID int64) (*social.Link, error) {
	return r.GetByID(ctx, cardID, linkID)
}

func (r *socialRepository) ListByCard(_ context.Context, cardID int64) ([]*social.Link, error) {
	var out []*social.Link
	err := r.run(func(s *state) error {
		for _, l := range s.socials {
			if l.CardID == cardID {
				out = append(out, copyLink(l))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].OrderID != out[j].OrderID {
				return out[i].OrderID < out[j].OrderID
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func (r *socialRepository) Update(_ context.Context, cardID, linkID int64, patch social.Patch) (*social.Link, error) {
	var out *social.Link
	err := r.run(func(s *state) error {
		l, err := findLink(s, cardID, linkID)
		if err != nil {
			return err
		}
		patch.Apply(l)
		l.UpdatedAt = r.now()
		out = copyLink(l)
		return nil
	})
	return out, err
}

func (r *socialRepository) SetIcon(_ context.Context, cardID, linkID int64, assetID *int64) error {
	return r.run(func(s *state) error {
		l, err := findLink(s, cardID, linkID)
		if err != nil {
			return err
		}
		if assetID != nil {
			if _, ok := s.assets[*assetID]; !ok {
				return apperrors.NotFound(errAssetNotFound)
			}
			id := *assetID
			l.IconAssetID = &id
		} else {
			l.IconAssetID = nil
		}
		l.UpdatedAt = r.now()
		return nil
	})
}

func (r *socialRepository) Delete(_ context.Context, cardID, linkID int64) error {
	return r.run(func(s *state) error {
		if _, err := findLink(s, cardID, linkID); err != nil {
			return err
		}
		delete(s.socials, linkID)
		for k, a := range s.assets {
			if a.SocialLinkID != nil && *a.SocialLinkID == linkID {
				delete(s.assets, k)
			}
		}
		return nil
	})
}

func findLink(s *state, cardID, linkID int64) (*social.Link, error) {
	l, ok := s.socials[linkID]
	if !ok || l.CardID != cardID {
		return nil, apperrors.NotFound(errSocialLinkNotFound)
	}
	return l, nil
}

func copyLink(l *social.Link) *social.Link {
	cp := *l
	if l.IconAssetID != nil {
		id := *l.IconAssetID
		cp.IconAssetID = &id
	}
	return &cp
}

type assetRepository struct {
	run runner
	now func() time.Time
}

func (r *assetRepository) Create(_ context.Context, input asset.CreateAssetInput) (*asset.Asset, error) {
	var out *asset.Asset
	err := r.run(func(s *state) error {
		if _, ok := s.cards[input.CardID]; !ok {
			return apperrors.NotFound(errCardNotFound)
		}
		if input.SocialLinkID != nil {
			if _, err := findLink(s, input.CardID, *input.SocialLinkID); err != nil {
				return err
			}
		}
		for _, a := range s.assets {
			if input.Kind == asset.KindAvatar && a.Kind == asset.KindAvatar && a.CardID == input.CardID {
				return apperrors.Conflict(errAssetAlreadyExists)
			}
			if input.SocialLinkID != nil && a.SocialLinkID != nil && *a.SocialLinkID == *input.SocialLinkID {
				return apperrors.Conflict(errAssetAlreadyExists)
			}
		}
		a := &asset.Asset{
			ID:           s.id(tableAssets),
			CardID:       input.CardID,
			SocialLinkID: copyID(input.SocialLinkID),
			Kind:         input.Kind,
			StorageKey:   input.StorageKey,
			ContentType:  input.ContentType,
			Size:         input.Size,
			CreatedAt:    r.now(),
		}
		s.assets[a.ID] = a
		out = copyAsset(a)
		return nil
	})
	return out, err
}

func (r *assetRepository) GetByID(_ context.Context, id int64) (*asset.Asset, error) {
	var out *asset.Asset
	err := r.run(func(s *state) error {
		a, ok := s.assets[id]
		if !ok {
			return apperrors.NotFound(errAssetNotFound)
		}
		out = copyAsset(a)
		return nil
	})
	return out, err
}

func (r *assetRepository) GetAvatar(_ context.Context, cardID int64) (*asset.Asset, error) {
	var out *asset.Asset
	err := r.run(func(s *state) error {
		for _, a := range s.assets {
			if a.CardID == cardID && a.Kind == asset.KindAvatar {
				out = copyAsset(a)
				return nil
			}
		}
		return apperrors.NotFound(errAssetNotFound)
	})
	return out, err
}

func (r *assetRepository) ListByCard(_ context.Context, cardID int64) ([]*asset.Asset, error) {
	var out []*asset.Asset
	err := r.run(func(s *state) error {
		for _, a := range s.assets {
			if a.CardID == cardID {
				out = append(out, copyAsset(a))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *assetRepository) Delete(_ context.Context, id int64) error {
	return r.run(func(s *state) error {
		if _, ok := s.assets[id]; !ok {
			return apperrors.NotFound(errAssetNotFound)
		}
		delete(s.assets, id)
		for _, l := range s.socials {
			if l.IconAssetID != nil && *l.IconAssetID == id {
				l.IconAssetID = nil
			}
		}
		return nil
	})
}

func copyAsset(a *asset.Asset) *asset.Asset {
	cp := *a
	cp.SocialLinkID = copyID(a.SocialLinkID)
	return &cp
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
