package service

import (
	"context"
	"fmt"

	"card-service/internal/domain/asset"
	"card-service/internal/domain/card"
	"card-service/internal/domain/social"
	"card-service/internal/repository"
	apperrors "card-service/pkg/errors"
)

// CardView is a card with its ordered social links and presigned links to
// its images.
type CardView struct {
	Card       *card.Card
	Socials    []SocialView
	AvatarLink *string
}

type SocialView struct {
	Link        *social.Link
	AppIconLink *string
}

type viewBuilder struct {
	objects ObjectStore
}

// build assembles the view from r. Hidden links are dropped unless
// includeHidden is set.
func (b *viewBuilder) build(ctx context.Context, r repository.Repositories, c *card.Card, includeHidden bool) (*CardView, error) {
	links, err := r.Socials.ListByCard(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	assets, err := r.Assets.ListByCard(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*asset.Asset, len(assets))
	view := &CardView{Card: c, Socials: make([]SocialView, 0, len(links))}
	for _, a := range assets {
		byID[a.ID] = a
		if a.Kind == asset.KindAvatar {
			link, err := b.presign(ctx, a.StorageKey)
			if err != nil {
				return nil, err
			}
			view.AvatarLink = &link
		}
	}

	for _, l := range links {
		if !l.IsVisible && !includeHidden {
			continue
		}
		sv := SocialView{Link: l}
		if l.HasIcon() {
			if a, ok := byID[*l.IconAssetID]; ok {
				link, err := b.presign(ctx, a.StorageKey)
				if err != nil {
					return nil, err
				}
				sv.AppIconLink = &link
			}
		}
		view.Socials = append(view.Socials, sv)
	}

	return view, nil
}

func (b *viewBuilder) presign(ctx context.Context, key string) (string, error) {
	link, err := b.objects.PresignedURL(ctx, key)
	if err != nil {
		return "", apperrors.Internal(msgStorageFailed, fmt.Errorf(errPresignObjectFmt, key, err))
	}
	return link, nil
}
