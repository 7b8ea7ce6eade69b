package service

import (
	"context"
	"fmt"

	"card-service/internal/domain/social"
	"card-service/internal/repository"
	apperrors "card-service/pkg/errors"
	"card-service/pkg/logger"

	"go.uber.org/zap"
)

type SocialService struct {
	deps Deps
}

func NewSocialService(deps Deps) *SocialService {
	return &SocialService{deps: deps.withDefaults()}
}

// Create appends a link to the card. The card row is locked so concurrent
// creates get distinct order ids.
func (s *SocialService) Create(ctx context.Context, input social.CreateLinkInput) (*social.Link, error) {
	if err := input.Type.Validate(); err != nil {
		return nil, apperrors.Validation(msgInvalidSocialType)
	}

	var link *social.Link
	err := s.deps.Store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Cards.Lock(ctx, input.CardID); err != nil {
			return err
		}
		var err error
		link, err = r.Socials.Create(ctx, input)
		return err
	})
	if err != nil {
		return nil, notFoundAs(err, msgCardNotFound)
	}
	return link, nil
}

func (s *SocialService) Patch(ctx context.Context, cardID, linkID int64, patch social.Patch) (*social.Link, error) {
	if patch.Type != nil {
		if err := patch.Type.Validate(); err != nil {
			return nil, apperrors.Validation(msgInvalidSocialType)
		}
	}

	socials := s.deps.Store.Repositories().Socials
	var (
		link *social.Link
		err  error
	)
	if patch.IsEmpty() {
		link, err = socials.GetByID(ctx, cardID, linkID)
	} else {
		link, err = socials.Update(ctx, cardID, linkID, patch)
	}
	if err != nil {
		return nil, notFoundAs(err, msgSocialNotFound)
	}
	return link, nil
}

// Delete removes the link. The card and link rows stay locked while the
// icon object is deleted, so an icon upload cannot slip in between reading
// the link and removing its rows.
func (s *SocialService) Delete(ctx context.Context, cardID, linkID int64) error {
	var removed []string
	err := s.deps.Store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Cards.Lock(ctx, cardID); err != nil {
			return err
		}
		if _, err := r.Socials.GetForUpdate(ctx, cardID, linkID); err != nil {
			return err
		}

		assets, err := r.Assets.ListByCard(ctx, cardID)
		if err != nil {
			return err
		}
		for _, a := range assets {
			if a.SocialLinkID == nil || *a.SocialLinkID != linkID {
				continue
			}
			if err := s.deps.Objects.Delete(ctx, a.StorageKey); err != nil {
				return apperrors.Internal(msgStorageFailed, fmt.Errorf(errDeleteObjectFmt, a.StorageKey, err))
			}
			if err := r.Assets.Delete(ctx, a.ID); err != nil {
				return err
			}
			removed = append(removed, a.StorageKey)
		}
		return r.Socials.Delete(ctx, cardID, linkID)
	})
	if err != nil {
		return notFoundAs(err, msgSocialNotFound)
	}

	logger.FromContext(ctx, s.deps.Logger).Info("social link deleted",
		zap.Int64("card_id", cardID),
		zap.Int64("social_id", linkID),
		zap.Strings("removed_objects", removed),
	)
	return nil
}
