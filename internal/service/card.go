package service

import (
	"context"
	"errors"
	"fmt"

	"card-service/internal/audit"
	"card-service/internal/domain/card"
	"card-service/internal/repository"
	apperrors "card-service/pkg/errors"
	"card-service/pkg/logger"
	"card-service/pkg/metrics"

	"go.uber.org/zap"
)

type CardService struct {
	deps  Deps
	codes *CodeService
	views *viewBuilder
}

func NewCardService(deps Deps, codes *CodeService) *CardService {
	deps = deps.withDefaults()
	return &CardService{deps: deps, codes: codes, views: &viewBuilder{objects: deps.Objects}}
}

// CreatedCard carries the one-time plaintext code next to the new card.
type CreatedCard struct {
	Card *card.Card
	Code string
}

// Create inserts the card and its first code in one transaction.
func (s *CardService) Create(ctx context.Context, input card.CreateCardInput) (*CreatedCard, error) {
	var out CreatedCard
	err := s.deps.Store.WithinTx(ctx, func(r repository.Repositories) error {
		c, err := r.Cards.Create(ctx, input)
		if err != nil {
			return err
		}
		issued, err := s.codes.issue(ctx, r, c.ID)
		if err != nil {
			return err
		}
		out = CreatedCard{Card: c, Code: issued.Plaintext}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(errCreateCardFmt, err)
	}

	s.deps.Metrics.CodeIssued(metrics.ReasonCreate)
	s.deps.Audit.Record(ctx, audit.EventCardCreated, out.Card.ID, nil)
	logger.FromContext(ctx, s.deps.Logger).Info("card created", zap.Int64("card_id", out.Card.ID))
	return &out, nil
}

// Get returns the card view. Hidden social links are included only for the
// card's owner.
func (s *CardService) Get(ctx context.Context, cardID int64, includeHidden bool) (*CardView, error) {
	r := s.deps.Store.Repositories()
	c, err := r.Cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, notFoundAs(err, msgCardNotFound)
	}
	return s.views.build(ctx, r, c, includeHidden)
}

// Patch applies the present fields. An empty patch returns the card
// unchanged without touching updated_at.
func (s *CardService) Patch(ctx context.Context, cardID int64, patch card.Patch) (*CardView, error) {
	r := s.deps.Store.Repositories()
	if patch.IsEmpty() {
		return s.Get(ctx, cardID, true)
	}

	c, err := r.Cards.Update(ctx, cardID, patch)
	if err != nil {
		return nil, notFoundAs(err, msgCardNotFound)
	}

	s.deps.Audit.Record(ctx, audit.EventCardUpdated, cardID, map[string]any{metaFields: patchedFields(patch)})
	return s.views.build(ctx, r, c, true)
}

// Delete removes the card's stored objects, then the card row. The schema
// cascades the row delete to codes, links and assets. The card row stays
// locked throughout, so uploads for the card wait until the delete is done.
// Object deletion is idempotent, so a failed delete can simply be retried.
func (s *CardService) Delete(ctx context.Context, cardID int64) error {
	var removed int
	err := s.deps.Store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Cards.Lock(ctx, cardID); err != nil {
			return err
		}

		assets, err := r.Assets.ListByCard(ctx, cardID)
		if err != nil {
			return fmt.Errorf(errDeleteCardFmt, err)
		}
		for _, a := range assets {
			if err := s.deps.Objects.Delete(ctx, a.StorageKey); err != nil {
				return apperrors.Internal(msgStorageFailed, fmt.Errorf(errDeleteObjectFmt, a.StorageKey, err))
			}
		}
		removed = len(assets)
		return r.Cards.Delete(ctx, cardID)
	})
	if err != nil {
		return notFoundAs(err, msgCardNotFound)
	}

	s.deps.Audit.Record(ctx, audit.EventCardDeleted, cardID, map[string]any{metaAssetCount: removed})
	logger.FromContext(ctx, s.deps.Logger).Info("card deleted",
		zap.Int64("card_id", cardID),
		zap.Int("assets", removed),
	)
	return nil
}

func patchedFields(p card.Patch) []string {
	fields := make([]string, 0, 7)
	add := func(name string, v *string) {
		if v != nil {
			fields = append(fields, name)
		}
	}
	add("name", p.Name)
	add("title", p.Title)
	add("description", p.Description)
	add("phone", p.Phone)
	add("email", p.Email)
	add("website", p.Website)
	add("city", p.City)
	return fields
}

// notFoundAs replaces a repository NotFound with a user-facing message and
// passes other errors through.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return err
}
