package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"card-service/internal/config"
	"card-service/internal/domain/asset"
	"card-service/internal/repository"
	"card-service/internal/storage"
	apperrors "card-service/pkg/errors"
	"card-service/pkg/logger"
	"card-service/pkg/validator"

	"go.uber.org/zap"
)

// Upload is an image received from a client.
type Upload struct {
	Body        []byte
	ContentType string
}

type AssetService struct {
	deps Deps
	app  config.AppConfig
}

func NewAssetService(deps Deps, app config.AppConfig) *AssetService {
	return &AssetService{deps: deps.withDefaults(), app: app}
}

// MaxSize is the largest accepted upload in bytes.
func (s *AssetService) MaxSize() int64 {
	return s.app.ImageMaxSize
}

// checkUpload enforces the size limit and requires the declared type to be
// allowed and to match the sniffed content. It returns the normalized type.
func (s *AssetService) checkUpload(u Upload) (string, error) {
	if int64(len(u.Body)) > s.app.ImageMaxSize {
		return "", apperrors.PayloadTooLarge(fmt.Sprintf(msgFileTooLargeFmt, s.app.ImageMaxSize))
	}
	if len(u.Body) == 0 {
		return "", apperrors.PayloadInvalid(msgFileEmpty)
	}

	declared, err := validator.ContentType(u.ContentType)
	if err != nil {
		return "", apperrors.PayloadInvalid(err.Error())
	}
	if !s.app.IsImageTypeAllowed(declared) {
		return "", apperrors.PayloadInvalid(fmt.Sprintf(msgTypeNotAllowedFmt, declared))
	}

	sniffed, _ := validator.ContentType(http.DetectContentType(u.Body))
	if sniffed != declared {
		return "", apperrors.PayloadInvalid(fmt.Sprintf(msgTypeMismatchFmt, declared, sniffed))
	}
	return declared, nil
}

// UploadAvatar replaces the card's avatar. The old row is swapped for the
// new one in a transaction before any object is touched, so a failed upload
// leaves a row without an object rather than an unreferenced object.
func (s *AssetService) UploadAvatar(ctx context.Context, cardID int64, u Upload) (*asset.Asset, error) {
	contentType, err := s.checkUpload(u)
	if err != nil {
		return nil, err
	}

	key := storage.AvatarKey(cardID)
	var created, previous *asset.Asset
	err = s.deps.Store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Cards.Lock(ctx, cardID); err != nil {
			return err
		}
		old, err := r.Assets.GetAvatar(ctx, cardID)
		switch {
		case err == nil:
			if err := r.Assets.Delete(ctx, old.ID); err != nil {
				return err
			}
			previous = old
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		created, err = r.Assets.Create(ctx, asset.CreateAssetInput{
			CardID:      cardID,
			Kind:        asset.KindAvatar,
			StorageKey:  key,
			ContentType: contentType,
			Size:        int64(len(u.Body)),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Conflict(msgAvatarConflict)
		}
		return nil, notFoundAs(err, msgCardNotFound)
	}

	if previous != nil {
		if err := s.deps.Objects.Delete(ctx, previous.StorageKey); err != nil {
			return nil, apperrors.Internal(msgStorageFailed, fmt.Errorf(errDeleteObjectFmt, previous.StorageKey, err))
		}
	}
	if err := s.put(ctx, created, u.Body, msgCardNotFound); err != nil {
		return nil, err
	}
	return created, nil
}

// UploadIcon attaches a custom icon to a social link. A link that already
// has an icon is a Conflict; the caller must delete the link first.
func (s *AssetService) UploadIcon(ctx context.Context, cardID, linkID int64, u Upload) (*asset.Asset, error) {
	contentType, err := s.checkUpload(u)
	if err != nil {
		return nil, err
	}

	var created *asset.Asset
	err = s.deps.Store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Cards.Lock(ctx, cardID); err != nil {
			return err
		}
		link, err := r.Socials.GetForUpdate(ctx, cardID, linkID)
		if err != nil {
			return err
		}
		if link.HasIcon() {
			return apperrors.Conflict(msgIconExists)
		}

		created, err = r.Assets.Create(ctx, asset.CreateAssetInput{
			CardID:       cardID,
			SocialLinkID: &link.ID,
			Kind:         asset.KindCustomIcon,
			StorageKey:   storage.IconKey(cardID, link.ID),
			ContentType:  contentType,
			Size:         int64(len(u.Body)),
		})
		if err != nil {
			return err
		}
		return r.Socials.SetIcon(ctx, cardID, link.ID, &created.ID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Conflict(msgIconExists)
		}
		return nil, notFoundAs(err, msgSocialNotFound)
	}

	if err := s.put(ctx, created, u.Body, msgSocialNotFound); err != nil {
		return nil, err
	}
	return created, nil
}

// put uploads the object for a committed asset row. A card or link delete
// that ran between the commit and the upload has already removed the rows,
// so the fresh object is dropped again and the upload reports goneMsg.
func (s *AssetService) put(ctx context.Context, a *asset.Asset, body []byte, goneMsg string) error {
	if err := s.deps.Objects.Upload(ctx, a.StorageKey, body, a.ContentType); err != nil {
		logger.FromContext(ctx, s.deps.Logger).Error("object upload failed after asset row commit",
			zap.Int64("asset_id", a.ID),
			zap.String("storage_key", a.StorageKey),
			zap.Error(err),
		)
		return apperrors.Internal(msgStorageFailed, fmt.Errorf(errUploadObjectFmt, a.StorageKey, err))
	}

	referenced, err := s.keyReferenced(ctx, a.CardID, a.StorageKey)
	if err != nil {
		return err
	}
	if !referenced {
		logger.FromContext(ctx, s.deps.Logger).Warn("asset removed during upload, dropping object",
			zap.Int64("asset_id", a.ID),
			zap.String("storage_key", a.StorageKey),
		)
		if err := s.deps.Objects.Delete(ctx, a.StorageKey); err != nil {
			return apperrors.Internal(msgStorageFailed, fmt.Errorf(errDeleteObjectFmt, a.StorageKey, err))
		}
		return apperrors.NotFound(goneMsg)
	}

	s.deps.Metrics.AssetUploaded(string(a.Kind))
	return nil
}

// keyReferenced reports whether any asset row of the card still points at
// key. The card lock makes it wait for a delete in progress. Avatar keys are
// shared by consecutive avatars, so a replaced row does not orphan the key.
func (s *AssetService) keyReferenced(ctx context.Context, cardID int64, key string) (bool, error) {
	var referenced bool
	err := s.deps.Store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Cards.Lock(ctx, cardID); err != nil {
			return err
		}
		assets, err := r.Assets.ListByCard(ctx, cardID)
		if err != nil {
			return err
		}
		for _, a := range assets {
			if a.StorageKey == key {
				referenced = true
				break
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}
	return referenced, nil
}
