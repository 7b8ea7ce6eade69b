package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"card-service/internal/domain/asset"
	"card-service/internal/domain/social"
	"card-service/internal/storage"
	memstore "card-service/internal/storage/memory"
	apperrors "card-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadAvatar_ReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	objects := memstore.NewStore(time.Hour)
	f := newFixture(t, objects)
	id := f.createCard(t).Card.ID

	first, err := f.svc.Assets.UploadAvatar(ctx, id, Upload{Body: pngBody, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, asset.KindAvatar, first.Kind)
	assert.Equal(t, "avatar-1.png", first.StorageKey)

	second, err := f.svc.Assets.UploadAvatar(ctx, id, Upload{Body: jpegBody, ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	assets, err := f.store.Repositories().Assets.ListByCard(ctx, id)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, second.ID, assets[0].ID)
	assert.Equal(t, "image/jpeg", assets[0].ContentType)

	obj, ok := objects.Object(second.StorageKey)
	require.True(t, ok)
	assert.True(t, bytes.Equal(jpegBody, obj.Body))
	assert.Equal(t, 1, objects.Len())
}

func TestUploadAvatar_DeletesOldObjectOnceBeforeUpload(t *testing.T) {
	ctx := context.Background()
	objects := new(mockObjectStore)
	f := newFixture(t, objects)
	id := f.createCard(t).Card.ID
	key := storage.AvatarKey(id)

	var calls []string
	objects.On("Upload", mock.Anything, key, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { calls = append(calls, "upload") }).
		Return(nil).Twice()
	objects.On("Delete", mock.Anything, key).
		Run(func(mock.Arguments) { calls = append(calls, "delete") }).
		Return(nil).Once()

	_, err := f.svc.Assets.UploadAvatar(ctx, id, Upload{Body: pngBody, ContentType: "image/png"})
	require.NoError(t, err)
	_, err = f.svc.Assets.UploadAvatar(ctx, id, Upload{Body: jpegBody, ContentType: "image/jpeg"})
	require.NoError(t, err)

	assert.Equal(t, []string{"upload", "delete", "upload"}, calls)
	objects.AssertExpectations(t)
	objects.AssertNumberOfCalls(t, "Delete", 1)
}

func TestUploadAvatar_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	id := f.createCard(t).Card.ID
	gif := []byte("GIF89a" + "\x00\x00\x00\x00")

	tests := []struct {
		name    string
		upload  Upload
		wantErr error
	}{
		{name: "too large", upload: Upload{Body: make([]byte, 1025), ContentType: "image/png"}, wantErr: apperrors.ErrPayloadTooLarge},
		{name: "empty", upload: Upload{Body: nil, ContentType: "image/png"}, wantErr: apperrors.ErrPayloadInvalid},
		{name: "missing type", upload: Upload{Body: pngBody}, wantErr: apperrors.ErrPayloadInvalid},
		{name: "type not allowed", upload: Upload{Body: gif, ContentType: "image/gif"}, wantErr: apperrors.ErrPayloadInvalid},
		{name: "declared does not match content", upload: Upload{Body: jpegBody, ContentType: "image/png"}, wantErr: apperrors.ErrPayloadInvalid},
		{name: "text pretending to be png", upload: Upload{Body: []byte("hello world"), ContentType: "image/png"}, wantErr: apperrors.ErrPayloadInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Assets.UploadAvatar(ctx, id, tt.upload)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assets, err := f.store.Repositories().Assets.ListByCard(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestUploadAvatar_UnknownCard(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Assets.UploadAvatar(context.Background(), 5, Upload{Body: pngBody, ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUploadAvatar_UploadFailureKeepsRow(t *testing.T) {
	ctx := context.Background()
	objects := new(mockObjectStore)
	objects.On("Upload", mock.Anything, "avatar-1.png", mock.Anything, "image/png").Return(errors.New("s3 unavailable")).Once()

	f := newFixture(t, objects)
	id := f.createCard(t).Card.ID

	_, err := f.svc.Assets.UploadAvatar(ctx, id, Upload{Body: pngBody, ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	avatar, err := f.store.Repositories().Assets.GetAvatar(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "avatar-1.png", avatar.StorageKey)
	objects.AssertExpectations(t)
}

func TestUploadIcon(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	id := f.createCard(t).Card.ID
	other := f.createCard(t).Card.ID

	link, err := f.svc.Socials.Create(ctx, social.CreateLinkInput{CardID: id, Type: social.TypeCustom, URL: "https://ann.example", Label: "site"})
	require.NoError(t, err)

	icon, err := f.svc.Assets.UploadIcon(ctx, id, link.ID, Upload{Body: pngBody, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, asset.KindCustomIcon, icon.Kind)
	require.NotNil(t, icon.SocialLinkID)
	assert.Equal(t, link.ID, *icon.SocialLinkID)
	assert.Equal(t, "app_icon-1-1.png", icon.StorageKey)

	got, err := f.store.Repositories().Socials.GetByID(ctx, id, link.ID)
	require.NoError(t, err)
	require.NotNil(t, got.IconAssetID)
	assert.Equal(t, icon.ID, *got.IconAssetID)

	_, err = f.svc.Assets.UploadIcon(ctx, id, link.ID, Upload{Body: pngBody, ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.svc.Assets.UploadIcon(ctx, other, link.ID, Upload{Body: pngBody, ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Assets.UploadIcon(ctx, id, 999, Upload{Body: pngBody, ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assets, err := f.store.Repositories().Assets.ListByCard(ctx, id)
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}
