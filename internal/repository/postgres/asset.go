package postgres

import (
	"context"

	"card-service/internal/domain/asset"
	apperrors "card-service/pkg/errors"
)

const assetColumns = `id, card_id, social_link_id, kind, storage_key, content_type, size, created_at`

type AssetRepository struct {
	q querier
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{q: db.Pool}
}

func scanAsset(row interface{ Scan(dest ...any) error }) (*asset.Asset, error) {
	a := &asset.Asset{}
	var kind string
	err := row.Scan(&a.ID, &a.CardID, &a.SocialLinkID, &kind, &a.StorageKey, &a.ContentType, &a.Size, &a.CreatedAt)
	a.Kind = asset.Kind(kind)
	return a, err
}

// Create inserts asset metadata. The partial unique indexes allow one avatar
// per card and one icon per social link; a second one is Conflict.
func (r *AssetRepository) Create(ctx context.Context, input asset.CreateAssetInput) (*asset.Asset, error) {
	query := `
		INSERT INTO assets (card_id, social_link_id, kind, storage_key, content_type, size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + assetColumns

	a, err := scanAsset(r.q.QueryRow(ctx, query,
		input.CardID, input.SocialLinkID, string(input.Kind), input.StorageKey, input.ContentType, input.Size,
	))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, apperrors.Conflict(errAssetAlreadyExists)
		case isForeignKeyViolation(err):
			return nil, apperrors.NotFound(errCardNotFound)
		}
		return nil, errFailedCreateAsset(err)
	}

	return a, nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*asset.Asset, error) {
	return r.get(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
}

func (r *AssetRepository) GetAvatar(ctx context.Context, cardID int64) (*asset.Asset, error) {
	return r.get(ctx, `SELECT `+assetColumns+` FROM assets WHERE card_id = $1 AND kind = 'avatar'`, cardID)
}

func (r *AssetRepository) get(ctx context.Context, query string, arg int64) (*asset.Asset, error) {
	a, err := scanAsset(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errAssetNotFound)
		}
		return nil, errFailedGetAsset(err)
	}
	return a, nil
}

func (r *AssetRepository) ListByCard(ctx context.Context, cardID int64) ([]*asset.Asset, error) {
	rows, err := r.q.Query(ctx, `SELECT `+assetColumns+` FROM assets WHERE card_id = $1 ORDER BY id`, cardID)
	if err != nil {
		return nil, errFailedListAssets(err)
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, errFailedScanAsset(err)
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

func (r *AssetRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteAsset(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errAssetNotFound)
	}
	return nil
}
