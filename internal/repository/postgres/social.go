package postgres

import (
	"context"

	"card-service/internal/domain/social"
	apperrors "card-service/pkg/errors"
)

const socialColumns = `id, card_id, type, url, label, order_id, is_visible, icon_asset_id, created_at, updated_at`

type SocialRepository struct {
	q querier
}

func NewSocialRepository(db *DB) *SocialRepository {
	return &SocialRepository{q: db.Pool}
}

func scanSocial(row interface{ Scan(dest ...any) error }) (*social.Link, error) {
	l := &social.Link{}
	var linkType string
	err := row.Scan(
		&l.ID, &l.CardID, &linkType, &l.URL, &l.Label, &l.OrderID,
		&l.IsVisible, &l.IconAssetID, &l.CreatedAt, &l.UpdatedAt,
	)
	l.Type = social.Type(linkType)
	return l, err
}

// Create assigns order_id as one past the card's current maximum. Callers
// lock the card row first so concurrent appends cannot pick the same slot.
func (r *SocialRepository) Create(ctx context.Context, input social.CreateLinkInput) (*social.Link, error) {
	query := `
		INSERT INTO card_socials (card_id, type, url, label, order_id)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(order_id) + 1, 0) FROM card_socials WHERE card_id = $1))
		RETURNING ` + socialColumns

	l, err := scanSocial(r.q.QueryRow(ctx, query, input.CardID, string(input.Type), input.URL, input.Label))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errCardNotFound)
		}
		return nil, errFailedCreateSocial(err)
	}

	return l, nil
}

func (r *SocialRepository) GetByID(ctx context.Context, cardID, linkID int64) (*social.Link, error) {
	return r.get(ctx, `SELECT `+socialColumns+` FROM card_socials WHERE card_id = $1 AND id = $2`, cardID, linkID)
}

func (r *SocialRepository) GetForUpdate(ctx context.Context, cardID, linkID int64) (*social.Link, error) {
	return r.get(ctx, `SELECT `+socialColumns+` FROM card_socials WHERE card_id = $1 AND id = $2 FOR UPDATE`, cardID, linkID)
}

func (r *SocialRepository) get(ctx context.Context, query string, cardID, linkID int64) (*social.Link, error) {
	l, err := scanSocial(r.q.QueryRow(ctx, query, cardID, linkID))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errSocialLinkNotFound)
		}
		return nil, errFailedGetSocial(err)
	}
	return l, nil
}

func (r *SocialRepository) ListByCard(ctx context.Context, cardID int64) ([]*social.Link, error) {
	query := `SELECT ` + socialColumns + ` FROM card_socials WHERE card_id = $1 ORDER BY order_id, id`

	rows, err := r.q.Query(ctx, query, cardID)
	if err != nil {
		return nil, errFailedListSocials(err)
	}
	defer rows.Close()

	var links []*social.Link
	for rows.Next() {
		l, err := scanSocial(rows)
		if err != nil {
			return nil, errFailedScanSocial(err)
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

func (r *SocialRepository) Update(ctx context.Context, cardID, linkID int64, patch social.Patch) (*social.Link, error) {
	var linkType *string
	if patch.Type != nil {
		t := string(*patch.Type)
		linkType = &t
	}

	query := `
		UPDATE card_socials SET
			type       = COALESCE($3, type),
			url        = COALESCE($4, url),
			label      = COALESCE($5, label),
			is_visible = COALESCE($6, is_visible),
			updated_at = NOW()
		WHERE card_id = $1 AND id = $2
		RETURNING ` + socialColumns

	l, err := scanSocial(r.q.QueryRow(ctx, query, cardID, linkID, linkType, patch.URL, patch.Label, patch.IsVisible))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errSocialLinkNotFound)
		}
		return nil, errFailedUpdateSocial(err)
	}

	return l, nil
}

func (r *SocialRepository) SetIcon(ctx context.Context, cardID, linkID int64, assetID *int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE card_socials SET icon_asset_id = $3, updated_at = NOW()
		WHERE card_id = $1 AND id = $2
	`, cardID, linkID, assetID)
	if err != nil {
		return errFailedSetIcon(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errSocialLinkNotFound)
	}
	return nil
}

func (r *SocialRepository) Delete(ctx context.Context, cardID, linkID int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM card_socials WHERE card_id = $1 AND id = $2`, cardID, linkID)
	if err != nil {
		return errFailedDeleteSocial(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errSocialLinkNotFound)
	}
	return nil
}
