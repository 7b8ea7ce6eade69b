package postgres

import (
	"context"

	"card-service/internal/domain/card"
	apperrors "card-service/pkg/errors"
)

const cardColumns = `id, name, title, description, phone, email, website, city, is_active, created_at, updated_at`

type CardRepository struct {
	q querier
}

func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{q: db.Pool}
}

func scanCard(row interface{ Scan(dest ...any) error }) (*card.Card, error) {
	c := &card.Card{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Title, &c.Description, &c.Phone, &c.Email,
		&c.Website, &c.City, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *CardRepository) Create(ctx context.Context, input card.CreateCardInput) (*card.Card, error) {
	query := `
		INSERT INTO cards (name, title, description, phone, email, website, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + cardColumns

	c, err := scanCard(r.q.QueryRow(ctx, query,
		input.Name, input.Title, input.Description, input.Phone, input.Email, input.Website, input.City,
	))
	if err != nil {
		return nil, errFailedCreateCard(err)
	}

	return c, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id int64) (*card.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	c, err := scanCard(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errCardNotFound)
		}
		return nil, errFailedGetCard(err)
	}

	return c, nil
}

func (r *CardRepository) Lock(ctx context.Context, id int64) error {
	var lockedID int64
	err := r.q.QueryRow(ctx, `SELECT id FROM cards WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NotFound(errCardNotFound)
		}
		return errFailedLockCard(err)
	}
	return nil
}

// Update writes only the fields present in patch. COALESCE keeps the stored
// value for every nil pointer.
func (r *CardRepository) Update(ctx context.Context, id int64, patch card.Patch) (*card.Card, error) {
	query := `
		UPDATE cards SET
			name        = COALESCE($2, name),
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			phone       = COALESCE($5, phone),
			email       = COALESCE($6, email),
			website     = COALESCE($7, website),
			city        = COALESCE($8, city),
			updated_at  = NOW()
		WHERE id = $1
		RETURNING ` + cardColumns

	c, err := scanCard(r.q.QueryRow(ctx, query, id,
		patch.Name, patch.Title, patch.Description, patch.Phone, patch.Email, patch.Website, patch.City,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errCardNotFound)
		}
		return nil, errFailedUpdateCard(err)
	}

	return c, nil
}

// Delete removes the card. Codes, social links and asset rows go with it
// through ON DELETE CASCADE; stored objects are the caller's job.
func (r *CardRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteCard(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errCardNotFound)
	}
	return nil
}
