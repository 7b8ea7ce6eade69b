package postgres

import (
	"context"

	"card-service/internal/domain/code"
	"card-service/internal/repository"
	apperrors "card-service/pkg/errors"
)

const (
	codeColumns         = `id, card_id, code_hash, is_active, created_at, deactivated_at`
	activeCodeIndexName = "codes_one_active_per_card"
)

type CodeRepository struct {
	q querier
}

func NewCodeRepository(db *DB) *CodeRepository {
	return &CodeRepository{q: db.Pool}
}

func scanCode(row interface{ Scan(dest ...any) error }) (*code.Code, error) {
	c := &code.Code{}
	err := row.Scan(&c.ID, &c.CardID, &c.CodeHash, &c.IsActive, &c.CreatedAt, &c.DeactivatedAt)
	return c, err
}

// Create inserts an active code. The partial unique index on
// codes(card_id) WHERE is_active turns a second active code into Conflict.
// A taken digest inserts nothing and leaves the transaction usable, so the
// caller can retry with another code.
func (r *CodeRepository) Create(ctx context.Context, cardID int64, codeHash string) (*code.Code, error) {
	query := `
		INSERT INTO codes (card_id, code_hash)
		VALUES ($1, $2)
		ON CONFLICT (code_hash) DO NOTHING
		RETURNING ` + codeColumns

	c, err := scanCode(r.q.QueryRow(ctx, query, cardID, codeHash))
	if err != nil {
		switch {
		case isNoRows(err):
			return nil, repository.ErrCodeHashTaken
		case isUniqueViolation(err) && violatedConstraint(err) == activeCodeIndexName:
			return nil, apperrors.Conflict(errActiveCodeExists)
		case isForeignKeyViolation(err):
			return nil, apperrors.NotFound(errCardNotFound)
		}
		return nil, errFailedCreateCode(err)
	}

	return c, nil
}

func (r *CodeRepository) GetActiveByHash(ctx context.Context, codeHash string) (*code.Code, error) {
	query := `SELECT ` + codeColumns + ` FROM codes WHERE code_hash = $1 AND is_active`

	c, err := scanCode(r.q.QueryRow(ctx, query, codeHash))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errCodeNotFound)
		}
		return nil, errFailedGetCode(err)
	}

	return c, nil
}

func (r *CodeRepository) DeactivateByCard(ctx context.Context, cardID int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE codes SET is_active = FALSE, deactivated_at = NOW()
		WHERE card_id = $1 AND is_active
	`, cardID)
	if err != nil {
		return 0, errFailedDeactivateCode(err)
	}
	return tag.RowsAffected(), nil
}

func (r *CodeRepository) ListByCard(ctx context.Context, cardID int64) ([]*code.Code, error) {
	rows, err := r.q.Query(ctx, `SELECT `+codeColumns+` FROM codes WHERE card_id = $1 ORDER BY id`, cardID)
	if err != nil {
		return nil, errFailedListCodes(err)
	}
	defer rows.Close()

	var codes []*code.Code
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, errFailedScanCode(err)
		}
		codes = append(codes, c)
	}

	return codes, rows.Err()
}
