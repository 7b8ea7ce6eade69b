package postgres

import (
	"context"

	"card-service/internal/repository"
)

// Store implements repository.Store on a pgx pool.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.db.Pool)
}

func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errFailedCommitTransaction(err)
	}

	return nil
}

func newRepositories(q querier) repository.Repositories {
	return repository.Repositories{
		Cards:   &CardRepository{q: q},
		Codes:   &CodeRepository{q: q},
		Socials: &SocialRepository{q: q},
		Assets:  &AssetRepository{q: q},
	}
}
