// file: internals/repository/gormstore/gormstore.go
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"thesisflow_backend/internals/helpers/pgerr"
	"thesisflow_backend/internals/repository"
)

// Store is the postgres implementation. Row locks (SELECT ... FOR UPDATE)
// taken inside WithinTx are what serialize concurrent writers.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.DB.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&tx{db: gtx})
	})
}

func (s *Store) View(ctx context.Context, fn func(tx repository.Tx) error) error {
	return fn(&tx{db: s.DB.WithContext(ctx)})
}

type tx struct {
	db *gorm.DB
}

var _ repository.Tx = (*tx)(nil)

func (t *tx) q(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

func (t *tx) locked(ctx context.Context, forUpdate bool) *gorm.DB {
	q := t.q(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), pgerr.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgerr.Constraint(err))
	default:
		return err
	}
}

// affected turns "0 rows" on a keyed update/delete into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
