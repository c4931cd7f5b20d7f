package repository

import (
	"context"
	"fmt"

	"catalog-review/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User   UserRepository
	Item   ItemRepository
	Review ReviewRepository
	Tx     Transactor
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.Tx = &pgxTransactor{db: db, log: log}
	return repo
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:   NewUserRepository(q, log),
		Item:   NewItemRepository(q, log),
		Review: NewReviewRepository(q, log),
	}
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	scoped := newRepository(tx, t.log)
	scoped.Tx = nestedTx{repo: scoped}

	if err := fn(scoped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			t.log.Error("Failed to rollback transaction", zap.Error(rbErr), zap.NamedError("cause", err))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}

	return nil
}

// nestedTx joins the enclosing transaction.
type nestedTx struct {
	repo *Repository
}

func (n nestedTx) WithinTx(_ context.Context, fn func(tx *Repository) error) error {
	return fn(n.repo)
}
