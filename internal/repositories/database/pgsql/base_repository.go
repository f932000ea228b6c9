package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes mapped onto application errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidTextRepr     = "22P02"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction. A failed commit leaves the outcome unknown to
// the caller, so the error wraps apperrors.ErrPartialWrite.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w: %w", apperrors.ErrPartialWrite, err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// mapPgError translates constraint and input errors into application errors.
// Other errors are returned unchanged.
func mapPgError(err error, what string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w", what, apperrors.ErrDuplicate)
	case pgForeignKeyViolation, pgCheckViolation, pgInvalidTextRepr:
		return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, what, pgErr.Message)
	}
	return err
}

// isInvalidID reports whether err was caused by a malformed identifier, such as a non-UUID key.
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepr
}
