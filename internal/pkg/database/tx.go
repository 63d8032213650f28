package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// MaxSerializableAttempts bounds retries of a serializable transaction.
const MaxSerializableAttempts = 3

// TxBeginner is satisfied by *sqlx.DB.
type TxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// WithSerializableTx runs fn in a SERIALIZABLE transaction and commits it.
// Serialization failures and deadlocks restart fn from scratch; any other
// error rolls back and is returned unchanged.
func WithSerializableTx(ctx context.Context, db TxBeginner, fn func(tx *sqlx.Tx) error) error {
	return retrySerializable(ctx, func() error {
		return runTx(ctx, db, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
	})
}

// serializableBackoff is the wait before the next attempt.
var serializableBackoff = func(attempt int) time.Duration {
	return time.Duration(attempt*attempt) * 5 * time.Millisecond
}

func retrySerializable(ctx context.Context, run func() error) error {
	var lastErr error
	for attempt := 1; attempt <= MaxSerializableAttempts; attempt++ {
		lastErr = run()
		if lastErr == nil || !IsSerializationFailure(lastErr) {
			return lastErr
		}
		if attempt == MaxSerializableAttempts {
			break
		}

		log.Debug().Int("attempt", attempt).Err(lastErr).Msg("Serializable transaction conflict, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(serializableBackoff(attempt)):
		}
	}
	return fmt.Errorf("serializable transaction failed after %d attempts: %w", MaxSerializableAttempts, lastErr)
}

// WithTx runs fn in a transaction with default isolation.
func WithTx(ctx context.Context, db TxBeginner, fn func(tx *sqlx.Tx) error) error {
	return runTx(ctx, db, nil, fn)
}

func runTx(ctx context.Context, db TxBeginner, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
