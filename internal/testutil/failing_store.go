package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"alcyxob/annual-plan/internal/repository"
	"alcyxob/annual-plan/internal/repository/sqlite"
)

// FailingStore is a test store that injects an error on the Nth ExecContext
// call within a transaction. Reads and writes outside WithinTx pass through.
//
// ExecContext calls are counted starting at 1, per transaction.
type FailingStore struct {
	*sqlite.Store
	FailOn int32
	Err    error
}

func (f *FailingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	tx, err := f.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: f.FailOn, err: f.Err}
	if fnErr := fn(ctx, sqlite.NewTxStore(wrapped)); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	sqlite.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
