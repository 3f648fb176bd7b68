package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"alcyxob/annual-plan/internal/repository"
)

// Store implements repository.Store on SQLite. The root store runs each
// statement on its own; the store handed to a WithinTx callback runs on the
// transaction.
type Store struct {
	db   *sql.DB
	q    DBTX
	inTx bool
}

var _ repository.Store = (*Store)(nil)

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// NewTxStore builds a store over an arbitrary DBTX that is already inside a
// transaction. Tests use it to inject write failures.
func NewTxStore(q DBTX) *Store {
	return &Store{q: q, inTx: true}
}

// DB exposes the underlying database.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Plans() repository.PlanRepository { return &planRepo{q: s.q} }

func (s *Store) Periodizations() repository.PeriodizationRepository {
	return &periodizationRepo{q: s.q}
}

func (s *Store) Assignments() repository.AssignmentRepository { return &assignmentRepo{q: s.q} }

func (s *Store) Tournaments() repository.TournamentRepository { return &tournamentRepo{q: s.q} }

func (s *Store) ChangeLog() repository.ChangeLogRepository { return &changeLogRepo{q: s.q} }

func (s *Store) BreakingPoints() repository.BreakingPointRepository {
	return &breakingPointRepo{q: s.q}
}

func (s *Store) Completions() repository.CompletionRepository { return &completionRepo{q: s.q} }

func (s *Store) Templates() repository.TemplateRepository { return &templateRepo{q: s.q} }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, &Store{db: s.db, q: tx, inTx: true}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
