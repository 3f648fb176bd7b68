package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"alcyxob/annual-plan/internal/repository"
)

// Store implements repository.Store on MongoDB. Transactions need a replica
// set or sharded cluster.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	inTx   bool
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a store over the named database.
func NewStore(client *mongo.Client, dbName string) *Store {
	return &Store{client: client, db: client.Database(dbName)}
}

// Database exposes the underlying database handle.
func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) Plans() repository.PlanRepository { return NewMongoPlanRepository(s.db) }

func (s *Store) Periodizations() repository.PeriodizationRepository {
	return NewMongoPeriodizationRepository(s.db)
}

func (s *Store) Assignments() repository.AssignmentRepository {
	return NewMongoAssignmentRepository(s.db)
}

func (s *Store) Tournaments() repository.TournamentRepository {
	return NewMongoTournamentRepository(s.db)
}

func (s *Store) ChangeLog() repository.ChangeLogRepository { return NewMongoChangeLogRepository(s.db) }

func (s *Store) BreakingPoints() repository.BreakingPointRepository {
	return NewMongoBreakingPointRepository(s.db)
}

func (s *Store) Completions() repository.CompletionRepository {
	return NewMongoCompletionRepository(s.db)
}

func (s *Store) Templates() repository.TemplateRepository { return NewMongoTemplateRepository(s.db) }

// WithinTx runs fn in a multi-document transaction. The session context
// passed to fn carries the transaction, so repositories join it as long as
// they are called with that context.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	tx := &Store{client: s.client, db: s.db, inTx: true}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, tx)
	})
	return err
}
