package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

// Error constants for the repository layer. Services translate them into
// domain errors carrying the entity and key.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanRepository stores annual plans. At most one plan per player may be
// active; Create and Update return ErrDuplicate when that would break.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.AnnualPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AnnualPlan, error)
	GetActiveByPlayer(ctx context.Context, playerID primitive.ObjectID) (*domain.AnnualPlan, error)
	ListByPlayer(ctx context.Context, playerID primitive.ObjectID) ([]domain.AnnualPlan, error)
	ListByStatus(ctx context.Context, status domain.PlanStatus) ([]domain.AnnualPlan, error)
	Update(ctx context.Context, plan *domain.AnnualPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PeriodizationRepository stores one row per (plan, player, week).
type PeriodizationRepository interface {
	// CreateIfAbsent inserts w unless its week already exists. A lost insert
	// race reports created=false, not an error.
	CreateIfAbsent(ctx context.Context, w *domain.WeekPeriodization) (created bool, err error)
	GetByWeek(ctx context.Context, planID primitive.ObjectID, week int) (*domain.WeekPeriodization, error)
	ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.WeekPeriodization, error)
	Update(ctx context.Context, w *domain.WeekPeriodization) error
	DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error
}

// AssignmentRepository stores daily assignments, unique per
// (plan, date, session type). List results are ordered by date then type.
type AssignmentRepository interface {
	CreateIfAbsent(ctx context.Context, a *domain.DailyAssignment) (created bool, err error)
	Create(ctx context.Context, a *domain.DailyAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyAssignment, error)
	ListByDate(ctx context.Context, planID primitive.ObjectID, date time.Time) ([]domain.DailyAssignment, error)
	ListByRange(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error)
	ListByWeek(ctx context.Context, planID primitive.ObjectID, week int) ([]domain.DailyAssignment, error)
	Update(ctx context.Context, a *domain.DailyAssignment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error
}

// TournamentRepository stores events scheduled against a plan.
type TournamentRepository interface {
	Create(ctx context.Context, t *domain.ScheduledTournament) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduledTournament, error)
	ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.ScheduledTournament, error)
	Update(ctx context.Context, t *domain.ScheduledTournament) error
	DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error
}

// ChangeLogRepository is append-only. ListByPlan returns entries oldest first.
type ChangeLogRepository interface {
	Append(ctx context.Context, e *domain.ChangeLogEntry) error
	ListByPlan(ctx context.Context, planID primitive.ObjectID) ([]domain.ChangeLogEntry, error)
	DeleteByPlan(ctx context.Context, planID primitive.ObjectID) error
}

// BreakingPointRepository stores a player's improvement-tracking records.
type BreakingPointRepository interface {
	Create(ctx context.Context, bp *domain.BreakingPoint) (primitive.ObjectID, error)
	ListByPlayer(ctx context.Context, playerID primitive.ObjectID) ([]domain.BreakingPoint, error)
	CountByPlayer(ctx context.Context, playerID primitive.ObjectID) (int, error)
	Update(ctx context.Context, bp *domain.BreakingPoint) error
}

// CompletionRepository stores session completion events, unique by event id.
type CompletionRepository interface {
	CreateIfAbsent(ctx context.Context, c *domain.SessionCompletion) (created bool, err error)
	ListByAssignments(ctx context.Context, ids []primitive.ObjectID) ([]domain.SessionCompletion, error)
}

// TemplateRepository backs the session template catalog.
type TemplateRepository interface {
	Create(ctx context.Context, t *domain.SessionTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionTemplate, error)
	List(ctx context.Context) ([]domain.SessionTemplate, error)
}

// Store groups the repositories of one backend. WithinTx runs fn against a
// store whose writes commit together or not at all; fn must only use the tx
// store it is given. Nested calls join the outer transaction.
type Store interface {
	Plans() PlanRepository
	Periodizations() PeriodizationRepository
	Assignments() AssignmentRepository
	Tournaments() TournamentRepository
	ChangeLog() ChangeLogRepository
	BreakingPoints() BreakingPointRepository
	Completions() CompletionRepository
	Templates() TemplateRepository

	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
