package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/planner"
	"alcyxob/annual-plan/internal/repository"
)

// CompletionInput is one event from the session completion feed. An empty
// EventID gets a fresh one, which makes the event non-idempotent.
type CompletionInput struct {
	EventID         string
	PlayerID        primitive.ObjectID
	AssignmentID    *primitive.ObjectID
	DurationMinutes int
	CompletedAt     time.Time
}

// CompletionResult reports the effects of a completion event.
type CompletionResult struct {
	Completion     *domain.SessionCompletion
	Duplicate      bool
	Assignment     *domain.DailyAssignment
	BreakingPoints []domain.BreakingPoint // the records that advanced
}

type ProgressService interface {
	WeekSummary(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, week int) (*domain.ProgressSummary, error)
	MonthSummary(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, year int, month time.Month) (*domain.ProgressSummary, error)
	RecordCompletion(ctx context.Context, actor domain.Actor, in CompletionInput) (*CompletionResult, error)
	CreateBreakingPoint(ctx context.Context, actor domain.Actor, playerID primitive.ObjectID, title, description string) (*domain.BreakingPoint, error)
	ListBreakingPoints(ctx context.Context, actor domain.Actor, playerID primitive.ObjectID) ([]domain.BreakingPoint, error)
}

type progressService struct {
	store  repository.Store
	now    Clock
	logger *slog.Logger
}

func NewProgressService(store repository.Store, now Clock, logger *slog.Logger) ProgressService {
	return &progressService{store: store, now: now, logger: logger}
}

func (s *progressService) WeekSummary(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, week int) (*domain.ProgressSummary, error) {
	plan, err := loadPlan(ctx, s.store, actor, planID)
	if err != nil {
		return nil, err
	}
	if week < 1 || week > plan.TotalWeeks() {
		return nil, domain.NewValidationError("week", "%d outside 1..%d", week, plan.TotalWeeks())
	}
	return summarize(ctx, s.store, plan, plan.WeekStart(week), plan.WeekEnd(week))
}

func (s *progressService) MonthSummary(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, year int, month time.Month) (*domain.ProgressSummary, error) {
	if month < time.January || month > time.December {
		return nil, domain.NewValidationError("month", "must be 1..12")
	}
	plan, err := loadPlan(ctx, s.store, actor, planID)
	if err != nil {
		return nil, err
	}
	from, to, ok := planner.MonthWindow(plan, year, month)
	if !ok {
		return nil, domain.NewValidationError("month", "%d-%02d is outside the plan", year, month)
	}
	return summarize(ctx, s.store, plan, from, to)
}

// summarize rolls up [from, to], using reported durations where completion
// events supplied them.
func summarize(ctx context.Context, store repository.Store, plan *domain.AnnualPlan, from, to time.Time) (*domain.ProgressSummary, error) {
	assignments, err := store.Assignments().ListByRange(ctx, plan.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		if a.Status == domain.StatusCompleted {
			ids = append(ids, a.ID)
		}
	}
	completions, err := store.Completions().ListByAssignments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}
	actual := make(map[primitive.ObjectID]int, len(completions))
	for _, c := range completions {
		if c.AssignmentID != nil {
			actual[*c.AssignmentID] += c.DurationMinutes
		}
	}

	summary := planner.Summarize(plan.ID, from, to, assignments, actual)
	return &summary, nil
}

// RecordCompletion stores a completion event, completes the linked
// assignment and advances the player's open breaking points. A redelivered
// event changes nothing.
func (s *progressService) RecordCompletion(ctx context.Context, actor domain.Actor, in CompletionInput) (*CompletionResult, error) {
	if actor.IsPlayer() {
		if !in.PlayerID.IsZero() && in.PlayerID != actor.ID {
			return nil, &domain.ForbiddenError{Actor: actor, Action: "record sessions for " + in.PlayerID.Hex()}
		}
		in.PlayerID = actor.ID
	}
	if in.PlayerID.IsZero() {
		return nil, domain.NewValidationError("playerId", "required")
	}
	if in.DurationMinutes < 0 || in.DurationMinutes > planner.MaxSessionMinutes {
		return nil, domain.NewValidationError("durationMinutes", "%d outside [0,%d]", in.DurationMinutes, planner.MaxSessionMinutes)
	}
	in.EventID = strings.TrimSpace(in.EventID)
	if in.EventID == "" {
		in.EventID = uuid.NewString()
	}
	now := s.now()
	if in.CompletedAt.IsZero() {
		in.CompletedAt = now
	}

	res := &CompletionResult{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		c := &domain.SessionCompletion{
			EventID:         in.EventID,
			PlayerID:        in.PlayerID,
			AssignmentID:    in.AssignmentID,
			DurationMinutes: in.DurationMinutes,
			CompletedAt:     in.CompletedAt.UTC(),
		}
		res.Completion = c

		if in.AssignmentID != nil {
			a, err := tx.Assignments().GetByID(ctx, *in.AssignmentID)
			if err != nil {
				return translate(err, "assignment", in.AssignmentID.Hex())
			}
			if a.PlayerID != in.PlayerID {
				return domain.NewValidationError("assignmentId", "assignment %s belongs to another player", a.ID.Hex())
			}
			res.Assignment = a
		}

		created, err := tx.Completions().CreateIfAbsent(ctx, c)
		if err != nil {
			return fmt.Errorf("storing completion: %w", err)
		}
		if !created {
			res.Duplicate = true
			return nil
		}

		if a := res.Assignment; a != nil && a.Status != domain.StatusCompleted {
			a.Status = domain.StatusCompleted
			if err := tx.Assignments().Update(ctx, a); err != nil {
				return translate(err, "assignment", a.ID.Hex())
			}
		}

		bps, err := tx.BreakingPoints().ListByPlayer(ctx, in.PlayerID)
		if err != nil {
			return fmt.Errorf("loading breaking points: %w", err)
		}
		for i := range bps {
			if !bps[i].ApplySession(now) {
				continue
			}
			if err := tx.BreakingPoints().Update(ctx, &bps[i]); err != nil {
				return translate(err, "breaking point", bps[i].ID.Hex())
			}
			res.BreakingPoints = append(res.BreakingPoints, bps[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session completion recorded",
		slog.String("event_id", in.EventID),
		slog.String("player_id", in.PlayerID.Hex()),
		slog.Bool("duplicate", res.Duplicate),
		slog.Int("breaking_points", len(res.BreakingPoints)))
	return res, nil
}

func (s *progressService) CreateBreakingPoint(ctx context.Context, actor domain.Actor, playerID primitive.ObjectID, title, description string) (*domain.BreakingPoint, error) {
	if err := authorize(actor, playerID, "track breaking points of "+playerID.Hex()); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("title", "required")
	}
	bp := &domain.BreakingPoint{
		PlayerID:    playerID,
		Title:       title,
		Description: description,
		Status:      domain.BreakingPointInProgress,
	}
	if _, err := s.store.BreakingPoints().Create(ctx, bp); err != nil {
		return nil, fmt.Errorf("creating breaking point: %w", err)
	}
	return bp, nil
}

func (s *progressService) ListBreakingPoints(ctx context.Context, actor domain.Actor, playerID primitive.ObjectID) ([]domain.BreakingPoint, error) {
	if err := authorize(actor, playerID, "read breaking points of "+playerID.Hex()); err != nil {
		return nil, err
	}
	out, err := s.store.BreakingPoints().ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("listing breaking points: %w", err)
	}
	return out, nil
}
