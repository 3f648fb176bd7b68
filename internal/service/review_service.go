package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/notify"
	"alcyxob/annual-plan/internal/planner"
	"alcyxob/annual-plan/internal/repository"
)

// ValidationReport is the result of a readiness check.
type ValidationReport struct {
	PlanID primitive.ObjectID `json:"planId"`
	Ready  bool               `json:"ready"`
	Issues []string           `json:"issues"`
}

// ReviewService gates a plan between draft and active use.
type ReviewService interface {
	Submit(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*domain.AnnualPlan, error)
	Approve(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, note string) (*domain.AnnualPlan, error)
	Reject(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, note string) (*domain.AnnualPlan, error)
	RequestRevision(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, note string) (*domain.AnnualPlan, error)
	ValidatePlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*ValidationReport, error)
}

type reviewService struct {
	store  repository.Store
	sink   notify.Sink
	now    Clock
	logger *slog.Logger
}

func NewReviewService(store repository.Store, sink notify.Sink, now Clock, logger *slog.Logger) ReviewService {
	return &reviewService{store: store, sink: sink, now: now, logger: logger}
}

func (s *reviewService) Submit(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*domain.AnnualPlan, error) {
	return s.transition(ctx, actor, planID, domain.PlanPendingReview, "", func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) error {
		issues, err := collectIssues(ctx, tx, plan)
		if err != nil {
			return err
		}
		if len(issues) > 0 {
			return &domain.PlanValidationError{Issues: issues}
		}
		return nil
	})
}

func (s *reviewService) Approve(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, note string) (*domain.AnnualPlan, error) {
	if err := requireCoach(actor, "approve plans"); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, planID, domain.PlanActive, note, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) error {
		active, err := tx.Plans().GetActiveByPlayer(ctx, plan.PlayerID)
		switch {
		case err == nil && active.ID != plan.ID:
			return &domain.ConflictError{Entity: "plan", Key: plan.PlayerID.Hex(),
				Reason: fmt.Sprintf("plan %s is already active", active.ID.Hex())}
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("checking active plan: %w", err)
		}
		return nil
	})
}

func (s *reviewService) Reject(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, note string) (*domain.AnnualPlan, error) {
	if err := requireCoach(actor, "reject plans"); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, planID, domain.PlanRejected, note, nil)
}

func (s *reviewService) RequestRevision(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, note string) (*domain.AnnualPlan, error) {
	if err := requireCoach(actor, "request plan revisions"); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, planID, domain.PlanNeedsRevision, note, nil)
}

// transition moves the plan to status to. guard runs inside the transaction
// after the move was found legal. The notification goes out after commit.
func (s *reviewService) transition(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, to domain.PlanStatus, note string,
	guard func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) error) (*domain.AnnualPlan, error) {
	var (
		plan *domain.AnnualPlan
		from domain.PlanStatus
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		if plan, err = loadPlan(ctx, tx, actor, planID); err != nil {
			return err
		}
		from = plan.Status
		if err := planner.Transition(from, to); err != nil {
			return err
		}
		if guard != nil {
			if err := guard(ctx, tx, plan); err != nil {
				return err
			}
		}

		plan.Status = to
		if note != "" {
			plan.ReviewNote = note
		}
		payload := map[string]any{"from": string(from), "to": string(to)}
		if note != "" {
			payload["note"] = note
		}
		err = recordChange(ctx, tx, plan, actor, domain.ChangeReviewTransition, payload, s.now())
		if errors.Is(err, domain.ErrConflict) {
			// lost a race with another approval; the partial index caught it
			return &domain.ConflictError{Entity: "plan", Key: plan.PlayerID.Hex(), Reason: "player already has an active plan"}
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logChange(ctx, s.logger, plan, actor, domain.ChangeReviewTransition)
	event := notify.Event{
		Type:       notify.EventReviewStateChanged,
		PlanID:     plan.ID,
		PlayerID:   plan.PlayerID,
		Payload:    map[string]any{"from": string(from), "to": string(to), "actor": actor.String()},
		OccurredAt: s.now(),
	}
	if note != "" {
		event.Payload["note"] = note
	}
	if err := s.sink.Notify(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "review notification failed",
			slog.String("plan_id", plan.ID.Hex()),
			slog.Any("error", err))
	}
	return plan, nil
}

func (s *reviewService) ValidatePlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*ValidationReport, error) {
	plan, err := loadPlan(ctx, s.store, actor, planID)
	if err != nil {
		return nil, err
	}
	issues, err := collectIssues(ctx, s.store, plan)
	if err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []string{}
	}
	return &ValidationReport{PlanID: planID, Ready: len(issues) == 0, Issues: issues}, nil
}

func collectIssues(ctx context.Context, store repository.Store, plan *domain.AnnualPlan) ([]string, error) {
	weeks, err := store.Periodizations().ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("loading periodization: %w", err)
	}
	assignments, err := store.Assignments().ListByRange(ctx, plan.ID, plan.StartDate, plan.EndDate)
	if err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}
	dates := make([]time.Time, len(assignments))
	for i, a := range assignments {
		dates[i] = a.AssignedDate
	}
	bps, err := store.BreakingPoints().CountByPlayer(ctx, plan.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("counting breaking points: %w", err)
	}
	return planner.ValidatePlan(planner.ReviewInput{
		Plan:           plan,
		Weeks:          weeks,
		Dates:          dates,
		BreakingPoints: bps,
	}), nil
}
