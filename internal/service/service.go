package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

// Clock returns the current time. Tests freeze it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// translate turns repository errors into domain errors carrying entity and key.
func translate(err error, entity, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return &domain.NotFoundError{Entity: entity, Key: key}
	case errors.Is(err, repository.ErrDuplicate):
		return &domain.ConflictError{Entity: entity, Key: key, Reason: "already exists"}
	default:
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}
}

func dateKey(planID primitive.ObjectID, date time.Time) string {
	return planID.Hex() + "/" + date.Format(domain.DateLayout)
}

func weekKey(planID primitive.ObjectID, week int) string {
	return fmt.Sprintf("%s/week-%d", planID.Hex(), week)
}

// loadPlan fetches a plan and checks the actor may touch it. Coaches may
// touch every plan, players only their own.
func loadPlan(ctx context.Context, store repository.Store, actor domain.Actor, planID primitive.ObjectID) (*domain.AnnualPlan, error) {
	plan, err := store.Plans().GetByID(ctx, planID)
	if err != nil {
		return nil, translate(err, "plan", planID.Hex())
	}
	if err := authorize(actor, plan.PlayerID, "access plan "+planID.Hex()); err != nil {
		return nil, err
	}
	return plan, nil
}

func authorize(actor domain.Actor, playerID primitive.ObjectID, action string) error {
	if actor.IsCoach() || (actor.IsPlayer() && actor.ID == playerID) {
		return nil
	}
	return &domain.ForbiddenError{Actor: actor, Action: action}
}

func requireCoach(actor domain.Actor, action string) error {
	if actor.IsCoach() {
		return nil
	}
	return &domain.ForbiddenError{Actor: actor, Action: action}
}

// recordChange appends the audit entry and touches the plan. It must run in
// the same transaction as the mutation it records.
func recordChange(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan, actor domain.Actor, change domain.ChangeType, payload map[string]any, now time.Time) error {
	entry := &domain.ChangeLogEntry{
		PlanID:     plan.ID,
		Actor:      actor,
		ChangeType: change,
		Payload:    payload,
		CreatedAt:  now,
	}
	if err := tx.ChangeLog().Append(ctx, entry); err != nil {
		return fmt.Errorf("appending change log: %w", err)
	}
	plan.LastModifiedAt = now
	if err := tx.Plans().Update(ctx, plan); err != nil {
		return translate(err, "plan", plan.ID.Hex())
	}
	return nil
}

func logChange(ctx context.Context, logger *slog.Logger, plan *domain.AnnualPlan, actor domain.Actor, change domain.ChangeType) {
	logger.InfoContext(ctx, "plan changed",
		slog.String("plan_id", plan.ID.Hex()),
		slog.String("actor", actor.String()),
		slog.String("change_type", string(change)))
}
