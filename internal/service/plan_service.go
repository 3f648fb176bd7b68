package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/planner"
	"alcyxob/annual-plan/internal/repository"
)

// PlanDefaults fill in what a create request leaves out.
type PlanDefaults struct {
	Mode        domain.GenerationMode
	RestWeekday time.Weekday
}

// CreatePlanInput carries either Periods (player authored) or PhaseWeeks
// (coach generated).
type CreatePlanInput struct {
	PlayerID          primitive.ObjectID
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	WeeklyHoursTarget int
	Mode              domain.GenerationMode
	Periods           []domain.Period
	PhaseWeeks        *domain.PhaseWeeks
	RestWeekday       *time.Weekday
}

// GenerationResult reports what a generation pass inserted.
type GenerationResult struct {
	Plan         *domain.AnnualPlan
	WeeksCreated int
	DaysCreated  int
}

type PlanService interface {
	CreatePlan(ctx context.Context, actor domain.Actor, in CreatePlanInput) (*domain.AnnualPlan, error)
	GetPlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*domain.AnnualPlan, error)
	ListPlansForPlayer(ctx context.Context, actor domain.Actor, playerID primitive.ObjectID) ([]domain.AnnualPlan, error)
	DeletePlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) error
	GeneratePlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*GenerationResult, error)
	GetPeriodization(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) ([]domain.WeekPeriodization, error)
	ListAssignments(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error)
}

type planService struct {
	store    repository.Store
	rng      planner.Rand
	defaults PlanDefaults
	now      Clock
	logger   *slog.Logger
}

func NewPlanService(store repository.Store, rng planner.Rand, defaults PlanDefaults, now Clock, logger *slog.Logger) PlanService {
	if !defaults.Mode.Valid() {
		defaults.Mode = domain.ModeStructural
	}
	return &planService{store: store, rng: rng, defaults: defaults, now: now, logger: logger}
}

func (s *planService) CreatePlan(ctx context.Context, actor domain.Actor, in CreatePlanInput) (*domain.AnnualPlan, error) {
	plan, err := s.buildPlan(actor, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Plans().GetActiveByPlayer(ctx, plan.PlayerID); err == nil {
		return nil, &domain.ConflictError{Entity: "plan", Key: plan.PlayerID.Hex(), Reason: "player already has an active plan"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking active plan: %w", err)
	}

	if _, err := s.store.Plans().Create(ctx, plan); err != nil {
		return nil, translate(err, "plan", plan.PlayerID.Hex())
	}
	s.logger.InfoContext(ctx, "plan created",
		slog.String("plan_id", plan.ID.Hex()),
		slog.String("actor", actor.String()),
		slog.String("mode", string(plan.Mode)))
	return plan, nil
}

func (s *planService) buildPlan(actor domain.Actor, in CreatePlanInput) (*domain.AnnualPlan, error) {
	playerID := in.PlayerID
	var coachID *primitive.ObjectID
	switch {
	case actor.IsPlayer():
		if !playerID.IsZero() && playerID != actor.ID {
			return nil, &domain.ForbiddenError{Actor: actor, Action: "create a plan for " + playerID.Hex()}
		}
		playerID = actor.ID
	case actor.IsCoach():
		if playerID.IsZero() {
			return nil, domain.NewValidationError("playerId", "required")
		}
		id := actor.ID
		coachID = &id
	default:
		return nil, &domain.ForbiddenError{Actor: actor, Action: "create a plan"}
	}

	plan := &domain.AnnualPlan{
		PlayerID:          playerID,
		CoachID:           coachID,
		Name:              strings.TrimSpace(in.Name),
		StartDate:         domain.DateOnly(in.StartDate),
		EndDate:           domain.DateOnly(in.EndDate),
		Status:            domain.PlanDraft,
		WeeklyHoursTarget: in.WeeklyHoursTarget,
		Mode:              in.Mode,
		RestWeekday:       s.defaults.RestWeekday,
		LastModifiedAt:    s.now(),
	}
	if plan.Name == "" {
		plan.Name = fmt.Sprintf("%d season", plan.StartDate.Year())
	}
	if plan.Mode == "" {
		plan.Mode = s.defaults.Mode
	}
	if !plan.Mode.Valid() {
		return nil, domain.NewValidationError("mode", "unknown generation mode %q", in.Mode)
	}
	if in.RestWeekday != nil {
		if *in.RestWeekday < time.Sunday || *in.RestWeekday > time.Saturday {
			return nil, domain.NewValidationError("restWeekday", "must be 0..6")
		}
		plan.RestWeekday = *in.RestWeekday
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, domain.NewValidationError("startDate", "start and end dates are required")
	}
	if !plan.EndDate.After(plan.StartDate) {
		return nil, domain.NewValidationError("endDate", "must be after start date")
	}
	if plan.WeeklyHoursTarget < 0 {
		return nil, domain.NewValidationError("weeklyHoursTarget", "must not be negative")
	}

	if len(in.Periods) > 0 && in.PhaseWeeks != nil {
		return nil, domain.NewValidationError("periods", "give either periods or phase weeks, not both")
	}
	if len(in.Periods) > 0 {
		periods, err := preparePeriods(plan, in.Periods)
		if err != nil {
			return nil, err
		}
		plan.Periods = periods
	}
	if in.PhaseWeeks != nil {
		if _, err := planner.WindowsFromPhaseWeeks(plan.TotalWeeks(), *in.PhaseWeeks); err != nil {
			return nil, err
		}
		pw := *in.PhaseWeeks
		plan.PhaseWeeks = &pw
	}
	if plan.Mode == domain.ModeStructural && plan.Periods == nil && plan.PhaseWeeks == nil {
		return nil, domain.NewValidationError("periods", "structural plans need periods or phase weeks")
	}
	return plan, nil
}

// preparePeriods normalizes, sorts and validates periods against the plan span.
func preparePeriods(plan *domain.AnnualPlan, in []domain.Period) ([]domain.Period, error) {
	periods := make([]domain.Period, len(in))
	for i, p := range in {
		if !p.Type.Valid() {
			return nil, domain.NewValidationError(fmt.Sprintf("periods[%d].type", i), "unknown period type %q", p.Type)
		}
		p.StartDate = domain.DateOnly(p.StartDate)
		p.EndDate = domain.DateOnly(p.EndDate)
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Name == "" {
			p.Name = string(p.Type)
		}
		periods[i] = p
	}
	sort.SliceStable(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })

	if err := planner.ValidatePeriods(periods); err != nil {
		return nil, err
	}
	for _, p := range periods {
		if !plan.Contains(p.StartDate) || !plan.Contains(p.EndDate) {
			return nil, domain.NewValidationError("periods", "period %q lies outside the plan", p.Name)
		}
	}
	return periods, nil
}

func (s *planService) GetPlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*domain.AnnualPlan, error) {
	return loadPlan(ctx, s.store, actor, planID)
}

func (s *planService) ListPlansForPlayer(ctx context.Context, actor domain.Actor, playerID primitive.ObjectID) ([]domain.AnnualPlan, error) {
	if err := authorize(actor, playerID, "list plans of "+playerID.Hex()); err != nil {
		return nil, err
	}
	plans, err := s.store.Plans().ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return plans, nil
}

// DeletePlan removes the plan and everything it owns. Completion events
// stay; they belong to the player.
func (s *planService) DeletePlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := loadPlan(ctx, tx, actor, planID); err != nil {
			return err
		}
		if err := tx.Assignments().DeleteByPlan(ctx, planID); err != nil {
			return fmt.Errorf("deleting assignments: %w", err)
		}
		if err := tx.Periodizations().DeleteByPlan(ctx, planID); err != nil {
			return fmt.Errorf("deleting periodization: %w", err)
		}
		if err := tx.Tournaments().DeleteByPlan(ctx, planID); err != nil {
			return fmt.Errorf("deleting tournaments: %w", err)
		}
		if err := tx.ChangeLog().DeleteByPlan(ctx, planID); err != nil {
			return fmt.Errorf("deleting change log: %w", err)
		}
		return translate(tx.Plans().Delete(ctx, planID), "plan", planID.Hex())
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "plan deleted", slog.String("plan_id", planID.Hex()), slog.String("actor", actor.String()))
	return nil
}

// GeneratePlan materializes weekly periodization and then daily assignments.
// Both passes only insert what is missing, so a failed or concurrent run is
// repaired by running again. GeneratedAt is stamped once both passes finish.
func (s *planService) GeneratePlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*GenerationResult, error) {
	plan, err := loadPlan(ctx, s.store, actor, planID)
	if err != nil {
		return nil, err
	}
	res := &GenerationResult{Plan: plan}

	weeks, err := planner.GenerateWeeks(plan, s.rng)
	if err != nil {
		return nil, err
	}
	for i := range weeks {
		created, err := s.store.Periodizations().CreateIfAbsent(ctx, &weeks[i])
		if err != nil {
			return nil, fmt.Errorf("generating week %d: %w", weeks[i].WeekNumber, err)
		}
		if created {
			res.WeeksCreated++
		}
	}

	stored, err := s.store.Periodizations().ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading periodization: %w", err)
	}
	byWeek := make(map[int]domain.WeekPeriodization, len(stored))
	for _, w := range stored {
		byWeek[w.WeekNumber] = w
	}

	days, err := planner.GenerateDays(plan, byWeek, s.rng, s.now())
	if err != nil {
		return nil, err
	}
	existing, err := s.store.Assignments().ListByRange(ctx, planID, domain.DateOnly(plan.StartDate), domain.DateOnly(plan.EndDate))
	if err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}
	// a date with any row is left alone, edited or not
	filled := make(map[string]bool, len(existing))
	for _, a := range existing {
		filled[a.AssignedDate.Format(domain.DateLayout)] = true
	}
	for i := range days {
		if filled[days[i].AssignedDate.Format(domain.DateLayout)] {
			continue
		}
		created, err := s.store.Assignments().CreateIfAbsent(ctx, &days[i])
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", days[i].AssignedDate.Format(domain.DateLayout), err)
		}
		if created {
			res.DaysCreated++
		}
	}

	now := s.now()
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		p, err := tx.Plans().GetByID(ctx, planID)
		if err != nil {
			return translate(err, "plan", planID.Hex())
		}
		p.GeneratedAt = &now
		payload := map[string]any{"weeksCreated": res.WeeksCreated, "daysCreated": res.DaysCreated}
		if err := recordChange(ctx, tx, p, actor, domain.ChangeGenerate, payload, now); err != nil {
			return err
		}
		res.Plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "plan generated",
		slog.String("plan_id", planID.Hex()),
		slog.String("actor", actor.String()),
		slog.Int("weeks_created", res.WeeksCreated),
		slog.Int("days_created", res.DaysCreated))
	return res, nil
}

func (s *planService) GetPeriodization(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) ([]domain.WeekPeriodization, error) {
	if _, err := loadPlan(ctx, s.store, actor, planID); err != nil {
		return nil, err
	}
	weeks, err := s.store.Periodizations().ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("listing periodization: %w", err)
	}
	return weeks, nil
}

// ListAssignments returns the assignments in [from, to]. Zero bounds default
// to the plan span.
func (s *planService) ListAssignments(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error) {
	plan, err := loadPlan(ctx, s.store, actor, planID)
	if err != nil {
		return nil, err
	}
	if from.IsZero() {
		from = plan.StartDate
	}
	if to.IsZero() {
		to = plan.EndDate
	}
	if to.Before(from) {
		return nil, domain.NewValidationError("to", "must not be before from")
	}
	out, err := s.store.Assignments().ListByRange(ctx, planID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	return out, nil
}
