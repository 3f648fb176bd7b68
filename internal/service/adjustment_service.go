package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/planner"
	"alcyxob/annual-plan/internal/repository"
)

// Selector picks the assignments of a bulk update: a week or a date range,
// never both.
type Selector struct {
	Week *int
	From *time.Time
	To   *time.Time
}

func (s Selector) payload() map[string]any {
	if s.Week != nil {
		return map[string]any{"week": *s.Week}
	}
	return map[string]any{"from": s.From.Format(domain.DateLayout), "to": s.To.Format(domain.DateLayout)}
}

// TournamentInput schedules a new tournament. Zero durations take the
// importance defaults.
type TournamentInput struct {
	Name                 string
	StartDate            time.Time
	EndDate              time.Time
	Importance           domain.Importance
	ToppingDurationWeeks int
	TaperingDurationDays int
}

// VolumeResult is the outcome of a weekly volume change.
type VolumeResult struct {
	Week        *domain.WeekPeriodization
	Assignments []domain.DailyAssignment
	Sessions    int
}

// AdjustmentService edits generated calendar data. Every method runs in one
// transaction with its change log entry.
type AdjustmentService interface {
	UpdateSingleAssignment(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, date time.Time, patch domain.AssignmentPatch) (*domain.DailyAssignment, error)
	BulkUpdate(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, sel Selector, patch domain.AssignmentPatch) ([]domain.DailyAssignment, error)
	Swap(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, date1, date2 time.Time) ([]domain.DailyAssignment, error)
	InsertRestDay(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, date time.Time, reason string) (*domain.DailyAssignment, error)
	RemoveRestDay(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, date time.Time, templateID primitive.ObjectID) (*domain.DailyAssignment, error)
	AdjustWeeklyVolume(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, week, hours int) (*VolumeResult, error)
	ChangePeriodType(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, week int, period domain.PeriodCode) (*domain.WeekPeriodization, error)
	ScheduleTournament(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, in TournamentInput) (*domain.ScheduledTournament, error)
	RescheduleTournament(ctx context.Context, actor domain.Actor, planID, tournamentID primitive.ObjectID, start, end time.Time) (*domain.ScheduledTournament, error)
	ListTournaments(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) ([]domain.ScheduledTournament, error)
	GetChangeHistory(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) ([]domain.ChangeLogEntry, error)
}

type adjustmentService struct {
	store  repository.Store
	now    Clock
	logger *slog.Logger
}

func NewAdjustmentService(store repository.Store, now Clock, logger *slog.Logger) AdjustmentService {
	return &adjustmentService{store: store, now: now, logger: logger}
}

// mutate loads the plan inside a transaction, runs fn and records the change.
// fn returns the change log payload.
func (s *adjustmentService) mutate(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, change domain.ChangeType,
	fn func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error)) error {
	var plan *domain.AnnualPlan
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		if plan, err = loadPlan(ctx, tx, actor, planID); err != nil {
			return err
		}
		payload, err := fn(ctx, tx, plan)
		if err != nil {
			return err
		}
		return recordChange(ctx, tx, plan, actor, change, payload, s.now())
	})
	if err != nil {
		return err
	}
	logChange(ctx, s.logger, plan, actor, change)
	return nil
}

// primaryOn finds the assignment a date-addressed edit works on.
func primaryOn(ctx context.Context, tx repository.Store, planID primitive.ObjectID, date time.Time) (domain.DailyAssignment, []domain.DailyAssignment, error) {
	day, err := tx.Assignments().ListByDate(ctx, planID, date)
	if err != nil {
		return domain.DailyAssignment{}, nil, fmt.Errorf("loading %s: %w", date.Format(domain.DateLayout), err)
	}
	primary, ok := planner.Primary(day)
	if !ok {
		return domain.DailyAssignment{}, nil, &domain.NotFoundError{Entity: "assignment", Key: dateKey(planID, date)}
	}
	return primary, day, nil
}

func resolveTemplate(ctx context.Context, tx repository.Store, id *primitive.ObjectID) (*domain.SessionTemplate, error) {
	if id == nil {
		return nil, nil
	}
	tmpl, err := tx.Templates().GetByID(ctx, *id)
	if err != nil {
		return nil, translate(err, "template", id.Hex())
	}
	return tmpl, nil
}

func saveAssignment(ctx context.Context, tx repository.Store, a *domain.DailyAssignment) error {
	if err := tx.Assignments().Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return &domain.ConflictError{Entity: "assignment", Key: dateKey(a.PlanID, a.AssignedDate),
				Reason: fmt.Sprintf("a %s session already exists that day", a.SessionType)}
		}
		return translate(err, "assignment", a.ID.Hex())
	}
	return nil
}

func (s *adjustmentService) UpdateSingleAssignment(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, date time.Time, patch domain.AssignmentPatch) (*domain.DailyAssignment, error) {
	if err := planner.ValidatePatch(patch); err != nil {
		return nil, err
	}
	date = domain.DateOnly(date)

	var out domain.DailyAssignment
	err := s.mutate(ctx, actor, planID, domain.ChangeSingleAssignment, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		base, _, err := primaryOn(ctx, tx, planID, date)
		if err != nil {
			return nil, err
		}
		tmpl, err := resolveTemplate(ctx, tx, patch.TemplateID)
		if err != nil {
			return nil, err
		}
		out = planner.MergeAssignment(base, patch, tmpl)
		if err := saveAssignment(ctx, tx, &out); err != nil {
			return nil, err
		}
		return map[string]any{
			"date":        date.Format(domain.DateLayout),
			"assignment":  out.ID.Hex(),
			"sessionType": string(out.SessionType),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *adjustmentService) BulkUpdate(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, sel Selector, patch domain.AssignmentPatch) ([]domain.DailyAssignment, error) {
	if err := checkSelector(sel); err != nil {
		return nil, err
	}
	if err := planner.ValidatePatch(patch); err != nil {
		return nil, err
	}

	var out []domain.DailyAssignment
	err := s.mutate(ctx, actor, planID, domain.ChangeBulkUpdate, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		var (
			matched []domain.DailyAssignment
			err     error
		)
		if sel.Week != nil {
			if *sel.Week < 1 || *sel.Week > plan.TotalWeeks() {
				return nil, &domain.InvalidSelectorError{Reason: fmt.Sprintf("week %d outside 1..%d", *sel.Week, plan.TotalWeeks())}
			}
			matched, err = tx.Assignments().ListByWeek(ctx, planID, *sel.Week)
		} else {
			matched, err = tx.Assignments().ListByRange(ctx, planID, domain.DateOnly(*sel.From), domain.DateOnly(*sel.To))
		}
		if err != nil {
			return nil, fmt.Errorf("selecting assignments: %w", err)
		}

		tmpl, err := resolveTemplate(ctx, tx, patch.TemplateID)
		if err != nil {
			return nil, err
		}
		out = make([]domain.DailyAssignment, 0, len(matched))
		for _, a := range matched {
			merged := planner.MergeAssignment(a, patch, tmpl)
			if err := saveAssignment(ctx, tx, &merged); err != nil {
				return nil, err
			}
			out = append(out, merged)
		}

		payload := sel.payload()
		payload["count"] = len(out)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func checkSelector(sel Selector) error {
	hasRange := sel.From != nil || sel.To != nil
	switch {
	case sel.Week == nil && !hasRange:
		return &domain.InvalidSelectorError{Reason: "neither week nor date range given"}
	case sel.Week != nil && hasRange:
		return &domain.InvalidSelectorError{Reason: "week and date range are mutually exclusive"}
	case hasRange && (sel.From == nil || sel.To == nil):
		return &domain.InvalidSelectorError{Reason: "date range needs both from and to"}
	case hasRange && sel.To.Before(*sel.From):
		return &domain.InvalidSelectorError{Reason: "date range ends before it starts"}
	}
	return nil
}

// Swap exchanges the sessions of two dates. Swapping the same pair again
// restores the original state.
func (s *adjustmentService) Swap(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, date1, date2 time.Time) ([]domain.DailyAssignment, error) {
	date1, date2 = domain.DateOnly(date1), domain.DateOnly(date2)
	if date1.Equal(date2) {
		return nil, domain.NewValidationError("date2", "cannot swap a date with itself")
	}

	var out []domain.DailyAssignment
	err := s.mutate(ctx, actor, planID, domain.ChangeSwap, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		a, _, err := primaryOn(ctx, tx, planID, date1)
		if err != nil {
			return nil, err
		}
		b, _, err := primaryOn(ctx, tx, planID, date2)
		if err != nil {
			return nil, err
		}
		a, b = planner.SwapSessions(a, b)
		if err := saveAssignment(ctx, tx, &a); err != nil {
			return nil, err
		}
		if err := saveAssignment(ctx, tx, &b); err != nil {
			return nil, err
		}
		out = []domain.DailyAssignment{a, b}
		return map[string]any{"date1": date1.Format(domain.DateLayout), "date2": date2.Format(domain.DateLayout)}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InsertRestDay turns the date into a rest day. Other sessions on the date
// are removed; a date without assignments gets a new rest record.
func (s *adjustmentService) InsertRestDay(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, date time.Time, reason string) (*domain.DailyAssignment, error) {
	date = domain.DateOnly(date)

	var out domain.DailyAssignment
	err := s.mutate(ctx, actor, planID, domain.ChangeInsertRestDay, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		if !plan.Contains(date) {
			return nil, domain.NewValidationError("date", "%s is outside the plan", date.Format(domain.DateLayout))
		}
		payload := map[string]any{"date": date.Format(domain.DateLayout), "reason": reason}

		primary, day, err := primaryOn(ctx, tx, planID, date)
		var nf *domain.NotFoundError
		switch {
		case errors.As(err, &nf):
			out, err = s.newRestDay(ctx, tx, plan, date, reason)
			if err != nil {
				return nil, err
			}
			payload["created"] = true
			return payload, nil
		case err != nil:
			return nil, err
		}

		for _, other := range day {
			if other.ID == primary.ID {
				continue
			}
			if err := tx.Assignments().Delete(ctx, other.ID); err != nil {
				return nil, translate(err, "assignment", other.ID.Hex())
			}
		}
		primary.MakeRest(reason)
		if err := saveAssignment(ctx, tx, &primary); err != nil {
			return nil, err
		}
		out = primary
		payload["removed"] = len(day) - 1
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *adjustmentService) newRestDay(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan, date time.Time, reason string) (domain.DailyAssignment, error) {
	week := plan.WeekOf(date)
	a := domain.DailyAssignment{
		PlanID:       plan.ID,
		PlayerID:     plan.PlayerID,
		AssignedDate: date,
		WeekNumber:   week,
		DayOfWeek:    date.Weekday(),
		Status:       domain.StatusPlanned,
	}
	if w, err := tx.Periodizations().GetByWeek(ctx, plan.ID, week); err == nil {
		a.Period = w.Period
	} else if !errors.Is(err, repository.ErrNotFound) {
		return a, fmt.Errorf("loading week %d: %w", week, err)
	}
	a.MakeRest(reason)
	if _, err := tx.Assignments().Create(ctx, &a); err != nil {
		return a, translate(err, "assignment", dateKey(plan.ID, date))
	}
	return a, nil
}

// RemoveRestDay turns a rest day back into training built from a template.
func (s *adjustmentService) RemoveRestDay(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, date time.Time, templateID primitive.ObjectID) (*domain.DailyAssignment, error) {
	if templateID.IsZero() {
		return nil, domain.NewValidationError("replacementTemplateId", "required")
	}
	date = domain.DateOnly(date)

	var out domain.DailyAssignment
	err := s.mutate(ctx, actor, planID, domain.ChangeRemoveRestDay, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		day, err := tx.Assignments().ListByDate(ctx, planID, date)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", date.Format(domain.DateLayout), err)
		}
		var rest *domain.DailyAssignment
		for i := range day {
			if day[i].IsRestDay {
				rest = &day[i]
				break
			}
		}
		if rest == nil {
			return nil, &domain.NotFoundError{Entity: "rest day", Key: dateKey(planID, date)}
		}

		tmpl, err := resolveTemplate(ctx, tx, &templateID)
		if err != nil {
			return nil, err
		}
		if tmpl.SessionType == domain.SessionRest {
			return nil, domain.NewValidationError("replacementTemplateId", "template %s is a rest template", templateID.Hex())
		}

		out = planner.ApplyTemplate(*rest, *tmpl)
		if err := saveAssignment(ctx, tx, &out); err != nil {
			return nil, err
		}
		return map[string]any{"date": date.Format(domain.DateLayout), "template": templateID.Hex()}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustWeeklyVolume sets the week's hours and spreads them evenly over its
// training sessions.
func (s *adjustmentService) AdjustWeeklyVolume(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, week, hours int) (*VolumeResult, error) {
	if err := planner.ValidateHours(hours); err != nil {
		return nil, err
	}

	res := &VolumeResult{}
	err := s.mutate(ctx, actor, planID, domain.ChangeWeeklyVolume, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		w, err := tx.Periodizations().GetByWeek(ctx, planID, week)
		if err != nil {
			return nil, translate(err, "week", weekKey(planID, week))
		}
		current, err := tx.Assignments().ListByWeek(ctx, planID, week)
		if err != nil {
			return nil, fmt.Errorf("loading week %d assignments: %w", week, err)
		}
		updated, sessions, err := planner.Redistribute(current, hours)
		if err != nil {
			return nil, err
		}

		oldHours := w.PlannedHours
		w.PlannedHours = hours
		if err := tx.Periodizations().Update(ctx, w); err != nil {
			return nil, translate(err, "week", weekKey(planID, week))
		}
		for i := range updated {
			if updated[i].IsRestDay {
				continue
			}
			if err := saveAssignment(ctx, tx, &updated[i]); err != nil {
				return nil, err
			}
		}

		res.Week, res.Assignments, res.Sessions = w, updated, sessions
		return map[string]any{"week": week, "oldHours": oldHours, "newHours": hours, "sessions": sessions}, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ChangePeriodType moves a week and all of its assignments to another phase.
func (s *adjustmentService) ChangePeriodType(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, week int, period domain.PeriodCode) (*domain.WeekPeriodization, error) {
	if !period.Valid() {
		return nil, domain.NewValidationError("period", "unknown period code %q", period)
	}

	var out *domain.WeekPeriodization
	err := s.mutate(ctx, actor, planID, domain.ChangePeriodType, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		w, err := tx.Periodizations().GetByWeek(ctx, planID, week)
		if err != nil {
			return nil, translate(err, "week", weekKey(planID, week))
		}
		from := w.Period
		w.Period = period
		w.PeriodPhase = period.Phase()
		if err := tx.Periodizations().Update(ctx, w); err != nil {
			return nil, translate(err, "week", weekKey(planID, week))
		}

		assignments, err := tx.Assignments().ListByWeek(ctx, planID, week)
		if err != nil {
			return nil, fmt.Errorf("loading week %d assignments: %w", week, err)
		}
		for i := range assignments {
			assignments[i].Period = period
			if err := saveAssignment(ctx, tx, &assignments[i]); err != nil {
				return nil, err
			}
		}
		out = w
		return map[string]any{"week": week, "from": string(from), "to": string(period), "assignments": len(assignments)}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *adjustmentService) ScheduleTournament(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, in TournamentInput) (*domain.ScheduledTournament, error) {
	var out domain.ScheduledTournament
	err := s.mutate(ctx, actor, planID, domain.ChangeScheduleTournament, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		t, err := planner.PlanTournament(plan, domain.ScheduledTournament{
			PlanID:               plan.ID,
			PlayerID:             plan.PlayerID,
			Name:                 in.Name,
			StartDate:            domain.DateOnly(in.StartDate),
			EndDate:              domain.DateOnly(in.EndDate),
			Importance:           in.Importance,
			ToppingDurationWeeks: in.ToppingDurationWeeks,
			TaperingDurationDays: in.TaperingDurationDays,
		})
		if err != nil {
			return nil, err
		}
		if _, err := tx.Tournaments().Create(ctx, &t); err != nil {
			return nil, translate(err, "tournament", t.Name)
		}
		out = t
		return map[string]any{"tournament": t.ID.Hex(), "week": t.WeekNumber, "importance": string(t.Importance)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RescheduleTournament moves a tournament and re-anchors its topping and
// tapering windows. The durations are kept.
func (s *adjustmentService) RescheduleTournament(ctx context.Context, actor domain.Actor, planID, tournamentID primitive.ObjectID, start, end time.Time) (*domain.ScheduledTournament, error) {
	var out domain.ScheduledTournament
	err := s.mutate(ctx, actor, planID, domain.ChangeRescheduleTournament, func(ctx context.Context, tx repository.Store, plan *domain.AnnualPlan) (map[string]any, error) {
		t, err := tx.Tournaments().GetByID(ctx, tournamentID)
		if err != nil {
			return nil, translate(err, "tournament", tournamentID.Hex())
		}
		if t.PlanID != planID {
			return nil, &domain.NotFoundError{Entity: "tournament", Key: tournamentID.Hex()}
		}
		oldWeek := t.WeekNumber
		moved, err := planner.RescheduleTournament(plan, *t, domain.DateOnly(start), domain.DateOnly(end))
		if err != nil {
			return nil, err
		}
		if err := tx.Tournaments().Update(ctx, &moved); err != nil {
			return nil, translate(err, "tournament", tournamentID.Hex())
		}
		out = moved
		return map[string]any{
			"tournament": tournamentID.Hex(),
			"fromWeek":   oldWeek,
			"toWeek":     moved.WeekNumber,
			"startDate":  moved.StartDate.Format(domain.DateLayout),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *adjustmentService) ListTournaments(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) ([]domain.ScheduledTournament, error) {
	if _, err := loadPlan(ctx, s.store, actor, planID); err != nil {
		return nil, err
	}
	out, err := s.store.Tournaments().ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("listing tournaments: %w", err)
	}
	return out, nil
}

func (s *adjustmentService) GetChangeHistory(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) ([]domain.ChangeLogEntry, error) {
	if _, err := loadPlan(ctx, s.store, actor, planID); err != nil {
		return nil, err
	}
	entries, err := s.store.ChangeLog().ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("listing change log: %w", err)
	}
	return entries, nil
}
