package testutil

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

// Date parses YYYY-MM-DD and panics on bad input.
func Date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Clock returns a clock frozen at t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func Player() domain.Actor { return domain.Actor{ID: primitive.NewObjectID(), Role: domain.RolePlayer} }

func Coach() domain.Actor { return domain.Actor{ID: primitive.NewObjectID(), Role: domain.RoleCoach} }

// YearPeriods splits a calendar year into the four phases: evaluation in
// January, base February to May, specialization June to August and
// tournament September to December.
func YearPeriods(year int) []domain.Period {
	d := func(m time.Month, day int) time.Time { return time.Date(year, m, day, 0, 0, 0, 0, time.UTC) }
	return []domain.Period{
		NewTestPeriod(domain.PeriodEvaluation, d(time.January, 1), d(time.January, 31)),
		NewTestPeriod(domain.PeriodBase, d(time.February, 1), d(time.May, 31)),
		NewTestPeriod(domain.PeriodSpecialization, d(time.June, 1), d(time.August, 31)),
		NewTestPeriod(domain.PeriodTournament, d(time.September, 1), d(time.December, 31)),
	}
}

func NewTestPeriod(typ domain.PeriodType, start, end time.Time) domain.Period {
	return domain.Period{
		ID:              uuid.NewString(),
		Type:            typ,
		Name:            string(typ),
		StartDate:       start,
		EndDate:         end,
		WeeklyFrequency: 5,
	}
}

// Plan options
type PlanOption func(*domain.AnnualPlan)

func WithSpan(start, end time.Time) PlanOption {
	return func(p *domain.AnnualPlan) {
		p.StartDate, p.EndDate = start, end
	}
}

func WithStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.AnnualPlan) {
		p.Status = s
	}
}

func WithMode(m domain.GenerationMode) PlanOption {
	return func(p *domain.AnnualPlan) {
		p.Mode = m
	}
}

func WithPeriods(periods []domain.Period) PlanOption {
	return func(p *domain.AnnualPlan) {
		p.Periods = periods
		p.PhaseWeeks = nil
	}
}

func WithPhaseWeeks(base, spec, tour int) PlanOption {
	return func(p *domain.AnnualPlan) {
		p.PhaseWeeks = &domain.PhaseWeeks{Base: base, Specialization: spec, Tournament: tour}
		p.Periods = nil
	}
}

func WithRestWeekday(d time.Weekday) PlanOption {
	return func(p *domain.AnnualPlan) {
		p.RestWeekday = d
	}
}

func WithGeneratedAt(t time.Time) PlanOption {
	return func(p *domain.AnnualPlan) {
		p.GeneratedAt = &t
	}
}

// NewTestPlan builds a structural 2026 draft plan for playerID.
func NewTestPlan(playerID primitive.ObjectID, opts ...PlanOption) *domain.AnnualPlan {
	p := &domain.AnnualPlan{
		PlayerID:          playerID,
		Name:              "2026 season",
		StartDate:         Date("2026-01-01"),
		EndDate:           Date("2026-12-31"),
		Status:            domain.PlanDraft,
		WeeklyHoursTarget: 20,
		Mode:              domain.ModeStructural,
		Periods:           YearPeriods(2026),
		RestWeekday:       time.Sunday,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Template options
type TemplateOption func(*domain.SessionTemplate)

func WithTemplateType(t domain.SessionType) TemplateOption {
	return func(tmpl *domain.SessionTemplate) {
		tmpl.SessionType = t
	}
}

func WithDuration(minutes int) TemplateOption {
	return func(tmpl *domain.SessionTemplate) {
		tmpl.Duration = minutes
	}
}

func NewTestTemplate(coachID primitive.ObjectID, opts ...TemplateOption) *domain.SessionTemplate {
	t := &domain.SessionTemplate{
		CoachID:       coachID,
		Name:          "Iron play ladder",
		SessionType:   domain.SessionTechnique,
		Duration:      75,
		LearningPhase: "L2",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
