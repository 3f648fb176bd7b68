// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PeriodType is the kind of a dated segment of an annual plan.
type PeriodType string

const (
	PeriodEvaluation     PeriodType = "Evaluation"
	PeriodBase           PeriodType = "Base"
	PeriodSpecialization PeriodType = "Specialization"
	PeriodTournament     PeriodType = "Tournament"
)

// Valid reports whether t is one of the four known period types.
func (t PeriodType) Valid() bool {
	switch t {
	case PeriodEvaluation, PeriodBase, PeriodSpecialization, PeriodTournament:
		return true
	}
	return false
}

// Code returns the single-letter phase code used on weekly and daily records.
func (t PeriodType) Code() PeriodCode {
	switch t {
	case PeriodEvaluation:
		return CodeEvaluation
	case PeriodBase:
		return CodeBase
	case PeriodSpecialization:
		return CodeSpecialization
	case PeriodTournament:
		return CodeTournament
	}
	return ""
}

// Period is a named date range of a plan. Periods are authored by the player and
// replaced wholesale when the plan is edited.
type Period struct {
	ID              string     `bson:"id" json:"id"`
	Type            PeriodType `bson:"type" json:"type"`
	Name            string     `bson:"name" json:"name"`
	StartDate       time.Time  `bson:"startDate" json:"startDate"`
	EndDate         time.Time  `bson:"endDate" json:"endDate"`
	WeeklyFrequency int        `bson:"weeklyFrequency" json:"weeklyFrequency"` // sessions per week, 1..7
	Goals           []string   `bson:"goals,omitempty" json:"goals,omitempty"`
}

// PlanStatus tracks the review lifecycle of an annual plan.
type PlanStatus string

const (
	PlanDraft         PlanStatus = "draft"
	PlanPendingReview PlanStatus = "pending_review"
	PlanActive        PlanStatus = "active"
	PlanRejected      PlanStatus = "rejected"
	PlanNeedsRevision PlanStatus = "needs_revision"
)

// GenerationMode selects how weekly periodization is produced.
type GenerationMode string

const (
	// ModeStructural expands a few phase windows (from Periods or week counts).
	ModeStructural GenerationMode = "structural"
	// ModeExplicit looks every week up against fixed 52-week boundaries.
	ModeExplicit GenerationMode = "explicit"
)

func (m GenerationMode) Valid() bool {
	return m == ModeStructural || m == ModeExplicit
}

// PhaseWeeks is the coach-generated variant of a plan: phase lengths in weeks
// instead of dated periods.
type PhaseWeeks struct {
	Base           int `bson:"base" json:"base"`
	Specialization int `bson:"specialization" json:"specialization"`
	Tournament     int `bson:"tournament" json:"tournament"`
}

// Total returns the number of weeks covered by the three phases.
func (w PhaseWeeks) Total() int {
	return w.Base + w.Specialization + w.Tournament
}

// AnnualPlan is the root of a player's training calendar. Periodizations,
// daily assignments, tournaments and the change log are owned by it.
type AnnualPlan struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlayerID          primitive.ObjectID  `bson:"playerId" json:"playerId"`
	CoachID           *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`
	Name              string              `bson:"name" json:"name"`
	StartDate         time.Time           `bson:"startDate" json:"startDate"`
	EndDate           time.Time           `bson:"endDate" json:"endDate"`
	Status            PlanStatus          `bson:"status" json:"status"`
	WeeklyHoursTarget int                 `bson:"weeklyHoursTarget" json:"weeklyHoursTarget"`
	Mode              GenerationMode      `bson:"mode" json:"mode"`
	Periods           []Period            `bson:"periods,omitempty" json:"periods,omitempty"`
	PhaseWeeks        *PhaseWeeks         `bson:"phaseWeeks,omitempty" json:"phaseWeeks,omitempty"`
	RestWeekday       time.Weekday        `bson:"restWeekday" json:"restWeekday"`
	ReviewNote        string              `bson:"reviewNote,omitempty" json:"reviewNote,omitempty"`
	GeneratedAt       *time.Time          `bson:"generatedAt,omitempty" json:"generatedAt,omitempty"` // nil until a full generation pass succeeded
	LastModifiedAt    time.Time           `bson:"lastModifiedAt" json:"lastModifiedAt"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// TotalDays is the inclusive number of calendar days in the plan.
func (p *AnnualPlan) TotalDays() int {
	return DaysBetween(p.StartDate, p.EndDate) + 1
}

// TotalWeeks is the number of weekly periodization rows the plan owns.
// Trailing days that do not fill a week belong to the last week.
func (p *AnnualPlan) TotalWeeks() int {
	weeks := p.TotalDays() / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}

// WeekOf returns the 1-based week number owning date, clamped to the plan's weeks.
func (p *AnnualPlan) WeekOf(date time.Time) int {
	week := DaysBetween(p.StartDate, date)/7 + 1
	if week < 1 {
		return 1
	}
	if total := p.TotalWeeks(); week > total {
		return total
	}
	return week
}

// Contains reports whether date falls inside [StartDate, EndDate].
func (p *AnnualPlan) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// WeekStart returns the first calendar day of the given week.
func (p *AnnualPlan) WeekStart(week int) time.Time {
	return DateOnly(p.StartDate).AddDate(0, 0, (week-1)*7)
}

// WeekEnd returns the last calendar day of the given week. The last week
// absorbs any trailing days of the plan.
func (p *AnnualPlan) WeekEnd(week int) time.Time {
	if week >= p.TotalWeeks() {
		return DateOnly(p.EndDate)
	}
	return p.WeekStart(week).AddDate(0, 0, 6)
}
