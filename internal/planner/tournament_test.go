package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/annual-plan/internal/domain"
)

func TestPlanTournament_Defaults(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)

	a, err := PlanTournament(plan, domain.ScheduledTournament{
		Name:       "Club championship",
		StartDate:  date(t, "2026-06-18"),
		EndDate:    date(t, "2026-06-21"),
		Importance: domain.ImportanceA,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, a.ToppingDurationWeeks)
	assert.Equal(t, 10, a.TaperingDurationDays)
	assert.Equal(t, 24, a.WeekNumber) // 168 days after start
	assert.Equal(t, 21, a.ToppingStartWeek)
	assert.Equal(t, date(t, "2026-06-08"), a.TaperingStartDate)
	assert.Equal(t, plan.ID, a.PlanID)

	b, err := PlanTournament(plan, domain.ScheduledTournament{
		Name:       "Open",
		StartDate:  date(t, "2026-01-03"),
		EndDate:    date(t, "2026-01-04"),
		Importance: domain.ImportanceB,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.ToppingDurationWeeks)
	assert.Equal(t, 5, b.TaperingDurationDays)
	assert.Equal(t, 1, b.WeekNumber)
	assert.Equal(t, 1, b.ToppingStartWeek)
}

func TestPlanTournament_Rejects(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	base := domain.ScheduledTournament{
		Name:       "Open",
		StartDate:  date(t, "2026-05-01"),
		EndDate:    date(t, "2026-05-03"),
		Importance: domain.ImportanceA,
	}

	noName := base
	noName.Name = ""
	badImportance := base
	badImportance.Importance = "C"
	outside := base
	outside.EndDate = date(t, "2027-01-02")
	backwards := base
	backwards.EndDate = date(t, "2026-04-30")

	for _, tt := range []domain.ScheduledTournament{noName, badImportance, outside, backwards} {
		_, err := PlanTournament(plan, tt)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestRescheduleTournament_KeepsTaperLength(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	orig, err := PlanTournament(plan, domain.ScheduledTournament{
		Name:                 "Open",
		StartDate:            date(t, "2026-05-01"),
		EndDate:              date(t, "2026-05-03"),
		Importance:           domain.ImportanceB,
		TaperingDurationDays: 7,
	})
	require.NoError(t, err)

	moved, err := RescheduleTournament(plan, orig, date(t, "2026-07-10"), date(t, "2026-07-12"))
	require.NoError(t, err)
	assert.Equal(t, 7, moved.TaperingDurationDays)
	assert.Equal(t, date(t, "2026-07-03"), moved.TaperingStartDate)
	assert.Equal(t, 28, moved.WeekNumber) // ceil(190/7)

	_, err = RescheduleTournament(plan, orig, date(t, "2026-07-12"), date(t, "2026-07-10"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
