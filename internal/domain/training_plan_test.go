package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestAnnualPlan_CalendarMath(t *testing.T) {
	p := &AnnualPlan{StartDate: mustDate(t, "2026-01-01"), EndDate: mustDate(t, "2026-12-31")}

	assert.Equal(t, 365, p.TotalDays())
	assert.Equal(t, 52, p.TotalWeeks())
	assert.Equal(t, 1, p.WeekOf(mustDate(t, "2026-01-07")))
	assert.Equal(t, 2, p.WeekOf(mustDate(t, "2026-01-08")))
	assert.Equal(t, 10, p.WeekOf(mustDate(t, "2026-03-10")))
	assert.Equal(t, 52, p.WeekOf(mustDate(t, "2026-12-31")))
	assert.Equal(t, mustDate(t, "2026-12-24"), p.WeekStart(52))
	assert.Equal(t, mustDate(t, "2026-12-31"), p.WeekEnd(52))
	assert.Equal(t, mustDate(t, "2026-01-14"), p.WeekEnd(2))

	assert.True(t, p.Contains(mustDate(t, "2026-12-31")))
	assert.False(t, p.Contains(mustDate(t, "2027-01-01")))
}

func TestAnnualPlan_ShortPlanHasOneWeek(t *testing.T) {
	p := &AnnualPlan{StartDate: mustDate(t, "2026-01-01"), EndDate: mustDate(t, "2026-01-04")}
	assert.Equal(t, 1, p.TotalWeeks())
	assert.Equal(t, 1, p.WeekOf(mustDate(t, "2026-01-04")))
}

func TestDateOnly_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	d := DateOnly(time.Date(2026, 3, 10, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), d)
}

func TestBreakingPoint_ApplySession(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	bp := &BreakingPoint{ProgressPercent: 96, Status: BreakingPointInProgress}

	assert.True(t, bp.ApplySession(now))
	assert.Equal(t, 98, bp.ProgressPercent)
	assert.Nil(t, bp.ResolvedAt)

	bp.ProgressPercent = 99
	assert.True(t, bp.ApplySession(now))
	assert.Equal(t, 100, bp.ProgressPercent)
	assert.Equal(t, BreakingPointResolved, bp.Status)
	require.NotNil(t, bp.ResolvedAt)

	assert.False(t, bp.ApplySession(now), "resolved points stay put")
	assert.Equal(t, 100, bp.ProgressPercent)
}

func TestErrors_UnwrapToCategory(t *testing.T) {
	assert.True(t, errors.Is(&NotFoundError{Entity: "plan", Key: "x"}, ErrNotFound))
	assert.True(t, errors.Is(&ConflictError{Entity: "plan"}, ErrConflict))
	assert.True(t, errors.Is(&StateError{From: PlanActive, To: PlanDraft}, ErrState))
	assert.True(t, errors.Is(&InvalidSelectorError{Reason: "none"}, ErrValidation))
	assert.True(t, errors.Is(PeriodErrors{&InvalidSelectorError{}}, ErrValidation))
	assert.True(t, errors.Is(&PlanValidationError{Issues: []string{"a"}}, ErrValidation))
	assert.EqualError(t, NewValidationError("hours", "must be %d", 3), "hours: must be 3")
}
