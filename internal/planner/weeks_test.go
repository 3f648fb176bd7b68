package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/annual-plan/internal/domain"
)

func TestGenerateWeeks_FullYearHas52UniqueWeeks(t *testing.T) {
	for _, mode := range []domain.GenerationMode{domain.ModeStructural, domain.ModeExplicit} {
		t.Run(string(mode), func(t *testing.T) {
			plan := yearPlan(t, mode)
			weeks, err := GenerateWeeks(plan, NewRand(7))
			require.NoError(t, err)
			require.Len(t, weeks, 52)

			seen := map[int]bool{}
			for i, w := range weeks {
				assert.Equal(t, i+1, w.WeekNumber)
				assert.False(t, seen[w.WeekNumber])
				seen[w.WeekNumber] = true
				assert.Equal(t, plan.WeekStart(w.WeekNumber), w.StartDate)
				assert.Equal(t, plan.ID, w.PlanID)
			}
		})
	}
}

func TestGenerateWeeks_StructuralFollowsPeriods(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	weeks, err := GenerateWeeks(plan, NewRand(1))
	require.NoError(t, err)

	// Feb 1 is in week 5, Jun 1 in week 22, Sep 1 in week 35.
	byWeek := weekMap(weeks)
	assert.Equal(t, domain.CodeEvaluation, byWeek[4].Period)
	assert.Equal(t, domain.CodeBase, byWeek[5].Period)
	assert.Equal(t, domain.CodeBase, byWeek[21].Period)
	assert.Equal(t, domain.CodeSpecialization, byWeek[22].Period)
	assert.Equal(t, domain.CodeTournament, byWeek[35].Period)
	assert.Equal(t, domain.CodeTournament, byWeek[52].Period)

	assert.Equal(t, 1, byWeek[5].WeekInPeriod)
	assert.Equal(t, 17, byWeek[21].WeekInPeriod)
	assert.Equal(t, 18, byWeek[52].WeekInPeriod)

	for _, w := range weeks {
		profile := Profile(w.Period)
		assert.True(t, profile.Hours.Contains(w.PlannedHours), "week %d: %d hours", w.WeekNumber, w.PlannedHours)
		assert.Equal(t, profile.Priorities, w.Priorities)
		assert.Equal(t, profile.LearningPhaseMin, w.LearningPhaseMin)
		assert.Equal(t, profile.ClubSpeedMax, w.ClubSpeedMax)
	}
}

func TestGenerateWeeks_StructuralLoadPattern(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	weeks, err := GenerateWeeks(plan, NewRand(1))
	require.NoError(t, err)
	byWeek := weekMap(weeks)

	assert.Equal(t, domain.VolumeLow, byWeek[1].VolumeIntensity)

	// base weeks 5..21: every 4th is a recovery week
	assert.Equal(t, domain.VolumeHigh, byWeek[5].VolumeIntensity)
	assert.Equal(t, domain.VolumeLow, byWeek[8].VolumeIntensity)
	assert.Equal(t, domain.PhaseRecovery, byWeek[8].PeriodPhase)
	assert.Equal(t, 25, byWeek[8].PlannedHours)
	assert.Equal(t, domain.PhaseBase, byWeek[9].PeriodPhase)

	// specialization weeks 22..34: every 3rd is low
	assert.Equal(t, domain.VolumeLow, byWeek[24].VolumeIntensity)
	assert.Equal(t, domain.VolumeHigh, byWeek[25].VolumeIntensity)

	assert.Equal(t, domain.VolumePeak, byWeek[50].VolumeIntensity)
	assert.Equal(t, domain.VolumeTaper, byWeek[51].VolumeIntensity)
	assert.Equal(t, domain.VolumeTaper, byWeek[52].VolumeIntensity)
	assert.Equal(t, 18, byWeek[52].PlannedHours)
}

func TestGenerateWeeks_StructuralHoursRamp(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	weeks, err := GenerateWeeks(plan, NewRand(1))
	require.NoError(t, err)
	byWeek := weekMap(weeks)

	assert.Equal(t, 15, byWeek[1].PlannedHours)
	assert.Equal(t, 18, byWeek[4].PlannedHours)
	assert.Equal(t, 25, byWeek[5].PlannedHours)
	assert.Equal(t, 28, byWeek[21].PlannedHours)
}

func TestGenerateWeeks_StructuralFromPhaseWeeks(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	plan.Periods = nil
	plan.PhaseWeeks = &domain.PhaseWeeks{Base: 16, Specialization: 16, Tournament: 16}

	weeks, err := GenerateWeeks(plan, NewRand(1))
	require.NoError(t, err)
	require.Len(t, weeks, 52)

	byWeek := weekMap(weeks)
	assert.Equal(t, domain.CodeEvaluation, byWeek[4].Period)
	assert.Equal(t, domain.CodeBase, byWeek[5].Period)
	assert.Equal(t, domain.CodeSpecialization, byWeek[21].Period)
	assert.Equal(t, domain.CodeTournament, byWeek[37].Period)
}

func TestGenerateWeeks_PhaseWeeksLongerThanPlan(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	plan.Periods = nil
	plan.PhaseWeeks = &domain.PhaseWeeks{Base: 20, Specialization: 20, Tournament: 20}

	_, err := GenerateWeeks(plan, NewRand(1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateWeeks_ExplicitBoundariesAndTaper(t *testing.T) {
	plan := yearPlan(t, domain.ModeExplicit)
	weeks, err := GenerateWeeks(plan, NewRand(99))
	require.NoError(t, err)

	for _, w := range weeks {
		var want domain.PeriodCode
		switch {
		case w.WeekNumber <= 4:
			want = domain.CodeEvaluation
		case w.WeekNumber <= 20:
			want = domain.CodeBase
		case w.WeekNumber <= 36:
			want = domain.CodeSpecialization
		default:
			want = domain.CodeTournament
		}
		assert.Equal(t, want, w.Period, "week %d", w.WeekNumber)

		if w.WeekNumber >= 50 {
			assert.Equal(t, domain.VolumeTaper, w.VolumeIntensity)
			assert.True(t, TaperHours.Contains(w.PlannedHours), "week %d: %d hours", w.WeekNumber, w.PlannedHours)
			continue
		}
		assert.True(t, Profile(w.Period).Hours.Contains(w.PlannedHours), "week %d: %d hours", w.WeekNumber, w.PlannedHours)
	}
	assert.Equal(t, domain.PhaseRecovery, weeks[7].PeriodPhase, "week 8 is the 4th base week")
}

func TestGenerateWeeks_ExplicitShortPlanTruncates(t *testing.T) {
	plan := yearPlan(t, domain.ModeExplicit)
	plan.EndDate = date(t, "2026-04-10") // 100 days

	weeks, err := GenerateWeeks(plan, NewRand(3))
	require.NoError(t, err)
	require.Len(t, weeks, 14)
	assert.Equal(t, domain.CodeBase, weeks[13].Period)
}

func TestGenerateWeeks_SameSeedSameRows(t *testing.T) {
	plan := yearPlan(t, domain.ModeExplicit)
	a, err := GenerateWeeks(plan, NewRand(42))
	require.NoError(t, err)
	b, err := GenerateWeeks(plan, NewRand(42))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateWeeks_ShortPlanHasOneWeek(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	plan.Periods = nil
	plan.EndDate = date(t, "2026-01-03")

	weeks, err := GenerateWeeks(plan, NewRand(1))
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, domain.CodeBase, weeks[0].Period)
}
