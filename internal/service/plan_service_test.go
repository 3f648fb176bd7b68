package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/testutil"
)

func TestCreatePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("player creates own plan", func(t *testing.T) {
		f := newFixture(t)
		plan := f.createPlan(t)

		assert.False(t, plan.ID.IsZero())
		assert.Equal(t, f.player.ID, plan.PlayerID)
		assert.Nil(t, plan.CoachID)
		assert.Equal(t, domain.PlanDraft, plan.Status)
		assert.Equal(t, domain.ModeStructural, plan.Mode)
		assert.Equal(t, time.Sunday, plan.RestWeekday)
		require.Len(t, plan.Periods, 4)
		assert.Equal(t, domain.PeriodEvaluation, plan.Periods[0].Type)
	})

	t.Run("coach creates plan for player", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.PlayerID = f.player.ID
		plan, err := f.plans.CreatePlan(ctx, f.coach, in)
		require.NoError(t, err)
		require.NotNil(t, plan.CoachID)
		assert.Equal(t, f.coach.ID, *plan.CoachID)
		assert.Equal(t, f.player.ID, plan.PlayerID)
	})

	t.Run("coach must name a player", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.plans.CreatePlan(ctx, f.coach, yearInput())
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("player cannot create for someone else", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.PlayerID = testutil.Player().ID
		_, err := f.plans.CreatePlan(ctx, f.player, in)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("periods are sorted and given ids", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.Periods = []domain.Period{in.Periods[3], in.Periods[1], in.Periods[0], in.Periods[2]}
		for i := range in.Periods {
			in.Periods[i].ID = ""
		}
		plan, err := f.plans.CreatePlan(ctx, f.player, in)
		require.NoError(t, err)
		for i, p := range plan.Periods {
			assert.NotEmpty(t, p.ID)
			if i > 0 {
				assert.True(t, p.StartDate.After(plan.Periods[i-1].StartDate))
			}
		}
	})

	t.Run("overlapping periods are rejected", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.Periods[1].StartDate = testutil.Date("2026-01-20")
		_, err := f.plans.CreatePlan(ctx, f.player, in)
		var overlap *domain.OverlapError
		assert.ErrorAs(t, err, &overlap)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("period outside the plan", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.EndDate = testutil.Date("2026-11-30")
		_, err := f.plans.CreatePlan(ctx, f.player, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("end before start", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.EndDate = testutil.Date("2025-12-31")
		in.Periods = nil
		in.PhaseWeeks = &domain.PhaseWeeks{Base: 1, Specialization: 1, Tournament: 1}
		_, err := f.plans.CreatePlan(ctx, f.player, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("periods and phase weeks are exclusive", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.PhaseWeeks = &domain.PhaseWeeks{Base: 20, Specialization: 16, Tournament: 16}
		_, err := f.plans.CreatePlan(ctx, f.player, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("structural plan without structure", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.Periods = nil
		_, err := f.plans.CreatePlan(ctx, f.player, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown mode", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.Mode = "freestyle"
		_, err := f.plans.CreatePlan(ctx, f.player, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rest weekday override", func(t *testing.T) {
		f := newFixture(t)
		in := yearInput()
		in.RestWeekday = ptr(time.Wednesday)
		plan, err := f.plans.CreatePlan(ctx, f.player, in)
		require.NoError(t, err)
		assert.Equal(t, time.Wednesday, plan.RestWeekday)
	})

	t.Run("second plan while one is active", func(t *testing.T) {
		f := newFixture(t)
		plan := f.createPlan(t)
		f.setStatus(t, plan, domain.PlanActive)

		_, err := f.plans.CreatePlan(ctx, f.player, yearInput())
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.createPlan(t)

	res, err := f.plans.GeneratePlan(ctx, f.player, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 52, res.WeeksCreated)
	assert.Equal(t, 365, res.DaysCreated)
	require.NotNil(t, res.Plan.GeneratedAt)

	weeks, err := f.plans.GetPeriodization(ctx, f.player, plan.ID)
	require.NoError(t, err)
	require.Len(t, weeks, 52)
	assert.Equal(t, domain.CodeEvaluation, weeks[0].Period)
	assert.Equal(t, domain.CodeBase, weeks[4].Period)
	assert.Equal(t, domain.CodeSpecialization, weeks[21].Period)
	assert.Equal(t, domain.CodeTournament, weeks[51].Period)

	// 2026-01-01 is a Thursday
	first := f.one(t, plan, "2026-01-01")
	assert.Equal(t, domain.SessionPhysical, first.SessionType)
	assert.Equal(t, 1, first.WeekNumber)
	assert.Equal(t, domain.StatusPlanned, first.Status)
	assert.Equal(t, domain.IntensityLow, first.Intensity)
	assert.Positive(t, first.EstimatedDuration)

	sunday := f.one(t, plan, "2026-01-04")
	assert.True(t, sunday.IsRestDay)
	assert.Equal(t, domain.SessionRest, sunday.SessionType)
	assert.Zero(t, sunday.EstimatedDuration)

	last := f.one(t, plan, "2026-12-31")
	assert.Equal(t, 52, last.WeekNumber)

	t.Run("second run creates nothing", func(t *testing.T) {
		again, err := f.plans.GeneratePlan(ctx, f.player, plan.ID)
		require.NoError(t, err)
		assert.Zero(t, again.WeeksCreated)
		assert.Zero(t, again.DaysCreated)

		all, err := f.plans.ListAssignments(ctx, f.player, plan.ID, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, all, 365)
	})

	t.Run("generation is logged", func(t *testing.T) {
		history, err := f.adjust.GetChangeHistory(ctx, f.player, plan.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, domain.ChangeGenerate, history[0].ChangeType)
		assert.EqualValues(t, 365, history[0].Payload["daysCreated"])
	})

	t.Run("other player is forbidden", func(t *testing.T) {
		_, err := f.plans.GeneratePlan(ctx, testutil.Player(), plan.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestGeneratePlanKeepsEditedDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	_, err := f.adjust.Swap(ctx, f.player, plan.ID, testutil.Date("2026-03-09"), testutil.Date("2026-03-10"))
	require.NoError(t, err)
	_, err = f.adjust.InsertRestDay(ctx, f.player, plan.ID, testutil.Date("2026-03-11"), "travel")
	require.NoError(t, err)
	before, err := f.plans.ListAssignments(ctx, f.player, plan.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, before, 365)

	res, err := f.plans.GeneratePlan(ctx, f.player, plan.ID)
	require.NoError(t, err)
	assert.Zero(t, res.WeeksCreated)
	assert.Zero(t, res.DaysCreated)

	after, err := f.plans.ListAssignments(ctx, f.player, plan.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, after, 365)
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].SessionType, after[i].SessionType)
	}

	assert.Equal(t, domain.SessionTechnique, f.one(t, plan, "2026-03-09").SessionType)
	assert.Equal(t, domain.SessionLongGame, f.one(t, plan, "2026-03-10").SessionType)
	assert.True(t, f.one(t, plan, "2026-03-11").IsRestDay)
}

func TestGeneratePlanMarksPastDaysCompleted(t *testing.T) {
	f := newFixtureWithStore(t, testutil.NewTestStore(t), time.Date(2026, 1, 6, 12, 0, 0, 0, time.UTC))
	plan := f.generatedPlan(t)

	assert.Equal(t, domain.StatusCompleted, f.one(t, plan, "2026-01-05").Status)
	assert.Equal(t, domain.StatusPlanned, f.one(t, plan, "2026-01-06").Status)
}

func TestGeneratePlanFromPhaseWeeks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	in := yearInput()
	in.PlayerID = f.player.ID
	in.Periods = nil
	in.PhaseWeeks = &domain.PhaseWeeks{Base: 20, Specialization: 14, Tournament: 14}

	plan, err := f.plans.CreatePlan(ctx, f.coach, in)
	require.NoError(t, err)
	res, err := f.plans.GeneratePlan(ctx, f.coach, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 52, res.WeeksCreated)
	assert.Equal(t, 365, res.DaysCreated)
}

func TestListAssignments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	week, err := f.plans.ListAssignments(ctx, f.player, plan.ID, testutil.Date("2026-01-08"), testutil.Date("2026-01-14"))
	require.NoError(t, err)
	require.Len(t, week, 7)
	for _, a := range week {
		assert.Equal(t, 2, a.WeekNumber)
	}

	_, err = f.plans.ListAssignments(ctx, f.player, plan.ID, testutil.Date("2026-01-14"), testutil.Date("2026-01-08"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListPlansForPlayer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createPlan(t)

	plans, err := f.plans.ListPlansForPlayer(ctx, f.player, f.player.ID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	plans, err = f.plans.ListPlansForPlayer(ctx, f.coach, f.player.ID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	_, err = f.plans.ListPlansForPlayer(ctx, testutil.Player(), f.player.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeletePlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	require.NoError(t, f.plans.DeletePlan(ctx, f.player, plan.ID))

	_, err := f.plans.GetPlan(ctx, f.player, plan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	left, err := f.store.Assignments().ListByRange(ctx, plan.ID, plan.StartDate, plan.EndDate)
	require.NoError(t, err)
	assert.Empty(t, left)
	weeks, err := f.store.Periodizations().ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, weeks)

	err = f.plans.DeletePlan(ctx, f.player, plan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
