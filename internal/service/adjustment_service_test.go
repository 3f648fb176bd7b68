package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/testutil"
)

func TestUpdateSingleAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	t.Run("patch fields", func(t *testing.T) {
		out, err := f.adjust.UpdateSingleAssignment(ctx, f.player, plan.ID, testutil.Date("2026-03-10"), domain.AssignmentPatch{
			EstimatedDuration: ptr(45),
			Intensity:         ptr(domain.IntensityHigh),
			Notes:             ptr("wind forecast"),
		})
		require.NoError(t, err)
		assert.Equal(t, 45, out.EstimatedDuration)
		assert.Equal(t, domain.IntensityHigh, out.Intensity)
		assert.False(t, out.CanBeSubstituted)

		stored := f.one(t, plan, "2026-03-10")
		assert.Equal(t, domain.SessionTechnique, stored.SessionType)
		assert.Equal(t, 45, stored.EstimatedDuration)
		assert.Equal(t, "wind forecast", stored.Notes)
	})

	t.Run("template wins over patch", func(t *testing.T) {
		tmpl := testutil.NewTestTemplate(f.coach.ID, testutil.WithTemplateType(domain.SessionPutting), testutil.WithDuration(50))
		_, err := f.store.Templates().Create(ctx, tmpl)
		require.NoError(t, err)

		out, err := f.adjust.UpdateSingleAssignment(ctx, f.coach, plan.ID, testutil.Date("2026-03-11"), domain.AssignmentPatch{
			EstimatedDuration: ptr(200),
			TemplateID:        &tmpl.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SessionPutting, out.SessionType)
		assert.Equal(t, 50, out.EstimatedDuration)
		require.NotNil(t, out.TemplateID)
		assert.Equal(t, tmpl.ID, *out.TemplateID)
	})

	t.Run("rest session type makes a rest day", func(t *testing.T) {
		out, err := f.adjust.UpdateSingleAssignment(ctx, f.player, plan.ID, testutil.Date("2026-03-12"), domain.AssignmentPatch{
			SessionType: ptr(domain.SessionRest),
		})
		require.NoError(t, err)
		assert.True(t, out.IsRestDay)
		assert.Zero(t, out.EstimatedDuration)
	})

	t.Run("empty patch", func(t *testing.T) {
		_, err := f.adjust.UpdateSingleAssignment(ctx, f.player, plan.ID, testutil.Date("2026-03-10"), domain.AssignmentPatch{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("duration out of range", func(t *testing.T) {
		_, err := f.adjust.UpdateSingleAssignment(ctx, f.player, plan.ID, testutil.Date("2026-03-10"), domain.AssignmentPatch{
			EstimatedDuration: ptr(1441),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("date without assignment", func(t *testing.T) {
		_, err := f.adjust.UpdateSingleAssignment(ctx, f.player, plan.ID, testutil.Date("2027-02-01"), domain.AssignmentPatch{
			Notes: ptr("x"),
		})
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "assignment", nf.Entity)
	})

	t.Run("unknown template", func(t *testing.T) {
		id := primitive.NewObjectID()
		_, err := f.adjust.UpdateSingleAssignment(ctx, f.player, plan.ID, testutil.Date("2026-03-10"), domain.AssignmentPatch{
			TemplateID: &id,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("every change is logged", func(t *testing.T) {
		history, err := f.adjust.GetChangeHistory(ctx, f.coach, plan.ID)
		require.NoError(t, err)
		var singles int
		for _, e := range history {
			if e.ChangeType == domain.ChangeSingleAssignment {
				singles++
			}
		}
		assert.Equal(t, 3, singles)
	})
}

func TestBulkUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	t.Run("by week", func(t *testing.T) {
		out, err := f.adjust.BulkUpdate(ctx, f.player, plan.ID, Selector{Week: ptr(2)}, domain.AssignmentPatch{
			Notes: ptr("travel week"),
		})
		require.NoError(t, err)
		assert.Len(t, out, 7)
		for _, a := range f.dayOf(t, plan, "2026-01-10") {
			assert.Equal(t, "travel week", a.Notes)
		}
	})

	t.Run("by range", func(t *testing.T) {
		from, to := testutil.Date("2026-02-02"), testutil.Date("2026-02-04")
		out, err := f.adjust.BulkUpdate(ctx, f.player, plan.ID, Selector{From: &from, To: &to}, domain.AssignmentPatch{
			Intensity: ptr(domain.IntensityHigh),
		})
		require.NoError(t, err)
		require.Len(t, out, 3)
		for _, a := range out {
			assert.Equal(t, domain.IntensityHigh, a.Intensity)
		}
	})

	t.Run("range outside the plan matches nothing", func(t *testing.T) {
		from, to := testutil.Date("2027-03-01"), testutil.Date("2027-03-07")
		out, err := f.adjust.BulkUpdate(ctx, f.player, plan.ID, Selector{From: &from, To: &to}, domain.AssignmentPatch{
			Notes: ptr("x"),
		})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	from, to := testutil.Date("2026-02-02"), testutil.Date("2026-02-04")
	bad := map[string]Selector{
		"empty":          {},
		"week and range": {Week: ptr(2), From: &from, To: &to},
		"half range":     {From: &from},
		"reversed":       {From: &to, To: &from},
		"week zero":      {Week: ptr(0)},
		"week too high":  {Week: ptr(53)},
	}
	for name, sel := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := f.adjust.BulkUpdate(ctx, f.player, plan.ID, sel, domain.AssignmentPatch{Notes: ptr("x")})
			var invalid *domain.InvalidSelectorError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestSwap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)
	d1, d2 := testutil.Date("2026-01-05"), testutil.Date("2026-01-06")
	before1, before2 := f.one(t, plan, "2026-01-05"), f.one(t, plan, "2026-01-06")

	out, err := f.adjust.Swap(ctx, f.player, plan.ID, d1, d2)
	require.NoError(t, err)
	require.Len(t, out, 2)

	after1, after2 := f.one(t, plan, "2026-01-05"), f.one(t, plan, "2026-01-06")
	assert.Equal(t, domain.SessionTechnique, after1.SessionType)
	assert.Equal(t, domain.SessionLongGame, after2.SessionType)
	assert.Equal(t, before2.EstimatedDuration, after1.EstimatedDuration)
	assert.Equal(t, before1.AssignedDate, after1.AssignedDate)

	t.Run("swapping back restores", func(t *testing.T) {
		_, err := f.adjust.Swap(ctx, f.player, plan.ID, d1, d2)
		require.NoError(t, err)
		assert.Equal(t, before1.SessionType, f.one(t, plan, "2026-01-05").SessionType)
		assert.Equal(t, before2.SessionType, f.one(t, plan, "2026-01-06").SessionType)
	})

	t.Run("with a rest day", func(t *testing.T) {
		_, err := f.adjust.Swap(ctx, f.player, plan.ID, testutil.Date("2026-01-04"), d1)
		require.NoError(t, err)
		assert.False(t, f.one(t, plan, "2026-01-04").IsRestDay)
		assert.True(t, f.one(t, plan, "2026-01-05").IsRestDay)
	})

	t.Run("same date", func(t *testing.T) {
		_, err := f.adjust.Swap(ctx, f.player, plan.ID, d1, d1)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := f.adjust.Swap(ctx, f.player, plan.ID, d1, testutil.Date("2027-01-05"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSwapRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	failing := &testutil.FailingStore{Store: testutil.NewTestStore(t), FailOn: 2, Err: boom}

	setup := newFixtureWithStore(t, failing.Store, testNow)
	plan := setup.generatedPlan(t)
	before := setup.one(t, plan, "2026-01-05")

	f := newFixtureWithStore(t, failing, testNow)
	f.player = setup.player
	_, err := f.adjust.Swap(ctx, f.player, plan.ID, testutil.Date("2026-01-05"), testutil.Date("2026-01-06"))
	require.ErrorIs(t, err, boom)

	assert.Equal(t, before.SessionType, setup.one(t, plan, "2026-01-05").SessionType)
	history, err := setup.store.ChangeLog().ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	for _, e := range history {
		assert.NotEqual(t, domain.ChangeSwap, e.ChangeType)
	}
}

func TestInsertRestDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	out, err := f.adjust.InsertRestDay(ctx, f.player, plan.ID, testutil.Date("2026-03-10"), "sore wrist")
	require.NoError(t, err)
	assert.True(t, out.IsRestDay)
	assert.Equal(t, "sore wrist", out.Notes)

	day := f.dayOf(t, plan, "2026-03-10")
	require.Len(t, day, 1)
	assert.Equal(t, domain.SessionRest, day[0].SessionType)
	assert.Equal(t, domain.IntensityNone, day[0].Intensity)

	t.Run("extra sessions on the date are removed", func(t *testing.T) {
		extra := f.one(t, plan, "2026-03-11")
		extra.ID = primitive.NilObjectID
		extra.SessionType = domain.SessionPutting
		_, err := f.store.Assignments().Create(ctx, &extra)
		require.NoError(t, err)
		require.Len(t, f.dayOf(t, plan, "2026-03-11"), 2)

		_, err = f.adjust.InsertRestDay(ctx, f.player, plan.ID, testutil.Date("2026-03-11"), "")
		require.NoError(t, err)
		day := f.dayOf(t, plan, "2026-03-11")
		require.Len(t, day, 1)
		assert.True(t, day[0].IsRestDay)
	})

	t.Run("date without assignments gets a new rest day", func(t *testing.T) {
		a := f.one(t, plan, "2026-03-13")
		require.NoError(t, f.store.Assignments().Delete(ctx, a.ID))

		out, err := f.adjust.InsertRestDay(ctx, f.player, plan.ID, testutil.Date("2026-03-13"), "travel")
		require.NoError(t, err)
		assert.True(t, out.IsRestDay)
		assert.Equal(t, 11, out.WeekNumber)
		assert.Equal(t, domain.CodeBase, out.Period)
	})

	t.Run("date outside the plan", func(t *testing.T) {
		_, err := f.adjust.InsertRestDay(ctx, f.player, plan.ID, testutil.Date("2027-01-04"), "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRemoveRestDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	tmpl := testutil.NewTestTemplate(f.coach.ID, testutil.WithTemplateType(domain.SessionShortGame), testutil.WithDuration(90))
	_, err := f.store.Templates().Create(ctx, tmpl)
	require.NoError(t, err)

	out, err := f.adjust.RemoveRestDay(ctx, f.player, plan.ID, testutil.Date("2026-03-08"), tmpl.ID)
	require.NoError(t, err)
	assert.False(t, out.IsRestDay)
	assert.Equal(t, domain.SessionShortGame, out.SessionType)
	assert.Equal(t, 90, out.EstimatedDuration)
	assert.Equal(t, domain.IntensityLow, out.Intensity)

	t.Run("no rest day on the date", func(t *testing.T) {
		_, err := f.adjust.RemoveRestDay(ctx, f.player, plan.ID, testutil.Date("2026-03-09"), tmpl.ID)
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "rest day", nf.Entity)
	})

	t.Run("template required", func(t *testing.T) {
		_, err := f.adjust.RemoveRestDay(ctx, f.player, plan.ID, testutil.Date("2026-03-15"), primitive.NilObjectID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := f.adjust.RemoveRestDay(ctx, f.player, plan.ID, testutil.Date("2026-03-15"), primitive.NewObjectID())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAdjustWeeklyVolume(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	res, err := f.adjust.AdjustWeeklyVolume(ctx, f.player, plan.ID, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Sessions)
	assert.Equal(t, 20, res.Week.PlannedHours)

	week, err := f.store.Assignments().ListByWeek(ctx, plan.ID, 10)
	require.NoError(t, err)
	require.Len(t, week, 7)
	total := 0
	for _, a := range week {
		if a.IsRestDay {
			assert.Zero(t, a.EstimatedDuration)
			continue
		}
		assert.Equal(t, 200, a.EstimatedDuration)
		total += a.EstimatedDuration
	}
	assert.Equal(t, 1200, total)

	t.Run("rounding loses less than a minute per session", func(t *testing.T) {
		res, err := f.adjust.AdjustWeeklyVolume(ctx, f.player, plan.ID, 10, 7)
		require.NoError(t, err)
		total := 0
		for _, a := range res.Assignments {
			total += a.EstimatedDuration
		}
		assert.LessOrEqual(t, total, 7*60)
		assert.Greater(t, total, 7*60-res.Sessions)
	})

	t.Run("hours out of range", func(t *testing.T) {
		_, err := f.adjust.AdjustWeeklyVolume(ctx, f.player, plan.ID, 10, 169)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown week", func(t *testing.T) {
		_, err := f.adjust.AdjustWeeklyVolume(ctx, f.player, plan.ID, 60, 10)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("share above a full day per session", func(t *testing.T) {
		_, err := f.adjust.AdjustWeeklyVolume(ctx, f.player, plan.ID, 10, 168)
		assert.ErrorIs(t, err, domain.ErrValidation)

		w, err := f.store.Periodizations().GetByWeek(ctx, plan.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 7, w.PlannedHours)
	})
}

func TestAdjustWeeklyVolumeRestWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	for d := testutil.Date("2026-03-05"); !d.After(testutil.Date("2026-03-11")); d = d.AddDate(0, 0, 1) {
		_, err := f.adjust.InsertRestDay(ctx, f.player, plan.ID, d, "travel")
		require.NoError(t, err)
	}
	before, err := f.store.Periodizations().GetByWeek(ctx, plan.ID, 10)
	require.NoError(t, err)
	history, err := f.adjust.GetChangeHistory(ctx, f.player, plan.ID)
	require.NoError(t, err)

	_, err = f.adjust.AdjustWeeklyVolume(ctx, f.player, plan.ID, 10, 20)
	assert.ErrorIs(t, err, domain.ErrValidation)

	after, err := f.store.Periodizations().GetByWeek(ctx, plan.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, before.PlannedHours, after.PlannedHours)
	again, err := f.adjust.GetChangeHistory(ctx, f.player, plan.ID)
	require.NoError(t, err)
	assert.Len(t, again, len(history))
}

func TestChangePeriodType(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	w, err := f.adjust.ChangePeriodType(ctx, f.coach, plan.ID, 10, domain.CodeTournament)
	require.NoError(t, err)
	assert.Equal(t, domain.CodeTournament, w.Period)
	assert.Equal(t, domain.PhaseTournament, w.PeriodPhase)

	week, err := f.store.Assignments().ListByWeek(ctx, plan.ID, 10)
	require.NoError(t, err)
	for _, a := range week {
		assert.Equal(t, domain.CodeTournament, a.Period)
	}

	_, err = f.adjust.ChangePeriodType(ctx, f.coach, plan.ID, 10, "X")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTournaments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	spring, err := f.adjust.ScheduleTournament(ctx, f.player, plan.ID, TournamentInput{
		Name:       "Spring Open",
		StartDate:  testutil.Date("2026-04-16"),
		EndDate:    testutil.Date("2026-04-19"),
		Importance: domain.ImportanceA,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, spring.WeekNumber)
	assert.Equal(t, 3, spring.ToppingDurationWeeks)
	assert.Equal(t, 12, spring.ToppingStartWeek)
	assert.Equal(t, 10, spring.TaperingDurationDays)
	assert.Equal(t, testutil.Date("2026-04-06"), spring.TaperingStartDate)

	t.Run("reschedule re-anchors windows", func(t *testing.T) {
		moved, err := f.adjust.RescheduleTournament(ctx, f.player, plan.ID, spring.ID,
			testutil.Date("2026-07-10"), testutil.Date("2026-07-12"))
		require.NoError(t, err)
		assert.Equal(t, 28, moved.WeekNumber)
		assert.Equal(t, 25, moved.ToppingStartWeek)
		assert.Equal(t, testutil.Date("2026-06-30"), moved.TaperingStartDate)
		assert.Equal(t, 3, moved.ToppingDurationWeeks)

		list, err := f.adjust.ListTournaments(ctx, f.player, plan.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 28, list[0].WeekNumber)
	})

	t.Run("tournament of another plan", func(t *testing.T) {
		otherPlan := testutil.NewTestPlan(testutil.Player().ID)
		_, err := f.store.Plans().Create(ctx, otherPlan)
		require.NoError(t, err)
		foreign := &domain.ScheduledTournament{PlanID: otherPlan.ID, PlayerID: otherPlan.PlayerID, Name: "Club champs"}
		_, err = f.store.Tournaments().Create(ctx, foreign)
		require.NoError(t, err)

		_, err = f.adjust.RescheduleTournament(ctx, f.player, plan.ID, foreign.ID,
			testutil.Date("2026-07-10"), testutil.Date("2026-07-12"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.adjust.ScheduleTournament(ctx, f.player, plan.ID, TournamentInput{
			Name:       "Backwards",
			StartDate:  testutil.Date("2026-05-10"),
			EndDate:    testutil.Date("2026-05-08"),
			Importance: domain.ImportanceB,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("outside the plan", func(t *testing.T) {
		_, err := f.adjust.ScheduleTournament(ctx, f.player, plan.ID, TournamentInput{
			Name:       "Next year",
			StartDate:  testutil.Date("2027-05-10"),
			EndDate:    testutil.Date("2027-05-12"),
			Importance: domain.ImportanceB,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAdjustmentsRequireAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)
	stranger := testutil.Player()

	_, err := f.adjust.InsertRestDay(ctx, stranger, plan.ID, testutil.Date("2026-03-10"), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.adjust.GetChangeHistory(ctx, stranger, plan.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.adjust.Swap(ctx, f.player, primitive.NewObjectID(), testutil.Date("2026-03-10"), testutil.Date("2026-03-11"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
