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

func TestRecordCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)
	target := f.one(t, plan, "2026-01-05")

	bp, err := f.progress.CreateBreakingPoint(ctx, f.coach, f.player.ID, "Bunker exits", "")
	require.NoError(t, err)

	in := CompletionInput{
		EventID:         "evt-1",
		AssignmentID:    &target.ID,
		DurationMinutes: 70,
		CompletedAt:     time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC),
	}
	res, err := f.progress.RecordCompletion(ctx, f.player, in)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	require.NotNil(t, res.Assignment)
	assert.Equal(t, domain.StatusCompleted, res.Assignment.Status)
	require.Len(t, res.BreakingPoints, 1)
	assert.Equal(t, bp.ID, res.BreakingPoints[0].ID)
	assert.Equal(t, 2, res.BreakingPoints[0].ProgressPercent)

	assert.Equal(t, domain.StatusCompleted, f.one(t, plan, "2026-01-05").Status)

	t.Run("redelivered event changes nothing", func(t *testing.T) {
		res, err := f.progress.RecordCompletion(ctx, f.player, in)
		require.NoError(t, err)
		assert.True(t, res.Duplicate)
		assert.Empty(t, res.BreakingPoints)

		bps, err := f.progress.ListBreakingPoints(ctx, f.player, f.player.ID)
		require.NoError(t, err)
		require.Len(t, bps, 1)
		assert.Equal(t, 2, bps[0].ProgressPercent)
	})

	t.Run("reported duration feeds the summary", func(t *testing.T) {
		summary, err := f.progress.WeekSummary(ctx, f.player, plan.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Completed)
		assert.Equal(t, 70, summary.ActualMinutes)
		assert.Equal(t, 1, summary.CompletedByType[domain.SessionLongGame])
	})

	t.Run("events without an id are never duplicates", func(t *testing.T) {
		for range 2 {
			res, err := f.progress.RecordCompletion(ctx, f.player, CompletionInput{DurationMinutes: 30})
			require.NoError(t, err)
			assert.False(t, res.Duplicate)
			assert.NotEmpty(t, res.Completion.EventID)
		}
	})

	t.Run("assignment of another player", func(t *testing.T) {
		other := testutil.Player()
		_, err := f.progress.RecordCompletion(ctx, f.coach, CompletionInput{
			EventID:      "evt-foreign",
			PlayerID:     other.ID,
			AssignmentID: &target.ID,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("player records for someone else", func(t *testing.T) {
		_, err := f.progress.RecordCompletion(ctx, f.player, CompletionInput{PlayerID: testutil.Player().ID})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("duration out of range", func(t *testing.T) {
		_, err := f.progress.RecordCompletion(ctx, f.player, CompletionInput{DurationMinutes: -5})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestBreakingPointResolves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.progress.CreateBreakingPoint(ctx, f.player, f.player.ID, "Lag putting", "three-putts from 40ft")
	require.NoError(t, err)

	for range 50 {
		_, err := f.progress.RecordCompletion(ctx, f.player, CompletionInput{DurationMinutes: 20})
		require.NoError(t, err)
	}
	bps, err := f.progress.ListBreakingPoints(ctx, f.player, f.player.ID)
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.Equal(t, 100, bps[0].ProgressPercent)
	assert.Equal(t, domain.BreakingPointResolved, bps[0].Status)
	require.NotNil(t, bps[0].ResolvedAt)

	res, err := f.progress.RecordCompletion(ctx, f.player, CompletionInput{DurationMinutes: 20})
	require.NoError(t, err)
	assert.Empty(t, res.BreakingPoints)
}

func TestCreateBreakingPoint(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.progress.CreateBreakingPoint(ctx, f.player, f.player.ID, "  ", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.progress.CreateBreakingPoint(ctx, testutil.Player(), f.player.ID, "Driver path", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSummaries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)

	t.Run("week excludes rest days", func(t *testing.T) {
		summary, err := f.progress.WeekSummary(ctx, f.player, plan.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 6, summary.Total)
		assert.Equal(t, 6, summary.Planned)
		assert.Zero(t, summary.CompletionRate)
		assert.Equal(t, testutil.Date("2026-03-05"), summary.From)
		assert.Equal(t, testutil.Date("2026-03-11"), summary.To)
	})

	t.Run("month", func(t *testing.T) {
		_, err := f.adjust.BulkUpdate(ctx, f.player, plan.ID, Selector{Week: ptr(6)}, domain.AssignmentPatch{
			Status: ptr(domain.StatusSkipped),
		})
		require.NoError(t, err)

		summary, err := f.progress.MonthSummary(ctx, f.player, plan.ID, 2026, time.February)
		require.NoError(t, err)
		assert.Equal(t, 24, summary.Total)
		assert.Equal(t, 6, summary.Skipped)
		assert.Equal(t, 18, summary.Planned)
	})

	t.Run("month outside the plan", func(t *testing.T) {
		_, err := f.progress.MonthSummary(ctx, f.player, plan.ID, 2027, time.March)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("week outside the plan", func(t *testing.T) {
		_, err := f.progress.WeekSummary(ctx, f.player, plan.ID, 53)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
