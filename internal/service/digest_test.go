package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/notify"
	"alcyxob/annual-plan/internal/testutil"
)

func TestDigestJob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)
	f.setStatus(t, plan, domain.PlanActive)

	target := f.one(t, plan, "2026-03-09")
	_, err := f.progress.RecordCompletion(ctx, f.player, CompletionInput{
		EventID:         "digest-1",
		AssignmentID:    &target.ID,
		DurationMinutes: 95,
	})
	require.NoError(t, err)

	// neither an ended active plan nor a draft gets a digest
	ended := testutil.NewTestPlan(testutil.Player().ID,
		testutil.WithSpan(testutil.Date("2025-01-01"), testutil.Date("2025-12-31")),
		testutil.WithPeriods(testutil.YearPeriods(2025)),
		testutil.WithStatus(domain.PlanActive))
	_, err = f.store.Plans().Create(ctx, ended)
	require.NoError(t, err)
	_, err = f.store.Plans().Create(ctx, testutil.NewTestPlan(testutil.Player().ID))
	require.NoError(t, err)

	thursday := time.Date(2026, 3, 12, 6, 0, 0, 0, time.UTC)
	job := NewDigestJob(f.store, f.sink, testutil.Clock(thursday), discard)

	sent, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	events := f.sink.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, notify.EventWeeklyDigest, e.Type)
	assert.Equal(t, plan.ID, e.PlanID)
	assert.Equal(t, "2026-03-05", e.Payload["from"])
	assert.Equal(t, "2026-03-11", e.Payload["to"])
	assert.Equal(t, 1, e.Payload["completed"])
	assert.Equal(t, 6, e.Payload["total"])
	assert.Equal(t, "17%", e.Payload["completionRate"])
	assert.Equal(t, 95, e.Payload["actualMinutes"])
}

func TestDigestJobClipsToPlanStart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)
	f.setStatus(t, plan, domain.PlanActive)

	job := NewDigestJob(f.store, f.sink, testutil.Clock(time.Date(2026, 1, 4, 6, 0, 0, 0, time.UTC)), discard)
	sent, err := job.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sent)
	e := f.sink.Events()[0]
	assert.Equal(t, "2026-01-01", e.Payload["from"])
	assert.Equal(t, "2026-01-03", e.Payload["to"])
	assert.Equal(t, 3, e.Payload["total"])
}

func TestDigestJobSkipsFailedDeliveries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.generatedPlan(t)
	f.setStatus(t, plan, domain.PlanActive)
	f.sink.Err = errors.New("chat not found")

	job := NewDigestJob(f.store, f.sink, testutil.Clock(time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)), discard)
	sent, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, f.sink.Events(), 1)
}
