package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/planner"
	"alcyxob/annual-plan/internal/repository"
	"alcyxob/annual-plan/internal/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// testNow is before the 2026 season so every generated day is planned.
var testNow = time.Date(2025, 12, 15, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store    repository.Store
	clock    Clock
	plans    PlanService
	adjust   AdjustmentService
	progress ProgressService
	review   ReviewService
	sink     *testutil.RecordingSink
	player   domain.Actor
	coach    domain.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, testutil.NewTestStore(t), testNow)
}

func newFixtureWithStore(t *testing.T, store repository.Store, now time.Time) *fixture {
	t.Helper()
	clock := Clock(testutil.Clock(now))
	sink := &testutil.RecordingSink{}
	return &fixture{
		store:    store,
		clock:    clock,
		plans:    NewPlanService(store, planner.NewRand(1), PlanDefaults{Mode: domain.ModeStructural, RestWeekday: time.Sunday}, clock, discard),
		adjust:   NewAdjustmentService(store, clock, discard),
		progress: NewProgressService(store, clock, discard),
		review:   NewReviewService(store, sink, clock, discard),
		sink:     sink,
		player:   testutil.Player(),
		coach:    testutil.Coach(),
	}
}

func yearInput() CreatePlanInput {
	return CreatePlanInput{
		Name:              "2026 season",
		StartDate:         testutil.Date("2026-01-01"),
		EndDate:           testutil.Date("2026-12-31"),
		WeeklyHoursTarget: 20,
		Periods:           testutil.YearPeriods(2026),
	}
}

// createPlan creates a draft 2026 plan for the fixture player.
func (f *fixture) createPlan(t *testing.T) *domain.AnnualPlan {
	t.Helper()
	plan, err := f.plans.CreatePlan(context.Background(), f.player, yearInput())
	require.NoError(t, err)
	return plan
}

// generatedPlan creates and fully generates a 2026 plan.
func (f *fixture) generatedPlan(t *testing.T) *domain.AnnualPlan {
	t.Helper()
	plan := f.createPlan(t)
	res, err := f.plans.GeneratePlan(context.Background(), f.player, plan.ID)
	require.NoError(t, err)
	return res.Plan
}

func (f *fixture) dayOf(t *testing.T, plan *domain.AnnualPlan, date string) []domain.DailyAssignment {
	t.Helper()
	day, err := f.store.Assignments().ListByDate(context.Background(), plan.ID, testutil.Date(date))
	require.NoError(t, err)
	return day
}

func (f *fixture) one(t *testing.T, plan *domain.AnnualPlan, date string) domain.DailyAssignment {
	t.Helper()
	day := f.dayOf(t, plan, date)
	require.Len(t, day, 1)
	return day[0]
}

func (f *fixture) setStatus(t *testing.T, plan *domain.AnnualPlan, status domain.PlanStatus) {
	t.Helper()
	plan.Status = status
	require.NoError(t, f.store.Plans().Update(context.Background(), plan))
}

func ptr[T any](v T) *T { return &v }
