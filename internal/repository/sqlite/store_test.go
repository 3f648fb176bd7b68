package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedPlan(t *testing.T, s *Store, playerID primitive.ObjectID, status domain.PlanStatus) *domain.AnnualPlan {
	t.Helper()
	p := &domain.AnnualPlan{
		PlayerID:  playerID,
		Name:      "2026",
		StartDate: day("2026-01-01"),
		EndDate:   day("2026-12-31"),
		Status:    status,
		Mode:      domain.ModeStructural,
		Periods: []domain.Period{{
			ID: "p1", Type: domain.PeriodBase, Name: "base",
			StartDate: day("2026-01-01"), EndDate: day("2026-03-31"), WeeklyFrequency: 5,
		}},
	}
	_, err := s.Plans().Create(context.Background(), p)
	require.NoError(t, err)
	return p
}

func TestPlanRepo_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	coach := primitive.NewObjectID()
	p := seedPlan(t, s, primitive.NewObjectID(), domain.PlanDraft)

	got, err := s.Plans().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.StartDate, got.StartDate)
	assert.Equal(t, p.Periods, got.Periods)
	assert.Nil(t, got.PhaseWeeks)
	assert.Nil(t, got.GeneratedAt)
	assert.Equal(t, time.Sunday, got.RestWeekday)

	now := time.Now().UTC()
	got.CoachID = &coach
	got.GeneratedAt = &now
	got.PhaseWeeks = &domain.PhaseWeeks{Base: 10}
	got.Status = domain.PlanPendingReview
	require.NoError(t, s.Plans().Update(ctx, got))

	again, err := s.Plans().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, coach, *again.CoachID)
	assert.True(t, now.Equal(*again.GeneratedAt))
	assert.Equal(t, 10, again.PhaseWeeks.Base)
	assert.Equal(t, domain.PlanPendingReview, again.Status)
	assert.True(t, p.CreatedAt.Equal(again.CreatedAt))
}

func TestPlanRepo_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Plans().GetByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = s.Plans().Delete(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanRepo_OneActivePerPlayer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	player := primitive.NewObjectID()
	seedPlan(t, s, player, domain.PlanActive)
	second := seedPlan(t, s, player, domain.PlanPendingReview)

	second.Status = domain.PlanActive
	err := s.Plans().Update(ctx, second)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// another player is unaffected
	seedPlan(t, s, primitive.NewObjectID(), domain.PlanActive)

	active, err := s.Plans().GetActiveByPlayer(ctx, player)
	require.NoError(t, err)
	assert.NotEqual(t, second.ID, active.ID)

	list, err := s.Plans().ListByStatus(ctx, domain.PlanActive)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPeriodizationRepo_CreateIfAbsentIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPlan(t, s, primitive.NewObjectID(), domain.PlanDraft)

	w := domain.WeekPeriodization{
		PlanID: p.ID, PlayerID: p.PlayerID, WeekNumber: 3, StartDate: p.WeekStart(3),
		Period: domain.CodeBase, PeriodPhase: domain.PhaseBase, WeekInPeriod: 3, PlannedHours: 26,
		VolumeIntensity: domain.VolumeHigh, Priorities: domain.Priorities{Technique: 5, Physical: 4},
	}
	first := w
	created, err := s.Periodizations().CreateIfAbsent(ctx, &first)
	require.NoError(t, err)
	assert.True(t, created)

	dup := w
	dup.PlannedHours = 99
	created, err = s.Periodizations().CreateIfAbsent(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.Periodizations().GetByWeek(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 26, got.PlannedHours)
	assert.Equal(t, 5, got.Priorities.Technique)
}

func TestAssignmentRepo_UniquePerDateAndType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPlan(t, s, primitive.NewObjectID(), domain.PlanDraft)

	a := domain.DailyAssignment{
		PlanID: p.ID, PlayerID: p.PlayerID, AssignedDate: day("2026-03-10"), WeekNumber: 10,
		DayOfWeek: time.Tuesday, SessionType: domain.SessionTechnique, EstimatedDuration: 120,
		Period: domain.CodeBase, Intensity: domain.IntensityMedium, CanBeSubstituted: true, Status: domain.StatusPlanned,
	}
	first := a
	created, err := s.Assignments().CreateIfAbsent(ctx, &first)
	require.NoError(t, err)
	assert.True(t, created)

	dup := a
	created, err = s.Assignments().CreateIfAbsent(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created)

	strict := a
	_, err = s.Assignments().Create(ctx, &strict)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	other := a
	other.SessionType = domain.SessionPhysical
	_, err = s.Assignments().Create(ctx, &other)
	require.NoError(t, err)

	list, err := s.Assignments().ListByDate(ctx, p.ID, day("2026-03-10"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.SessionPhysical, list[0].SessionType)
	assert.True(t, list[1].CanBeSubstituted)

	tmpl := primitive.NewObjectID()
	list[1].TemplateID = &tmpl
	list[1].MakeRest("rain")
	require.NoError(t, s.Assignments().Update(ctx, &list[1]))

	got, err := s.Assignments().GetByID(ctx, list[1].ID)
	require.NoError(t, err)
	assert.True(t, got.IsRestDay)
	assert.Nil(t, got.TemplateID)
	assert.Equal(t, "rain", got.Notes)
	assert.Equal(t, time.Tuesday, got.DayOfWeek)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPlan(t, s, primitive.NewObjectID(), domain.PlanDraft)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		require.NoError(t, tx.ChangeLog().Append(ctx, &domain.ChangeLogEntry{PlanID: p.ID, ChangeType: domain.ChangeSwap}))
		return tx.WithinTx(ctx, func(ctx context.Context, inner repository.Store) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	entries, err := s.ChangeLog().ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChangeLogRepo_OrderedByAppend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPlan(t, s, primitive.NewObjectID(), domain.PlanDraft)
	actor := domain.Actor{ID: primitive.NewObjectID(), Role: domain.RoleCoach}

	for _, ct := range []domain.ChangeType{domain.ChangeGenerate, domain.ChangeSwap, domain.ChangeBulkUpdate} {
		require.NoError(t, s.ChangeLog().Append(ctx, &domain.ChangeLogEntry{
			PlanID: p.ID, Actor: actor, ChangeType: ct, Payload: map[string]any{"week": 3},
		}))
	}

	entries, err := s.ChangeLog().ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ChangeGenerate, entries[0].ChangeType)
	assert.Equal(t, domain.ChangeBulkUpdate, entries[2].ChangeType)
	assert.Equal(t, actor, entries[1].Actor)
	assert.EqualValues(t, 3, entries[1].Payload["week"])
}

func TestDeletePlan_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPlan(t, s, primitive.NewObjectID(), domain.PlanDraft)

	_, err := s.Tournaments().Create(ctx, &domain.ScheduledTournament{
		PlanID: p.ID, PlayerID: p.PlayerID, Name: "Open", StartDate: day("2026-05-01"), EndDate: day("2026-05-03"),
		WeekNumber: 18, Importance: domain.ImportanceA, TaperingStartDate: day("2026-04-21"),
	})
	require.NoError(t, err)
	require.NoError(t, s.Plans().Delete(ctx, p.ID))

	list, err := s.Tournaments().ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCompletionRepo_EventIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	assignment := primitive.NewObjectID()
	c := domain.SessionCompletion{
		EventID: "evt-1", PlayerID: primitive.NewObjectID(), AssignmentID: &assignment,
		DurationMinutes: 95, CompletedAt: time.Now().UTC(),
	}

	first := c
	created, err := s.Completions().CreateIfAbsent(ctx, &first)
	require.NoError(t, err)
	assert.True(t, created)
	again := c
	created, err = s.Completions().CreateIfAbsent(ctx, &again)
	require.NoError(t, err)
	assert.False(t, created)

	list, err := s.Completions().ListByAssignments(ctx, []primitive.ObjectID{assignment, primitive.NewObjectID()})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 95, list[0].DurationMinutes)

	empty, err := s.Completions().ListByAssignments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBreakingPointAndTemplateRepos(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	player := primitive.NewObjectID()

	bp := &domain.BreakingPoint{PlayerID: player, Title: "Bunker exits", ProgressPercent: 98, Status: domain.BreakingPointInProgress}
	_, err := s.BreakingPoints().Create(ctx, bp)
	require.NoError(t, err)
	bp.ApplySession(time.Now().UTC())
	require.NoError(t, s.BreakingPoints().Update(ctx, bp))

	list, err := s.BreakingPoints().ListByPlayer(ctx, player)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.BreakingPointResolved, list[0].Status)
	assert.NotNil(t, list[0].ResolvedAt)
	n, err := s.BreakingPoints().CountByPlayer(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tmpl := &domain.SessionTemplate{CoachID: primitive.NewObjectID(), Name: "Wedge ladder", SessionType: domain.SessionShortGame, Duration: 60}
	_, err = s.Templates().Create(ctx, tmpl)
	require.NoError(t, err)
	got, err := s.Templates().GetByID(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wedge ladder", got.Name)
	_, err = s.Templates().GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMigrator_Version(t *testing.T) {
	s := newTestStore(t)
	m, err := NewMigrator(s.DB())
	require.NoError(t, err)

	v, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	v, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, m.Up())
}
