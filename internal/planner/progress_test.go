package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

func TestSummarize(t *testing.T) {
	done := technique()
	done.Status = domain.StatusCompleted
	logged := technique()
	logged.SessionType = domain.SessionPutting
	logged.Status = domain.StatusCompleted
	skipped := technique()
	skipped.Status = domain.StatusSkipped
	planned := technique()
	rest := technique()
	rest.MakeRest("")

	planID := primitive.NewObjectID()
	s := Summarize(planID, done.AssignedDate, done.AssignedDate.AddDate(0, 0, 6),
		[]domain.DailyAssignment{done, logged, skipped, planned, rest},
		map[primitive.ObjectID]int{logged.ID: 30})

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Planned)
	assert.InDelta(t, 50.0, s.CompletionRate, 0.001)
	assert.Equal(t, 480, s.PlannedMinutes)
	assert.Equal(t, 150, s.ActualMinutes)
	assert.Equal(t, 1, s.CompletedByType[domain.SessionTechnique])
	assert.Equal(t, 1, s.CompletedByType[domain.SessionPutting])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(primitive.NewObjectID(), time.Now(), time.Now(), nil, nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.CompletionRate)
}

func TestMonthWindow(t *testing.T) {
	plan := yearPlan(t, domain.ModeStructural)
	plan.StartDate = date(t, "2026-01-15")

	from, to, ok := MonthWindow(plan, 2026, time.January)
	assert.True(t, ok)
	assert.Equal(t, date(t, "2026-01-15"), from)
	assert.Equal(t, date(t, "2026-01-31"), to)

	from, to, ok = MonthWindow(plan, 2026, time.February)
	assert.True(t, ok)
	assert.Equal(t, date(t, "2026-02-01"), from)
	assert.Equal(t, date(t, "2026-02-28"), to)

	_, _, ok = MonthWindow(plan, 2027, time.March)
	assert.False(t, ok)
}
