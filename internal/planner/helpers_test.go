package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func period(t *testing.T, typ domain.PeriodType, name, start, end string) domain.Period {
	return domain.Period{
		ID:              name,
		Type:            typ,
		Name:            name,
		StartDate:       date(t, start),
		EndDate:         date(t, end),
		WeeklyFrequency: 5,
	}
}

// yearPlan spans 2026-01-01..2026-12-31 with one period per phase.
func yearPlan(t *testing.T, mode domain.GenerationMode) *domain.AnnualPlan {
	return &domain.AnnualPlan{
		ID:        primitive.NewObjectID(),
		PlayerID:  primitive.NewObjectID(),
		Name:      "2026 season",
		StartDate: date(t, "2026-01-01"),
		EndDate:   date(t, "2026-12-31"),
		Status:    domain.PlanDraft,
		Mode:      mode,
		Periods: []domain.Period{
			period(t, domain.PeriodEvaluation, "eval", "2026-01-01", "2026-01-31"),
			period(t, domain.PeriodBase, "base", "2026-02-01", "2026-05-31"),
			period(t, domain.PeriodSpecialization, "spec", "2026-06-01", "2026-08-31"),
			period(t, domain.PeriodTournament, "season", "2026-09-01", "2026-12-31"),
		},
	}
}

func weekMap(weeks []domain.WeekPeriodization) map[int]domain.WeekPeriodization {
	m := make(map[int]domain.WeekPeriodization, len(weeks))
	for _, w := range weeks {
		m[w.WeekNumber] = w
	}
	return m
}
