package planner

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

// Summarize aggregates a window of assignments. actual maps an assignment id
// to the duration reported by its completion event; completed assignments
// without one count their estimated duration. Rest days are ignored.
func Summarize(planID primitive.ObjectID, from, to time.Time, assignments []domain.DailyAssignment, actual map[primitive.ObjectID]int) domain.ProgressSummary {
	s := domain.ProgressSummary{
		PlanID:          planID,
		From:            domain.DateOnly(from),
		To:              domain.DateOnly(to),
		CompletedByType: make(map[domain.SessionType]int),
	}
	for _, a := range assignments {
		if a.IsRestDay {
			continue
		}
		s.Total++
		s.PlannedMinutes += a.EstimatedDuration

		switch a.Status {
		case domain.StatusPlanned:
			s.Planned++
		case domain.StatusSkipped:
			s.Skipped++
		case domain.StatusCompleted:
			s.Completed++
			s.CompletedByType[a.SessionType]++
			if d, ok := actual[a.ID]; ok {
				s.ActualMinutes += d
			} else {
				s.ActualMinutes += a.EstimatedDuration
			}
		}
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}

// MonthWindow is the calendar month intersected with the plan span. ok is
// false when they do not meet.
func MonthWindow(plan *domain.AnnualPlan, year int, month time.Month) (from, to time.Time, ok bool) {
	from = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, -1)
	start, end := domain.DateOnly(plan.StartDate), domain.DateOnly(plan.EndDate)
	if from.Before(start) {
		from = start
	}
	if to.After(end) {
		to = end
	}
	return from, to, !to.Before(from)
}
