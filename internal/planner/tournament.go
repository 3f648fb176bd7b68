package planner

import (
	"time"

	"alcyxob/annual-plan/internal/domain"
)

// Topping and tapering defaults per importance.
var (
	toppingWeeks = map[domain.Importance]int{domain.ImportanceA: 3, domain.ImportanceB: 1}
	taperingDays = map[domain.Importance]int{domain.ImportanceA: 10, domain.ImportanceB: 5}
)

// TournamentWeek is the plan week a tournament starting on date falls in,
// ceil((date-start)/7), never below 1.
func TournamentWeek(plan *domain.AnnualPlan, date time.Time) int {
	days := domain.DaysBetween(plan.StartDate, date)
	return max(1, (days+6)/7)
}

// PlanTournament fills the derived fields of a new tournament. Zero topping
// or tapering durations take the importance defaults.
func PlanTournament(plan *domain.AnnualPlan, t domain.ScheduledTournament) (domain.ScheduledTournament, error) {
	if t.Name == "" {
		return t, domain.NewValidationError("name", "required")
	}
	if !t.Importance.Valid() {
		return t, domain.NewValidationError("importance", "must be A or B, got %q", t.Importance)
	}
	if t.ToppingDurationWeeks < 0 || t.TaperingDurationDays < 0 {
		return t, domain.NewValidationError("duration", "topping and tapering durations must not be negative")
	}
	if err := checkTournamentDates(plan, t.StartDate, t.EndDate); err != nil {
		return t, err
	}
	if t.ToppingDurationWeeks == 0 {
		t.ToppingDurationWeeks = toppingWeeks[t.Importance]
	}
	if t.TaperingDurationDays == 0 {
		t.TaperingDurationDays = taperingDays[t.Importance]
	}

	t.PlanID = plan.ID
	t.PlayerID = plan.PlayerID
	t.StartDate = domain.DateOnly(t.StartDate)
	t.EndDate = domain.DateOnly(t.EndDate)
	anchor(plan, &t)
	return t, nil
}

// RescheduleTournament moves a tournament. The tapering window keeps its
// length and only its start moves.
func RescheduleTournament(plan *domain.AnnualPlan, t domain.ScheduledTournament, newStart, newEnd time.Time) (domain.ScheduledTournament, error) {
	if err := checkTournamentDates(plan, newStart, newEnd); err != nil {
		return t, err
	}
	t.StartDate = domain.DateOnly(newStart)
	t.EndDate = domain.DateOnly(newEnd)
	anchor(plan, &t)
	return t, nil
}

func anchor(plan *domain.AnnualPlan, t *domain.ScheduledTournament) {
	t.WeekNumber = TournamentWeek(plan, t.StartDate)
	t.ToppingStartWeek = max(1, t.WeekNumber-t.ToppingDurationWeeks)
	t.TaperingStartDate = t.StartDate.AddDate(0, 0, -t.TaperingDurationDays)
}

func checkTournamentDates(plan *domain.AnnualPlan, start, end time.Time) error {
	if domain.DateOnly(end).Before(domain.DateOnly(start)) {
		return domain.NewValidationError("endDate", "must not be before start date")
	}
	if !plan.Contains(start) || !plan.Contains(end) {
		return domain.NewValidationError("startDate", "tournament %s..%s lies outside the plan",
			domain.DateOnly(start).Format(domain.DateLayout), domain.DateOnly(end).Format(domain.DateLayout))
	}
	return nil
}
