package planner

import (
	"sort"

	"alcyxob/annual-plan/internal/domain"
)

// MinWeeklyFrequency and MaxWeeklyFrequency bound Period.WeeklyFrequency.
const (
	MinWeeklyFrequency = 1
	MaxWeeklyFrequency = 7
)

// ValidatePeriods checks a period set for internal consistency. Every period
// is checked for a valid range and frequency, and every overlap between
// consecutive (by start date) periods is reported. The input is not modified.
// It returns nil or a domain.PeriodErrors holding all defects.
func ValidatePeriods(periods []domain.Period) error {
	var errs domain.PeriodErrors

	for _, p := range periods {
		if !domain.DateOnly(p.EndDate).After(domain.DateOnly(p.StartDate)) {
			errs = append(errs, &domain.InvalidRangeError{Period: p})
		}
		if p.WeeklyFrequency < MinWeeklyFrequency || p.WeeklyFrequency > MaxWeeklyFrequency {
			errs = append(errs, &domain.InvalidFrequencyError{Period: p})
		}
	}

	sorted := make([]domain.Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	// reach is the period ending latest among those already scanned; an
	// overlap is reported against it so a long period covering several
	// later ones is named each time.
	if len(sorted) > 1 {
		reach := sorted[0]
		for _, next := range sorted[1:] {
			if !domain.DateOnly(reach.EndDate).Before(domain.DateOnly(next.StartDate)) {
				errs = append(errs, &domain.OverlapError{First: reach, Second: next})
			}
			if next.EndDate.After(reach.EndDate) {
				reach = next
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
