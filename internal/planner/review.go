package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"alcyxob/annual-plan/internal/domain"
)

// AssignmentTolerance is how far the number of distinct assigned dates may
// drift from the plan's day count before review fails.
const AssignmentTolerance = 7

var transitions = map[domain.PlanStatus][]domain.PlanStatus{
	domain.PlanDraft:         {domain.PlanPendingReview},
	domain.PlanNeedsRevision: {domain.PlanPendingReview},
	domain.PlanPendingReview: {domain.PlanActive, domain.PlanRejected, domain.PlanNeedsRevision},
}

// Transition checks a review workflow move.
func Transition(from, to domain.PlanStatus) error {
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return &domain.StateError{From: from, To: to}
}

// ReviewInput is everything the plan validator looks at.
type ReviewInput struct {
	Plan           *domain.AnnualPlan
	Weeks          []domain.WeekPeriodization
	Dates          []time.Time // assigned dates, in any order, duplicates allowed
	BreakingPoints int
}

// ValidatePlan runs every readiness check and returns all issues found. An
// empty result means the plan may be submitted.
func ValidatePlan(in ReviewInput) []string {
	var issues []string
	plan := in.Plan

	total := plan.TotalWeeks()
	have := make(map[int]bool, len(in.Weeks))
	for _, w := range in.Weeks {
		have[w.WeekNumber] = true
	}
	var missing []string
	for week := 1; week <= total; week++ {
		if !have[week] {
			missing = append(missing, strconv.Itoa(week))
		}
	}
	if len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("periodization covers %d of %d weeks (missing weeks %s)",
			total-len(missing), total, strings.Join(missing, ", ")))
	}

	distinct := make(map[time.Time]struct{}, len(in.Dates))
	for _, d := range in.Dates {
		distinct[domain.DateOnly(d)] = struct{}{}
	}
	expected := plan.TotalDays()
	if diff := len(distinct) - expected; diff > AssignmentTolerance || diff < -AssignmentTolerance {
		issues = append(issues, fmt.Sprintf("%d days have assignments, expected %d (tolerance %d)",
			len(distinct), expected, AssignmentTolerance))
	}

	dates := make([]time.Time, 0, len(distinct))
	for d := range distinct {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for i := 1; i < len(dates); i++ {
		if gap := domain.DaysBetween(dates[i-1], dates[i]); gap > 1 {
			issues = append(issues, fmt.Sprintf("no assignments between %s and %s",
				dates[i-1].Format(domain.DateLayout), dates[i].Format(domain.DateLayout)))
		}
	}

	if in.BreakingPoints == 0 {
		issues = append(issues, "player has no breaking points recorded")
	}
	return issues
}
