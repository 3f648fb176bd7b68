package planner

import (
	"sort"

	"alcyxob/annual-plan/internal/domain"
)

// PhaseWindow is a contiguous run of weeks sharing one phase.
type PhaseWindow struct {
	Code      domain.PeriodCode
	StartWeek int
	EndWeek   int
}

// Len is the number of weeks in the window.
func (w PhaseWindow) Len() int {
	return w.EndWeek - w.StartWeek + 1
}

// explicitBoundaries are the fixed phase boundaries of a 52-week plan.
var explicitBoundaries = []PhaseWindow{
	{Code: domain.CodeEvaluation, StartWeek: 1, EndWeek: 4},
	{Code: domain.CodeBase, StartWeek: 5, EndWeek: 20},
	{Code: domain.CodeSpecialization, StartWeek: 21, EndWeek: 36},
	{Code: domain.CodeTournament, StartWeek: 37, EndWeek: 52},
}

// ExplicitTaperWeeks is how many final tournament weeks taper in explicit mode.
const ExplicitTaperWeeks = 3

// ExplicitWindows returns the fixed boundaries cut or stretched to totalWeeks.
func ExplicitWindows(totalWeeks int) []PhaseWindow {
	var windows []PhaseWindow
	for _, w := range explicitBoundaries {
		if w.StartWeek > totalWeeks {
			break
		}
		if w.EndWeek > totalWeeks {
			w.EndWeek = totalWeeks
		}
		windows = append(windows, w)
	}
	windows[len(windows)-1].EndWeek = totalWeeks
	return windows
}

// WindowsFromPeriods maps the plan's dated periods onto week windows. A window
// starts at the week containing its period's start and runs until the next
// window begins, so gaps between periods inherit the preceding phase. The
// first window is extended back to week 1.
func WindowsFromPeriods(plan *domain.AnnualPlan) []PhaseWindow {
	total := plan.TotalWeeks()
	if len(plan.Periods) == 0 {
		return []PhaseWindow{{Code: domain.CodeBase, StartWeek: 1, EndWeek: total}}
	}

	periods := make([]domain.Period, len(plan.Periods))
	copy(periods, plan.Periods)
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].StartDate.Before(periods[j].StartDate)
	})

	var windows []PhaseWindow
	for _, p := range periods {
		start := plan.WeekOf(p.StartDate)
		if len(windows) == 0 {
			start = 1
		} else if start <= windows[len(windows)-1].StartWeek {
			// shorter than a week behind the previous period; the earlier one keeps the week
			continue
		}
		if len(windows) > 0 {
			windows[len(windows)-1].EndWeek = start - 1
		}
		windows = append(windows, PhaseWindow{Code: p.Type.Code(), StartWeek: start, EndWeek: total})
	}
	return windows
}

// WindowsFromPhaseWeeks lays base, specialization and tournament blocks back
// to back at the end of the plan; leading weeks left over are evaluation.
func WindowsFromPhaseWeeks(totalWeeks int, pw domain.PhaseWeeks) ([]PhaseWindow, error) {
	if pw.Base < 0 || pw.Specialization < 0 || pw.Tournament < 0 {
		return nil, domain.NewValidationError("phaseWeeks", "week counts must not be negative")
	}
	if pw.Total() == 0 {
		return nil, domain.NewValidationError("phaseWeeks", "at least one phase needs weeks")
	}
	if pw.Total() > totalWeeks {
		return nil, domain.NewValidationError("phaseWeeks", "%d weeks requested but the plan spans %d", pw.Total(), totalWeeks)
	}

	var windows []PhaseWindow
	next := 1
	add := func(code domain.PeriodCode, n int) {
		if n <= 0 {
			return
		}
		windows = append(windows, PhaseWindow{Code: code, StartWeek: next, EndWeek: next + n - 1})
		next += n
	}
	add(domain.CodeEvaluation, totalWeeks-pw.Total())
	add(domain.CodeBase, pw.Base)
	add(domain.CodeSpecialization, pw.Specialization)
	add(domain.CodeTournament, pw.Tournament)
	return windows, nil
}
