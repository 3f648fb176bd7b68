package planner

import (
	"alcyxob/annual-plan/internal/domain"
)

// Redistribute spreads newHours evenly over the week's training sessions.
// Each session gets floor(newHours*60/sessions) minutes, so at most
// sessions-1 minutes are lost to rounding. Rest days are returned unchanged.
// It reports how many assignments were resized. A week without training
// sessions, or a share above MaxSessionMinutes, is rejected.
func Redistribute(week []domain.DailyAssignment, newHours int) ([]domain.DailyAssignment, int, error) {
	sessions := 0
	for _, a := range week {
		if !a.IsRestDay {
			sessions++
		}
	}
	if sessions == 0 {
		return nil, 0, domain.NewValidationError("week", "no training sessions to carry %d hours", newHours)
	}

	per := newHours * 60 / sessions
	if per > MaxSessionMinutes {
		return nil, 0, domain.NewValidationError("hours", "%d hours over %d sessions exceeds %d minutes per session", newHours, sessions, MaxSessionMinutes)
	}

	out := make([]domain.DailyAssignment, len(week))
	copy(out, week)
	for i := range out {
		if out[i].IsRestDay {
			continue
		}
		out[i].EstimatedDuration = per
	}
	return out, sessions, nil
}

// ValidateHours bounds a weekly hours target.
func ValidateHours(hours int) error {
	if hours < 0 || hours > 7*24 {
		return domain.NewValidationError("hours", "%d hours outside [0,168]", hours)
	}
	return nil
}
