package planner

import (
	"fmt"
	"time"

	"alcyxob/annual-plan/internal/domain"
)

var weekdaySessions = map[time.Weekday]domain.SessionType{
	time.Monday:    domain.SessionLongGame,
	time.Tuesday:   domain.SessionTechnique,
	time.Wednesday: domain.SessionShortGame,
	time.Thursday:  domain.SessionPhysical,
	time.Friday:    domain.SessionPutting,
	time.Saturday:  domain.SessionOnCourse,
}

// SessionFor returns the session type trained on a weekday. When the rest day
// is moved off Sunday, Sunday inherits the displaced session.
func SessionFor(day, restDay time.Weekday) domain.SessionType {
	if day == restDay {
		return domain.SessionRest
	}
	if day == time.Sunday {
		return weekdaySessions[restDay]
	}
	return weekdaySessions[day]
}

// IntensityFor maps a week's load to a session intensity.
func IntensityFor(v domain.VolumeIntensity) domain.Intensity {
	switch v {
	case domain.VolumeHigh:
		return domain.IntensityMedium
	case domain.VolumePeak:
		return domain.IntensityHigh
	default:
		return domain.IntensityLow
	}
}

// LearningPhaseFor picks the week's upper learning bound for on-course and
// long game sessions and the lower bound for everything else.
func LearningPhaseFor(t domain.SessionType, week domain.WeekPeriodization) string {
	switch t {
	case domain.SessionRest:
		return ""
	case domain.SessionOnCourse, domain.SessionLongGame:
		return week.LearningPhaseMax
	default:
		return week.LearningPhaseMin
	}
}

// GenerateDays produces one assignment per calendar day of the plan. Every
// owning week must be present in weeks, keyed by week number. Days before
// today are generated as completed.
func GenerateDays(plan *domain.AnnualPlan, weeks map[int]domain.WeekPeriodization, rng Rand, today time.Time) ([]domain.DailyAssignment, error) {
	start := domain.DateOnly(plan.StartDate)
	today = domain.DateOnly(today)
	days := plan.TotalDays()

	out := make([]domain.DailyAssignment, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		weekNo := plan.WeekOf(date)
		week, ok := weeks[weekNo]
		if !ok {
			return nil, &domain.NotFoundError{Entity: "week periodization", Key: fmt.Sprintf("%s/%d", plan.ID.Hex(), weekNo)}
		}

		a := domain.DailyAssignment{
			PlanID:           plan.ID,
			PlayerID:         plan.PlayerID,
			AssignedDate:     date,
			WeekNumber:       weekNo,
			DayOfWeek:        date.Weekday(),
			SessionType:      SessionFor(date.Weekday(), plan.RestWeekday),
			Period:           week.Period,
			CanBeSubstituted: true,
			Status:           domain.StatusPlanned,
		}
		if date.Before(today) {
			a.Status = domain.StatusCompleted
		}

		if a.SessionType == domain.SessionRest {
			a.MakeRest("")
			a.CanBeSubstituted = true
			out = append(out, a)
			continue
		}
		a.EstimatedDuration = draw(rng, SessionMinutes)
		a.LearningPhase = LearningPhaseFor(a.SessionType, week)
		a.Intensity = IntensityFor(week.VolumeIntensity)
		out = append(out, a)
	}
	return out, nil
}
