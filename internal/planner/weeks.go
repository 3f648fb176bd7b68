package planner

import (
	"alcyxob/annual-plan/internal/domain"
)

// GenerateWeeks produces exactly one periodization row per week of the plan,
// numbered 1..TotalWeeks. Rows carry no ids or timestamps; persistence decides
// which of them are new.
func GenerateWeeks(plan *domain.AnnualPlan, rng Rand) ([]domain.WeekPeriodization, error) {
	total := plan.TotalWeeks()

	switch plan.Mode {
	case domain.ModeExplicit:
		return explicitWeeks(plan, ExplicitWindows(total), rng), nil
	case domain.ModeStructural, "":
		windows := WindowsFromPeriods(plan)
		if plan.PhaseWeeks != nil && len(plan.Periods) == 0 {
			var err error
			windows, err = WindowsFromPhaseWeeks(total, *plan.PhaseWeeks)
			if err != nil {
				return nil, err
			}
		}
		return structuralWeeks(plan, windows), nil
	default:
		return nil, domain.NewValidationError("mode", "unknown generation mode %q", plan.Mode)
	}
}

func newWeek(plan *domain.AnnualPlan, week int, w PhaseWindow) domain.WeekPeriodization {
	profile := Profile(w.Code)
	return domain.WeekPeriodization{
		PlanID:           plan.ID,
		PlayerID:         plan.PlayerID,
		WeekNumber:       week,
		StartDate:        plan.WeekStart(week),
		Period:           w.Code,
		PeriodPhase:      w.Code.Phase(),
		WeekInPeriod:     week - w.StartWeek + 1,
		Priorities:       profile.Priorities,
		LearningPhaseMin: profile.LearningPhaseMin,
		LearningPhaseMax: profile.LearningPhaseMax,
		ClubSpeedMin:     profile.ClubSpeedMin,
		ClubSpeedMax:     profile.ClubSpeedMax,
	}
}

// structuralWeeks ramps hours across each window and alternates load.
func structuralWeeks(plan *domain.AnnualPlan, windows []PhaseWindow) []domain.WeekPeriodization {
	weeks := make([]domain.WeekPeriodization, 0, plan.TotalWeeks())
	for _, w := range windows {
		hours := Profile(w.Code).Hours
		n := w.Len()
		for week := w.StartWeek; week <= w.EndWeek; week++ {
			wp := newWeek(plan, week, w)
			i := wp.WeekInPeriod
			wp.PlannedHours = interpolate(hours, i, n)

			switch w.Code {
			case domain.CodeEvaluation:
				wp.VolumeIntensity = domain.VolumeLow
			case domain.CodeBase:
				wp.VolumeIntensity = domain.VolumeHigh
				if i%4 == 0 {
					wp.VolumeIntensity = domain.VolumeLow
					wp.PeriodPhase = domain.PhaseRecovery
					wp.PlannedHours = hours.Min
				}
			case domain.CodeSpecialization:
				wp.VolumeIntensity = domain.VolumeHigh
				if i%3 == 0 {
					wp.VolumeIntensity = domain.VolumeLow
					wp.PlannedHours = hours.Min
				}
			case domain.CodeTournament:
				wp.VolumeIntensity = domain.VolumePeak
				if n-i < 2 {
					wp.VolumeIntensity = domain.VolumeTaper
					wp.PlannedHours = hours.Min
				}
			}
			weeks = append(weeks, wp)
		}
	}
	return weeks
}

// explicitWeeks draws hours from each phase range and tapers the final weeks.
func explicitWeeks(plan *domain.AnnualPlan, windows []PhaseWindow, rng Rand) []domain.WeekPeriodization {
	total := plan.TotalWeeks()
	weeks := make([]domain.WeekPeriodization, 0, total)
	for _, w := range windows {
		profile := Profile(w.Code)
		for week := w.StartWeek; week <= w.EndWeek; week++ {
			wp := newWeek(plan, week, w)
			wp.PlannedHours = draw(rng, profile.Hours)

			switch w.Code {
			case domain.CodeEvaluation:
				wp.VolumeIntensity = domain.VolumeLow
			case domain.CodeBase:
				wp.VolumeIntensity = domain.VolumeHigh
				if wp.WeekInPeriod%4 == 0 {
					wp.VolumeIntensity = domain.VolumeLow
					wp.PeriodPhase = domain.PhaseRecovery
				}
			case domain.CodeSpecialization:
				wp.VolumeIntensity = domain.VolumeHigh
			case domain.CodeTournament:
				wp.VolumeIntensity = domain.VolumePeak
				if week > total-ExplicitTaperWeeks {
					wp.VolumeIntensity = domain.VolumeTaper
					wp.PlannedHours = draw(rng, TaperHours)
				}
			}
			weeks = append(weeks, wp)
		}
	}
	return weeks
}
