package planner

import "alcyxob/annual-plan/internal/domain"

// PhaseProfile holds the fixed generation parameters of a phase.
type PhaseProfile struct {
	Code             domain.PeriodCode
	Hours            Range
	Priorities       domain.Priorities
	LearningPhaseMin string
	LearningPhaseMax string
	ClubSpeedMin     string
	ClubSpeedMax     string
}

// TaperHours is the weekly hours range of taper weeks before competition.
var TaperHours = Range{Min: 12, Max: 15}

// SessionMinutes is the duration range of a generated training session.
var SessionMinutes = Range{Min: 90, Max: 180}

var profiles = map[domain.PeriodCode]PhaseProfile{
	domain.CodeEvaluation: {
		Code:             domain.CodeEvaluation,
		Hours:            Range{Min: 15, Max: 18},
		Priorities:       domain.Priorities{Technique: 3, Physical: 3, Competition: 1, Play: 2, GolfShot: 3},
		LearningPhaseMin: "L1",
		LearningPhaseMax: "L3",
		ClubSpeedMin:     "CS20",
		ClubSpeedMax:     "CS60",
	},
	domain.CodeBase: {
		Code:             domain.CodeBase,
		Hours:            Range{Min: 25, Max: 28},
		Priorities:       domain.Priorities{Technique: 5, Physical: 4, Competition: 1, Play: 2, GolfShot: 3},
		LearningPhaseMin: "L1",
		LearningPhaseMax: "L3",
		ClubSpeedMin:     "CS20",
		ClubSpeedMax:     "CS70",
	},
	domain.CodeSpecialization: {
		Code:             domain.CodeSpecialization,
		Hours:            Range{Min: 22, Max: 25},
		Priorities:       domain.Priorities{Technique: 4, Physical: 3, Competition: 3, Play: 3, GolfShot: 4},
		LearningPhaseMin: "L3",
		LearningPhaseMax: "L5",
		ClubSpeedMin:     "CS60",
		ClubSpeedMax:     "CS90",
	},
	domain.CodeTournament: {
		Code:             domain.CodeTournament,
		Hours:            Range{Min: 18, Max: 22},
		Priorities:       domain.Priorities{Technique: 2, Physical: 2, Competition: 5, Play: 5, GolfShot: 5},
		LearningPhaseMin: "L4",
		LearningPhaseMax: "L5",
		ClubSpeedMin:     "CS80",
		ClubSpeedMax:     "CS100",
	},
}

// Profile returns the generation parameters of a phase code. Unknown codes
// fall back to the base profile.
func Profile(code domain.PeriodCode) PhaseProfile {
	if p, ok := profiles[code]; ok {
		return p
	}
	return profiles[domain.CodeBase]
}
