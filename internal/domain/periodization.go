package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PeriodCode is the single-letter phase code stored on weekly and daily rows.
type PeriodCode string

const (
	CodeEvaluation     PeriodCode = "E"
	CodeBase           PeriodCode = "G"
	CodeSpecialization PeriodCode = "S"
	CodeTournament     PeriodCode = "T"
)

func (c PeriodCode) Valid() bool {
	switch c {
	case CodeEvaluation, CodeBase, CodeSpecialization, CodeTournament:
		return true
	}
	return false
}

// Phase returns the human label of the code.
func (c PeriodCode) Phase() PeriodPhase {
	switch c {
	case CodeEvaluation:
		return PhaseEvaluation
	case CodeBase:
		return PhaseBase
	case CodeSpecialization:
		return PhaseSpecialization
	case CodeTournament:
		return PhaseTournament
	}
	return ""
}

// PeriodPhase is the human readable label of a week.
type PeriodPhase string

const (
	PhaseEvaluation     PeriodPhase = "evaluation"
	PhaseBase           PeriodPhase = "base"
	PhaseSpecialization PeriodPhase = "specialization"
	PhaseTournament     PeriodPhase = "tournament"
	PhaseRecovery       PeriodPhase = "recovery" // deload week inside a base block
)

// VolumeIntensity is the load character of a week.
type VolumeIntensity string

const (
	VolumeLow   VolumeIntensity = "low"
	VolumeHigh  VolumeIntensity = "high"
	VolumePeak  VolumeIntensity = "peak"
	VolumeTaper VolumeIntensity = "taper"
)

// Priorities are the relative weights (1..5) of the training areas for a week.
type Priorities struct {
	Technique   int `bson:"technique" json:"technique"`
	Physical    int `bson:"physical" json:"physical"`
	Competition int `bson:"competition" json:"competition"`
	Play        int `bson:"play" json:"play"`
	GolfShot    int `bson:"golfShot" json:"golfShot"`
}

// WeekPeriodization is the per-week record of a plan: phase, target hours and
// priority weighting. Exactly one exists per (player, plan, week number).
type WeekPeriodization struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID           primitive.ObjectID `bson:"planId" json:"planId"`
	PlayerID         primitive.ObjectID `bson:"playerId" json:"playerId"`
	WeekNumber       int                `bson:"weekNumber" json:"weekNumber"`
	StartDate        time.Time          `bson:"startDate" json:"startDate"`
	Period           PeriodCode         `bson:"period" json:"period"`
	PeriodPhase      PeriodPhase        `bson:"periodPhase" json:"periodPhase"`
	WeekInPeriod     int                `bson:"weekInPeriod" json:"weekInPeriod"`
	PlannedHours     int                `bson:"plannedHours" json:"plannedHours"`
	VolumeIntensity  VolumeIntensity    `bson:"volumeIntensity" json:"volumeIntensity"`
	Priorities       Priorities         `bson:"priorities" json:"priorities"`
	LearningPhaseMin string             `bson:"learningPhaseMin" json:"learningPhaseMin"` // e.g. "L1"
	LearningPhaseMax string             `bson:"learningPhaseMax" json:"learningPhaseMax"`
	ClubSpeedMin     string             `bson:"clubSpeedMin" json:"clubSpeedMin"` // e.g. "CS20"
	ClubSpeedMax     string             `bson:"clubSpeedMax" json:"clubSpeedMax"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
