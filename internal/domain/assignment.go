package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus type for assignment lifecycle
type AssignmentStatus string

const (
	StatusPlanned   AssignmentStatus = "planned"
	StatusCompleted AssignmentStatus = "completed"
	StatusSkipped   AssignmentStatus = "skipped"
)

func (s AssignmentStatus) Valid() bool {
	return s == StatusPlanned || s == StatusCompleted || s == StatusSkipped
}

// SessionType is the kind of a daily session.
type SessionType string

const (
	SessionLongGame  SessionType = "long_game"
	SessionTechnique SessionType = "technique"
	SessionShortGame SessionType = "short_game"
	SessionPhysical  SessionType = "physical"
	SessionPutting   SessionType = "putting"
	SessionOnCourse  SessionType = "on_course"
	SessionRest      SessionType = "rest"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionLongGame, SessionTechnique, SessionShortGame, SessionPhysical, SessionPutting, SessionOnCourse, SessionRest:
		return true
	}
	return false
}

// Intensity of a single session.
type Intensity string

const (
	IntensityNone   Intensity = "none"
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensityNone, IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// DailyAssignment is one calendar day's prescribed (or rest) activity.
// Identity is (plan, assigned date, session type).
type DailyAssignment struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlanID            primitive.ObjectID  `bson:"planId" json:"planId"`
	PlayerID          primitive.ObjectID  `bson:"playerId" json:"playerId"`
	AssignedDate      time.Time           `bson:"assignedDate" json:"assignedDate"`
	WeekNumber        int                 `bson:"weekNumber" json:"weekNumber"`
	DayOfWeek         time.Weekday        `bson:"dayOfWeek" json:"dayOfWeek"`
	SessionType       SessionType         `bson:"sessionType" json:"sessionType"`
	TemplateID        *primitive.ObjectID `bson:"templateId,omitempty" json:"templateId,omitempty"`
	EstimatedDuration int                 `bson:"estimatedDuration" json:"estimatedDuration"` // minutes
	Period            PeriodCode          `bson:"period" json:"period"`
	LearningPhase     string              `bson:"learningPhase,omitempty" json:"learningPhase,omitempty"`
	Intensity         Intensity           `bson:"intensity" json:"intensity"`
	IsRestDay         bool                `bson:"isRestDay" json:"isRestDay"`
	CanBeSubstituted  bool                `bson:"canBeSubstituted" json:"canBeSubstituted"` // false once edited by hand
	Status            AssignmentStatus    `bson:"status" json:"status"`
	Notes             string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// MakeRest turns the assignment into a rest day in place.
func (a *DailyAssignment) MakeRest(reason string) {
	a.IsRestDay = true
	a.SessionType = SessionRest
	a.TemplateID = nil
	a.EstimatedDuration = 0
	a.LearningPhase = ""
	a.Intensity = IntensityNone
	a.CanBeSubstituted = false
	if reason != "" {
		a.Notes = reason
	}
}

// AssignmentPatch is a partial update of a daily assignment. Nil fields are
// left untouched.
type AssignmentPatch struct {
	SessionType       *SessionType        `json:"sessionType,omitempty"`
	EstimatedDuration *int                `json:"estimatedDuration,omitempty"`
	LearningPhase     *string             `json:"learningPhase,omitempty"`
	Intensity         *Intensity          `json:"intensity,omitempty"`
	Status            *AssignmentStatus   `json:"status,omitempty"`
	Notes             *string             `json:"notes,omitempty"`
	TemplateID        *primitive.ObjectID `json:"templateId,omitempty"`
}

// Empty reports whether the patch carries no change at all.
func (p AssignmentPatch) Empty() bool {
	return p.SessionType == nil && p.EstimatedDuration == nil && p.LearningPhase == nil &&
		p.Intensity == nil && p.Status == nil && p.Notes == nil && p.TemplateID == nil
}
