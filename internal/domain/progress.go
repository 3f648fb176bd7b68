package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BreakingPointStatus tracks an improvement-tracking record.
type BreakingPointStatus string

const (
	BreakingPointInProgress BreakingPointStatus = "in_progress"
	BreakingPointResolved   BreakingPointStatus = "resolved"
)

// ProgressPerSession is the fixed percentage a completed session adds to every
// in-progress breaking point of the player.
const ProgressPerSession = 2

// BreakingPoint tracks a specific skill deficiency of a player.
type BreakingPoint struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlayerID        primitive.ObjectID  `bson:"playerId" json:"playerId"`
	Title           string              `bson:"title" json:"title"`
	Description     string              `bson:"description,omitempty" json:"description,omitempty"`
	ProgressPercent int                 `bson:"progressPercent" json:"progressPercent"`
	Status          BreakingPointStatus `bson:"status" json:"status"`
	ResolvedAt      *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ApplySession advances the record by one completed session. It returns false
// when the record is not in progress and nothing changed.
func (b *BreakingPoint) ApplySession(now time.Time) bool {
	if b.Status != BreakingPointInProgress {
		return false
	}
	b.ProgressPercent += ProgressPerSession
	if b.ProgressPercent >= 100 {
		b.ProgressPercent = 100
		b.Status = BreakingPointResolved
		b.ResolvedAt = &now
	}
	b.UpdatedAt = now
	return true
}

// SessionCompletion is a logged or finished session from the completion feed.
type SessionCompletion struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EventID         string              `bson:"eventId" json:"eventId"`
	PlayerID        primitive.ObjectID  `bson:"playerId" json:"playerId"`
	AssignmentID    *primitive.ObjectID `bson:"assignmentId,omitempty" json:"assignmentId,omitempty"`
	DurationMinutes int                 `bson:"durationMinutes" json:"durationMinutes"`
	CompletedAt     time.Time           `bson:"completedAt" json:"completedAt"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}

// ProgressSummary rolls up a week or month of assignments.
type ProgressSummary struct {
	PlanID          primitive.ObjectID  `json:"planId"`
	From            time.Time           `json:"from"`
	To              time.Time           `json:"to"`
	Total           int                 `json:"total"`
	Planned         int                 `json:"planned"`
	Completed       int                 `json:"completed"`
	Skipped         int                 `json:"skipped"`
	CompletionRate  float64             `json:"completionRate"` // percent
	PlannedMinutes  int                 `json:"plannedMinutes"`
	ActualMinutes   int                 `json:"actualMinutes"`
	CompletedByType map[SessionType]int `json:"completedByType"`
}
