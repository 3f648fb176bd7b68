package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionTemplate is a reusable session definition in the coach's catalog.
// Manual edits that reference a template take its type, duration and
// learning phase.
type SessionTemplate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"` // who maintains it
	Name          string             `bson:"name" json:"name"`
	SessionType   SessionType        `bson:"sessionType" json:"sessionType"`
	Duration      int                `bson:"duration" json:"duration"` // minutes
	LearningPhase string             `bson:"learningPhase,omitempty" json:"learningPhase,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
