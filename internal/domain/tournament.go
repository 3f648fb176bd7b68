package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Importance of a scheduled competitive event.
type Importance string

const (
	ImportanceA Importance = "A"
	ImportanceB Importance = "B"
)

func (i Importance) Valid() bool {
	return i == ImportanceA || i == ImportanceB
}

// ScheduledTournament anchors an external event to the plan. Topping raises
// load in the weeks before it, tapering lowers it in the days before it.
type ScheduledTournament struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID               primitive.ObjectID `bson:"planId" json:"planId"`
	PlayerID             primitive.ObjectID `bson:"playerId" json:"playerId"`
	Name                 string             `bson:"name" json:"name"`
	StartDate            time.Time          `bson:"startDate" json:"startDate"`
	EndDate              time.Time          `bson:"endDate" json:"endDate"`
	WeekNumber           int                `bson:"weekNumber" json:"weekNumber"`
	Importance           Importance         `bson:"importance" json:"importance"`
	ToppingStartWeek     int                `bson:"toppingStartWeek" json:"toppingStartWeek"`
	ToppingDurationWeeks int                `bson:"toppingDurationWeeks" json:"toppingDurationWeeks"`
	TaperingStartDate    time.Time          `bson:"taperingStartDate" json:"taperingStartDate"`
	TaperingDurationDays int                `bson:"taperingDurationDays" json:"taperingDurationDays"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}
