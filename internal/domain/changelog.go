package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeType names a manual mutation recorded in the change log.
type ChangeType string

const (
	ChangeSingleAssignment     ChangeType = "update_single_assignment"
	ChangeBulkUpdate           ChangeType = "bulk_update"
	ChangeSwap                 ChangeType = "swap"
	ChangeInsertRestDay        ChangeType = "insert_rest_day"
	ChangeRemoveRestDay        ChangeType = "remove_rest_day"
	ChangeWeeklyVolume         ChangeType = "adjust_weekly_volume"
	ChangePeriodType           ChangeType = "change_period_type"
	ChangeRescheduleTournament ChangeType = "reschedule_tournament"
	ChangeScheduleTournament   ChangeType = "schedule_tournament"
	ChangeGenerate             ChangeType = "generate"
	ChangeReviewTransition     ChangeType = "review_transition"
)

// ChangeLogEntry is an append-only audit record of a plan mutation.
type ChangeLogEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID     primitive.ObjectID `bson:"planId" json:"planId"`
	Actor      Actor              `bson:"actor" json:"actor"`
	ChangeType ChangeType         `bson:"changeType" json:"changeType"`
	Payload    map[string]any     `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
