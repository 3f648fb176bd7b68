package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanExport describes a calendar export written to object storage.
// The actual file resides in S3.
type PlanExport struct {
	PlanID      primitive.ObjectID `json:"planId"`
	ObjectKey   string             `json:"-"`
	DownloadURL string             `json:"downloadUrl"`
	Rows        int                `json:"rows"`
	ExpiresAt   time.Time          `json:"expiresAt"`
	CreatedAt   time.Time          `json:"createdAt"`
}
