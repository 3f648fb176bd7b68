package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
)

// Actor is the authenticated user performing an operation. Identity itself is
// issued elsewhere; the engine only records who made each change.
type Actor struct {
	ID   primitive.ObjectID `bson:"id" json:"id"`
	Role Role               `bson:"role" json:"role"`
}

func (a Actor) IsCoach() bool {
	return a.Role == RoleCoach
}

func (a Actor) IsPlayer() bool {
	return a.Role == RolePlayer
}

// String renders the actor for audit entries and logs.
func (a Actor) String() string {
	return string(a.Role) + ":" + a.ID.Hex()
}
