package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementPoints is the score awarded per tracked event.
var EngagementPoints = map[string]int{
	"page_view":          1,
	"service_viewed":     2,
	"appointment_booked": 10,
	"feedback_submitted": 5,
	"telehealth_joined":  5,
	"bill_paid":          3,
}

type EngagementEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Event     string             `bson:"event" json:"event"`
	Points    int                `bson:"points" json:"points"`
	Metadata  map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type EngagementFilter struct {
	UserID primitive.ObjectID
}

func (f EngagementFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.UserID.IsZero() {
		filter["userId"] = f.UserID
	}
	return filter
}

func (f EngagementFilter) Match(e *EngagementEvent) bool {
	return f.UserID.IsZero() || e.UserID == f.UserID
}
