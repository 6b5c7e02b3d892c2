package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Role       string             `bson:"role" json:"role"`
	Action     string             `bson:"action" json:"action"`
	Resource   string             `bson:"resource" json:"resource"`
	ResourceID string             `bson:"resourceId,omitempty" json:"resourceId,omitempty"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

type ActivityFilter struct {
	UserID primitive.ObjectID
	Action string
}

func (f ActivityFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.UserID.IsZero() {
		filter["userId"] = f.UserID
	}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	return filter
}

func (f ActivityFilter) Match(a *ActivityLog) bool {
	if !f.UserID.IsZero() && a.UserID != f.UserID {
		return false
	}
	if f.Action != "" && a.Action != f.Action {
		return false
	}
	return true
}
