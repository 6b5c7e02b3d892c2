package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationAppointment = "appointment"
	NotificationBilling     = "billing"
	NotificationTelehealth  = "telehealth"
	NotificationSystem      = "system"
)

var ValidNotificationTypes = map[string]bool{
	NotificationAppointment: true, NotificationBilling: true,
	NotificationTelehealth: true, NotificationSystem: true,
}

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Type      string             `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type NotificationFilter struct {
	UserID     primitive.ObjectID
	UnreadOnly bool
}

func (f NotificationFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.UserID.IsZero() {
		filter["userId"] = f.UserID
	}
	if f.UnreadOnly {
		filter["read"] = false
	}
	return filter
}

func (f NotificationFilter) Match(n *Notification) bool {
	if !f.UserID.IsZero() && n.UserID != f.UserID {
		return false
	}
	if f.UnreadOnly && n.Read {
		return false
	}
	return true
}
