package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ValidFeedbackCategories = map[string]bool{
	"service": true, "doctor": true, "app": true, "other": true,
}

type Feedback struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"userId" json:"userId"`
	DoctorID      *primitive.ObjectID `bson:"doctorId,omitempty" json:"doctorId,omitempty"`
	AppointmentID *primitive.ObjectID `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	Rating        int                 `bson:"rating" json:"rating"`
	Comment       string              `bson:"comment" json:"comment"`
	Category      string              `bson:"category" json:"category"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}

type FeedbackFilter struct {
	DoctorID primitive.ObjectID
	Category string
}

func (f FeedbackFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.DoctorID.IsZero() {
		filter["doctorId"] = f.DoctorID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	return filter
}

func (f FeedbackFilter) Match(fb *Feedback) bool {
	if !f.DoctorID.IsZero() && (fb.DoctorID == nil || *fb.DoctorID != f.DoctorID) {
		return false
	}
	if f.Category != "" && fb.Category != f.Category {
		return false
	}
	return true
}
