package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SessionScheduled = "scheduled"
	SessionActive    = "active"
	SessionEnded     = "ended"
)

type Participant struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
	LeftAt   *time.Time         `bson:"leftAt,omitempty" json:"leftAt,omitempty"`
}

// TelehealthSession tracks who joined a remote consultation. The video call
// itself runs on an external provider reachable through JoinURL.
type TelehealthSession struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID primitive.ObjectID `bson:"appointmentId" json:"appointmentId"`
	DoctorID      primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	PatientID     primitive.ObjectID `bson:"patientId" json:"patientId"`
	RoomID        string             `bson:"roomId" json:"roomId"`
	JoinURL       string             `bson:"joinUrl" json:"joinUrl"`
	Status        string             `bson:"status" json:"status"`
	Participants  []Participant      `bson:"participants" json:"participants"`
	StartedAt     *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	EndedAt       *time.Time         `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

func (s *TelehealthSession) IsMember(userID primitive.ObjectID) bool {
	return s.DoctorID == userID || s.PatientID == userID
}

type SessionFilter struct {
	AppointmentID primitive.ObjectID
	// MemberID matches sessions where the user is the doctor or the patient.
	MemberID primitive.ObjectID
}

func (f SessionFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.AppointmentID.IsZero() {
		filter["appointmentId"] = f.AppointmentID
	}
	if !f.MemberID.IsZero() {
		filter["$or"] = bson.A{
			bson.M{"doctorId": f.MemberID},
			bson.M{"patientId": f.MemberID},
		}
	}
	return filter
}

func (f SessionFilter) Match(s *TelehealthSession) bool {
	if !f.AppointmentID.IsZero() && s.AppointmentID != f.AppointmentID {
		return false
	}
	if !f.MemberID.IsZero() && !s.IsMember(f.MemberID) {
		return false
	}
	return true
}
