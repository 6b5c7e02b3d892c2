package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no-show"
)

const (
	AppointmentInPerson   = "in-person"
	AppointmentTelehealth = "telehealth"
)

var ValidAppointmentStatuses = map[string]bool{
	AppointmentScheduled: true, AppointmentConfirmed: true, AppointmentCompleted: true,
	AppointmentCancelled: true, AppointmentNoShow: true,
}

var appointmentTransitions = map[string]map[string]bool{
	AppointmentScheduled: {
		AppointmentConfirmed: true, AppointmentCancelled: true,
		AppointmentNoShow: true, AppointmentCompleted: true,
	},
	AppointmentConfirmed: {
		AppointmentCompleted: true, AppointmentCancelled: true, AppointmentNoShow: true,
	},
}

// CanTransition reports whether an appointment may move from one status to another.
func CanTransition(from, to string) bool {
	return appointmentTransitions[from][to]
}

// IsOpen reports whether the appointment still occupies the doctor's calendar.
func (a *Appointment) IsOpen() bool {
	return a.Status == AppointmentScheduled || a.Status == AppointmentConfirmed
}

// IsParticipant reports whether userID is the patient or the doctor.
func (a *Appointment) IsParticipant(userID primitive.ObjectID) bool {
	return a.PatientID == userID || a.DoctorID == userID
}

type Appointment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID    primitive.ObjectID `bson:"patientId" json:"patientId"`
	PatientName  string             `bson:"patientName" json:"patientName"`
	DoctorID     primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	DoctorName   string             `bson:"doctorName" json:"doctorName"`
	StartTime    time.Time          `bson:"startTime" json:"startTime"`
	EndTime      time.Time          `bson:"endTime" json:"endTime"`
	Reason       string             `bson:"reason" json:"reason"`
	Type         string             `bson:"type" json:"type"`
	Status       string             `bson:"status" json:"status"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CancelReason string             `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type AppointmentFilter struct {
	PatientID primitive.ObjectID
	DoctorID  primitive.ObjectID
	Status    string
	// StartTime range, both ends inclusive.
	From *time.Time
	To   *time.Time
	// Overlap matches open appointments intersecting [OverlapStart, OverlapEnd).
	OverlapStart *time.Time
	OverlapEnd   *time.Time
	ExcludeID    primitive.ObjectID
}

func (f AppointmentFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.PatientID.IsZero() {
		filter["patientId"] = f.PatientID
	}
	if !f.DoctorID.IsZero() {
		filter["doctorId"] = f.DoctorID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.From != nil || f.To != nil {
		rng := bson.M{}
		if f.From != nil {
			rng["$gte"] = *f.From
		}
		if f.To != nil {
			rng["$lte"] = *f.To
		}
		filter["startTime"] = rng
	}
	if f.OverlapStart != nil && f.OverlapEnd != nil {
		filter["status"] = bson.M{"$in": bson.A{AppointmentScheduled, AppointmentConfirmed}}
		filter["$and"] = bson.A{
			bson.M{"startTime": bson.M{"$lt": *f.OverlapEnd}},
			bson.M{"endTime": bson.M{"$gt": *f.OverlapStart}},
		}
	}
	if !f.ExcludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": f.ExcludeID}
	}
	return filter
}

func (f AppointmentFilter) Match(a *Appointment) bool {
	if !f.PatientID.IsZero() && a.PatientID != f.PatientID {
		return false
	}
	if !f.DoctorID.IsZero() && a.DoctorID != f.DoctorID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.From != nil && a.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && a.StartTime.After(*f.To) {
		return false
	}
	if f.OverlapStart != nil && f.OverlapEnd != nil {
		if !a.IsOpen() || !a.StartTime.Before(*f.OverlapEnd) || !a.EndTime.After(*f.OverlapStart) {
			return false
		}
	}
	if !f.ExcludeID.IsZero() && a.ID == f.ExcludeID {
		return false
	}
	return true
}
