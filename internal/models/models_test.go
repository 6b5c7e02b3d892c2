package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(AppointmentScheduled, AppointmentConfirmed))
	assert.True(t, CanTransition(AppointmentConfirmed, AppointmentCompleted))
	assert.False(t, CanTransition(AppointmentCompleted, AppointmentScheduled))
	assert.False(t, CanTransition(AppointmentCancelled, AppointmentConfirmed))
	assert.False(t, CanTransition(AppointmentConfirmed, AppointmentConfirmed))
}

func TestAppointmentFilter_Overlap(t *testing.T) {
	base := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	doctor := primitive.NewObjectID()
	apt := &Appointment{
		ID:        primitive.NewObjectID(),
		DoctorID:  doctor,
		StartTime: base,
		EndTime:   base.Add(30 * time.Minute),
		Status:    AppointmentScheduled,
	}

	window := func(from, to time.Duration) AppointmentFilter {
		s, e := base.Add(from), base.Add(to)
		return AppointmentFilter{DoctorID: doctor, OverlapStart: &s, OverlapEnd: &e}
	}

	assert.True(t, window(15*time.Minute, 45*time.Minute).Match(apt))
	assert.True(t, window(-15*time.Minute, 5*time.Minute).Match(apt))
	assert.False(t, window(30*time.Minute, time.Hour).Match(apt), "touching end is not an overlap")
	assert.False(t, window(-time.Hour, 0).Match(apt), "touching start is not an overlap")

	f := window(0, 10*time.Minute)
	f.ExcludeID = apt.ID
	assert.False(t, f.Match(apt))

	apt.Status = AppointmentCancelled
	assert.False(t, window(0, 10*time.Minute).Match(apt))

	b := window(0, 10*time.Minute).BSON()
	assert.Equal(t, doctor, b["doctorId"])
	assert.Contains(t, b, "$and")
}

func TestAppointmentFilter_Range(t *testing.T) {
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	f := AppointmentFilter{From: &from, To: &to, Status: AppointmentScheduled}

	in := &Appointment{StartTime: from.Add(time.Hour), Status: AppointmentScheduled}
	out := &Appointment{StartTime: to.Add(time.Hour), Status: AppointmentScheduled}
	assert.True(t, f.Match(in))
	assert.False(t, f.Match(out))

	assert.Equal(t, bson.M{
		"status":    AppointmentScheduled,
		"startTime": bson.M{"$gte": from, "$lte": to},
	}, f.BSON())
}

func TestPatientFilter(t *testing.T) {
	f := PatientFilter{Query: "doe"}
	assert.True(t, f.Match(&Patient{FullName: "Jane DOE"}))
	assert.False(t, f.Match(&Patient{FullName: "John Smith"}))

	regex := f.BSON()["fullName"].(bson.M)
	assert.Equal(t, "doe", regex["$regex"])
	assert.Equal(t, `a\.b`, PatientFilter{Query: "a.b"}.BSON()["fullName"].(bson.M)["$regex"])
}

func TestFeedbackFilter_NilDoctor(t *testing.T) {
	doctor := primitive.NewObjectID()
	f := FeedbackFilter{DoctorID: doctor}
	assert.False(t, f.Match(&Feedback{}))
	assert.True(t, f.Match(&Feedback{DoctorID: &doctor}))
}

func TestSessionFilter_Member(t *testing.T) {
	doctor, patient, other := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	s := &TelehealthSession{DoctorID: doctor, PatientID: patient}

	assert.True(t, SessionFilter{MemberID: doctor}.Match(s))
	assert.True(t, SessionFilter{MemberID: patient}.Match(s))
	assert.False(t, SessionFilter{MemberID: other}.Match(s))
	assert.Contains(t, SessionFilter{MemberID: other}.BSON(), "$or")
}

func TestDoctorFilter_Active(t *testing.T) {
	active := true
	f := DoctorFilter{Active: &active, Specialty: "cardiology"}
	assert.True(t, f.Match(&Doctor{Active: true, Specialty: "cardiology"}))
	assert.False(t, f.Match(&Doctor{Active: false, Specialty: "cardiology"}))
	assert.Equal(t, bson.M{"active": true, "specialty": "cardiology"}, f.BSON())
}
