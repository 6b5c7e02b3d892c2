package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

type AppointmentInput struct {
	PatientID primitive.ObjectID // admin only; patients always book for themselves
	DoctorID  primitive.ObjectID
	StartTime string
	EndTime   string
	Reason    string
	Type      string
	Notes     string
}

type AppointmentQuery struct {
	PatientID primitive.ObjectID
	DoctorID  primitive.ObjectID
	Status    string
	StartDate string
	EndDate   string
	Desc      bool
}

type AppointmentService struct {
	appointments  repository.Repository[models.Appointment]
	patients      repository.Repository[models.Patient]
	doctors       repository.Repository[models.Doctor]
	notifications *NotificationService
	engagement    *EngagementService
	now           func() time.Time
}

func NewAppointmentService(
	appointments repository.Repository[models.Appointment],
	patients repository.Repository[models.Patient],
	doctors repository.Repository[models.Doctor],
	notifications *NotificationService,
	engagement *EngagementService,
) *AppointmentService {
	return &AppointmentService{
		appointments:  appointments,
		patients:      patients,
		doctors:       doctors,
		notifications: notifications,
		engagement:    engagement,
		now:           utcNow,
	}
}

// parseSlot validates an RFC3339 start/end pair that lies in the future.
func (s *AppointmentService) parseSlot(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("startTime must be an RFC3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("endTime must be an RFC3339 timestamp")
	}
	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return time.Time{}, time.Time{}, invalid("startTime must be before endTime")
	}
	if !start.After(s.now()) {
		return time.Time{}, time.Time{}, invalid("Appointments must be booked in the future")
	}
	return start, end, nil
}

func (s *AppointmentService) checkOverlap(ctx context.Context, doctorID, exclude primitive.ObjectID, start, end time.Time) error {
	n, err := s.appointments.Count(ctx, models.AppointmentFilter{
		DoctorID:     doctorID,
		OverlapStart: &start,
		OverlapEnd:   &end,
		ExcludeID:    exclude,
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return slotTaken()
	}
	return nil
}

// claimSlot runs after apt is written. Two requests can both pass
// checkOverlap before either writes, so any overlapping rival seen now means
// apt loses the slot. Both may lose under contention; neither double-books.
func (s *AppointmentService) claimSlot(ctx context.Context, apt *models.Appointment) (bool, error) {
	n, err := s.appointments.Count(ctx, models.AppointmentFilter{
		DoctorID:     apt.DoctorID,
		OverlapStart: &apt.StartTime,
		OverlapEnd:   &apt.EndTime,
		ExcludeID:    apt.ID,
	})
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func slotTaken() error {
	return newError(ErrConflict, "The doctor already has an appointment in this time slot")
}

func (s *AppointmentService) Create(ctx context.Context, actor Actor, in AppointmentInput) (*models.Appointment, error) {
	patientID := actor.ID
	switch {
	case actor.IsAdmin():
		if in.PatientID.IsZero() {
			return nil, invalid("patientId is required")
		}
		patientID = in.PatientID
	case !actor.IsPatient():
		return nil, forbidden()
	}

	typ := in.Type
	if typ == "" {
		typ = models.AppointmentInPerson
	}
	if typ != models.AppointmentInPerson && typ != models.AppointmentTelehealth {
		return nil, invalid("Invalid appointment type %q", typ)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, invalid("reason is required")
	}
	start, end, err := s.parseSlot(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		return nil, storeErr(err, "Patient")
	}
	doctor, err := s.doctors.FindByID(ctx, in.DoctorID)
	if err != nil {
		return nil, storeErr(err, "Doctor")
	}
	if !doctor.Active {
		return nil, invalid("Doctor is not accepting appointments")
	}
	if err := s.checkOverlap(ctx, doctor.ID, primitive.NilObjectID, start, end); err != nil {
		return nil, err
	}

	now := s.now()
	apt := &models.Appointment{
		ID:          primitive.NewObjectID(),
		PatientID:   patient.ID,
		PatientName: patient.FullName,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.FullName,
		StartTime:   start,
		EndTime:     end,
		Reason:      reason,
		Type:        typ,
		Status:      models.AppointmentScheduled,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.appointments.Insert(ctx, apt); err != nil {
		return nil, err
	}
	if ok, err := s.claimSlot(ctx, apt); err != nil || !ok {
		_ = s.appointments.Delete(ctx, apt.ID)
		if err != nil {
			return nil, err
		}
		return nil, slotTaken()
	}

	s.notifications.AppointmentChanged(ctx, apt, EventBooked, actor)
	s.engagement.award(ctx, patient.ID, "appointment_booked", map[string]string{"appointmentId": apt.ID.Hex()})
	return apt, nil
}

func (s *AppointmentService) List(ctx context.Context, actor Actor, q AppointmentQuery, page pagination.Params) ([]models.Appointment, int64, error) {
	f := models.AppointmentFilter{Status: q.Status}
	if f.Status != "" && !models.ValidAppointmentStatuses[f.Status] {
		return nil, 0, invalid("Invalid status %q", f.Status)
	}
	switch {
	case actor.IsPatient():
		f.PatientID = actor.ID
	case actor.IsDoctor():
		f.DoctorID = actor.ID
	default:
		f.PatientID, f.DoctorID = q.PatientID, q.DoctorID
	}

	if q.StartDate != "" {
		from, err := time.Parse(dateLayout, q.StartDate)
		if err != nil {
			return nil, 0, invalid("startDate must be YYYY-MM-DD")
		}
		f.From = &from
	}
	if q.EndDate != "" {
		day, err := time.Parse(dateLayout, q.EndDate)
		if err != nil {
			return nil, 0, invalid("endDate must be YYYY-MM-DD")
		}
		to := day.Add(24*time.Hour - time.Nanosecond)
		f.To = &to
	}

	return s.appointments.Find(ctx, f, repository.FindOptions{
		SortField: "startTime", Desc: q.Desc, Limit: page.Limit, Offset: page.Offset,
	})
}

// Get returns an appointment to its patient, its doctor or an admin.
func (s *AppointmentService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Appointment, error) {
	apt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Appointment")
	}
	if !actor.IsAdmin() && !apt.IsParticipant(actor.ID) {
		return nil, forbidden()
	}
	return apt, nil
}

func (s *AppointmentService) save(ctx context.Context, apt *models.Appointment) error {
	apt.UpdatedAt = s.now()
	if err := s.appointments.Replace(ctx, apt.ID, apt); err != nil {
		return storeErr(err, "Appointment")
	}
	return nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status, notes string) (*models.Appointment, error) {
	if !models.ValidAppointmentStatuses[status] {
		return nil, invalid("Invalid status %q", status)
	}
	apt, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.IsDoctor() && apt.DoctorID == actor.ID) {
		return nil, forbidden()
	}
	if !models.CanTransition(apt.Status, status) {
		return nil, newError(ErrConflict, "Cannot change status from %s to %s", apt.Status, status)
	}

	apt.Status = status
	if notes != "" {
		apt.Notes = notes
	}
	if err := s.save(ctx, apt); err != nil {
		return nil, err
	}
	event := EventStatus
	if status == models.AppointmentCancelled {
		event = EventCancelled
	}
	s.notifications.AppointmentChanged(ctx, apt, event, actor)
	return apt, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, actor Actor, id primitive.ObjectID, reason string) (*models.Appointment, error) {
	apt, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(apt.Status, models.AppointmentCancelled) {
		return nil, newError(ErrConflict, "Cannot cancel a %s appointment", apt.Status)
	}
	apt.Status = models.AppointmentCancelled
	apt.CancelReason = strings.TrimSpace(reason)
	if err := s.save(ctx, apt); err != nil {
		return nil, err
	}
	s.notifications.AppointmentChanged(ctx, apt, EventCancelled, actor)
	return apt, nil
}

// Reschedule moves an open appointment and puts it back to scheduled.
func (s *AppointmentService) Reschedule(ctx context.Context, actor Actor, id primitive.ObjectID, startStr, endStr string) (*models.Appointment, error) {
	apt, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !apt.IsOpen() {
		return nil, newError(ErrConflict, "Cannot reschedule a %s appointment", apt.Status)
	}
	start, end, err := s.parseSlot(startStr, endStr)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, apt.DoctorID, apt.ID, start, end); err != nil {
		return nil, err
	}

	before := *apt
	apt.StartTime, apt.EndTime = start, end
	apt.Status = models.AppointmentScheduled
	if err := s.save(ctx, apt); err != nil {
		return nil, err
	}
	if ok, err := s.claimSlot(ctx, apt); err != nil || !ok {
		_ = s.appointments.Replace(ctx, before.ID, &before)
		if err != nil {
			return nil, err
		}
		return nil, slotTaken()
	}
	s.notifications.AppointmentChanged(ctx, apt, EventRescheduled, actor)
	return apt, nil
}
