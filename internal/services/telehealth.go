package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

type TelehealthService struct {
	sessions      repository.Repository[models.TelehealthSession]
	appointments  repository.Repository[models.Appointment]
	notifications *NotificationService
	engagement    *EngagementService
	baseURL       string
	now           func() time.Time
}

func NewTelehealthService(
	sessions repository.Repository[models.TelehealthSession],
	appointments repository.Repository[models.Appointment],
	notifications *NotificationService,
	engagement *EngagementService,
	baseURL string,
) *TelehealthService {
	return &TelehealthService{
		sessions:      sessions,
		appointments:  appointments,
		notifications: notifications,
		engagement:    engagement,
		baseURL:       strings.TrimRight(baseURL, "/"),
		now:           utcNow,
	}
}

// Create opens the video room for a telehealth appointment.
func (s *TelehealthService) Create(ctx context.Context, actor Actor, appointmentID primitive.ObjectID) (*models.TelehealthSession, error) {
	apt, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, storeErr(err, "Appointment")
	}
	if !actor.IsAdmin() && !(actor.IsDoctor() && apt.DoctorID == actor.ID) {
		return nil, forbidden()
	}
	if apt.Type != models.AppointmentTelehealth {
		return nil, invalid("Appointment is not a telehealth appointment")
	}
	if apt.Status == models.AppointmentCancelled {
		return nil, newError(ErrConflict, "Appointment is cancelled")
	}

	roomID := uuid.NewString()
	session := &models.TelehealthSession{
		ID:            primitive.NewObjectID(),
		AppointmentID: apt.ID,
		DoctorID:      apt.DoctorID,
		PatientID:     apt.PatientID,
		RoomID:        roomID,
		JoinURL:       s.baseURL + "/" + roomID,
		Status:        models.SessionScheduled,
		Participants:  []models.Participant{},
		CreatedAt:     s.now(),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "A session already exists for this appointment")
		}
		return nil, err
	}

	s.notifications.notifyQuietly(ctx, apt.PatientID, models.NotificationTelehealth, "Telehealth session ready",
		fmt.Sprintf("Your video consultation with Dr. %s is ready. Join at %s", apt.DoctorName, session.JoinURL))
	return session, nil
}

func (s *TelehealthService) List(ctx context.Context, actor Actor, page pagination.Params) ([]models.TelehealthSession, int64, error) {
	f := models.SessionFilter{}
	if !actor.IsAdmin() {
		f.MemberID = actor.ID
	}
	return s.sessions.Find(ctx, f, repository.FindOptions{
		SortField: "createdAt", Desc: true, Limit: page.Limit, Offset: page.Offset,
	})
}

func (s *TelehealthService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.TelehealthSession, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Session")
	}
	if !actor.IsAdmin() && !session.IsMember(actor.ID) {
		return nil, forbidden()
	}
	return session, nil
}

func (s *TelehealthService) save(ctx context.Context, session *models.TelehealthSession) error {
	if err := s.sessions.Replace(ctx, session.ID, session); err != nil {
		return storeErr(err, "Session")
	}
	return nil
}

func openEntry(session *models.TelehealthSession, userID primitive.ObjectID) *models.Participant {
	for i := range session.Participants {
		p := &session.Participants[i]
		if p.UserID == userID && p.LeftAt == nil {
			return p
		}
	}
	return nil
}

// Join adds the caller to the room. Only the doctor and the patient may join.
func (s *TelehealthService) Join(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.TelehealthSession, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Session")
	}
	if !session.IsMember(actor.ID) {
		return nil, forbidden()
	}
	if session.Status == models.SessionEnded {
		return nil, newError(ErrConflict, "Session has ended")
	}

	if openEntry(session, actor.ID) != nil {
		return session, nil
	}
	now := s.now()
	session.Participants = append(session.Participants, models.Participant{
		UserID:   actor.ID,
		Role:     actor.Role,
		JoinedAt: now,
	})
	if session.Status == models.SessionScheduled {
		session.Status = models.SessionActive
		session.StartedAt = &now
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.engagement.award(ctx, actor.ID, "telehealth_joined", map[string]string{"sessionId": session.ID.Hex()})
	return session, nil
}

func (s *TelehealthService) Leave(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.TelehealthSession, error) {
	session, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	p := openEntry(session, actor.ID)
	if p == nil {
		return nil, newError(ErrConflict, "You are not in this session")
	}
	now := s.now()
	p.LeftAt = &now
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *TelehealthService) End(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.TelehealthSession, error) {
	session, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.IsDoctor() && session.DoctorID == actor.ID) {
		return nil, forbidden()
	}
	if session.Status == models.SessionEnded {
		return nil, newError(ErrConflict, "Session has already ended")
	}

	now := s.now()
	for i := range session.Participants {
		if session.Participants[i].LeftAt == nil {
			session.Participants[i].LeftAt = &now
		}
	}
	session.Status = models.SessionEnded
	session.EndedAt = &now
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
