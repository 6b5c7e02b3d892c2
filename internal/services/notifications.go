package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

// Appointment lifecycle events that trigger notifications.
const (
	EventBooked      = "booked"
	EventStatus      = "status"
	EventCancelled   = "cancelled"
	EventRescheduled = "rescheduled"
)

const smsTimeout = 15 * time.Second

type NotificationService struct {
	notifications repository.Repository[models.Notification]
	users         repository.Repository[models.User]
	sms           SMSSender
	logger        *zap.Logger
	now           func() time.Time

	wg sync.WaitGroup
}

func NewNotificationService(
	notifications repository.Repository[models.Notification],
	users repository.Repository[models.User],
	sms SMSSender,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		sms:           sms,
		logger:        logger,
		now:           utcNow,
	}
}

// Notify stores an in-app notification for one user.
func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, typ, title, message string) (*models.Notification, error) {
	if !models.ValidNotificationTypes[typ] {
		return nil, invalid("Invalid notification type %q", typ)
	}
	n := &models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Broadcast lets an admin send a system notification to an existing user.
func (s *NotificationService) Broadcast(ctx context.Context, userID primitive.ObjectID, title, message string) (*models.Notification, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, storeErr(err, "User")
	}
	return s.Notify(ctx, userID, models.NotificationSystem, title, message)
}

// notifyQuietly is Notify for fan-out paths where a failure must not abort
// the operation that already succeeded.
func (s *NotificationService) notifyQuietly(ctx context.Context, userID primitive.ObjectID, typ, title, message string) {
	if _, err := s.Notify(ctx, userID, typ, title, message); err != nil {
		s.logger.Warn("failed to store notification",
			zap.String("userId", userID.Hex()),
			zap.String("type", typ),
			zap.Error(err))
	}
}

// AppointmentChanged fans an appointment event out to the patient and the
// doctor (never to the actor who caused it) and texts the patient.
func (s *NotificationService) AppointmentChanged(ctx context.Context, apt *models.Appointment, event string, actor Actor) {
	title, message := appointmentMessage(apt, event)

	for _, userID := range []primitive.ObjectID{apt.PatientID, apt.DoctorID} {
		if userID == actor.ID {
			continue
		}
		s.notifyQuietly(ctx, userID, models.NotificationAppointment, title, message)
	}

	patient, err := s.users.FindByID(ctx, apt.PatientID)
	if err != nil {
		s.logger.Warn("SMS not sent: patient lookup failed", zap.String("patientId", apt.PatientID.Hex()), zap.Error(err))
		return
	}
	s.SendSMS(patient, message)
}

func appointmentMessage(apt *models.Appointment, event string) (string, string) {
	when := apt.StartTime.Format("Jan 2 at 3:04 PM")
	switch event {
	case EventBooked:
		return "Appointment booked",
			fmt.Sprintf("Appointment Confirmed: %s with Dr. %s on %s.", apt.Reason, apt.DoctorName, when)
	case EventCancelled:
		return "Appointment cancelled",
			fmt.Sprintf("Your appointment with Dr. %s on %s was cancelled.", apt.DoctorName, when)
	case EventRescheduled:
		return "Appointment rescheduled",
			fmt.Sprintf("Your appointment with Dr. %s was moved to %s.", apt.DoctorName, when)
	default:
		return "Appointment updated",
			fmt.Sprintf("Your appointment with Dr. %s on %s is now %s.", apt.DoctorName, when, apt.Status)
	}
}

// SendSMS texts a user in the background so it doesn't block the API response.
func (s *NotificationService) SendSMS(user *models.User, message string) {
	if strings.TrimSpace(user.Phone) == "" {
		s.logger.Debug("SMS not sent: user has no phone number", zap.String("userId", user.ID.Hex()))
		return
	}

	s.wg.Add(1)
	go func(phone string) {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), smsTimeout)
		defer cancel()
		if err := s.sms.Send(ctx, phone, message); err != nil {
			s.logger.Error("failed to send SMS", zap.String("phone", phone), zap.Error(err))
			return
		}
		s.logger.Info("SMS sent", zap.String("phone", phone))
	}(user.Phone)
}

// Wait blocks until in-flight SMS deliveries finish.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page pagination.Params) ([]models.Notification, int64, error) {
	return s.notifications.Find(ctx, models.NotificationFilter{UserID: userID, UnreadOnly: unreadOnly}, repository.FindOptions{
		SortField: "createdAt", Desc: true, Limit: page.Limit, Offset: page.Offset,
	})
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.notifications.Count(ctx, models.NotificationFilter{UserID: userID, UnreadOnly: true})
}

func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Notification, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Notification")
	}
	if n.UserID != actor.ID {
		// Someone else's notification is reported as missing.
		return nil, newError(ErrNotFound, "Notification not found")
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := s.notifications.Replace(ctx, n.ID, n); err != nil {
		return nil, storeErr(err, "Notification")
	}
	return n, nil
}

// MarkAllRead marks every unread notification of the user and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int, error) {
	unread, _, err := s.notifications.Find(ctx, models.NotificationFilter{UserID: userID, UnreadOnly: true}, repository.FindOptions{})
	if err != nil {
		return 0, err
	}
	for i := range unread {
		n := &unread[i]
		n.Read = true
		if err := s.notifications.Replace(ctx, n.ID, n); err != nil {
			return i, err
		}
	}
	return len(unread), nil
}
