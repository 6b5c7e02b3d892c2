package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/medicare-api/internal/models"
)

// Collection names.
const (
	UsersCollection         = "users"
	PatientsCollection      = "patients"
	DoctorsCollection       = "doctors"
	AppointmentsCollection  = "appointments"
	BillsCollection         = "bills"
	NotificationsCollection = "notifications"
	ActivityCollection      = "activity_logs"
	FeedbackCollection      = "feedback"
	EngagementCollection    = "engagement_events"
	SessionsCollection      = "telehealth_sessions"
)

// Stores groups one repository per collection.
type Stores struct {
	Users         Repository[models.User]
	Patients      Repository[models.Patient]
	Doctors       Repository[models.Doctor]
	Appointments  Repository[models.Appointment]
	Bills         Repository[models.Bill]
	Notifications Repository[models.Notification]
	Activity      Repository[models.ActivityLog]
	Feedback      Repository[models.Feedback]
	Engagement    Repository[models.EngagementEvent]
	Sessions      Repository[models.TelehealthSession]

	ping func(ctx context.Context) error
}

// Ping checks the backing store is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Users:         NewMongoRepository[models.User](db.Collection(UsersCollection)),
		Patients:      NewMongoRepository[models.Patient](db.Collection(PatientsCollection)),
		Doctors:       NewMongoRepository[models.Doctor](db.Collection(DoctorsCollection)),
		Appointments:  NewMongoRepository[models.Appointment](db.Collection(AppointmentsCollection)),
		Bills:         NewMongoRepository[models.Bill](db.Collection(BillsCollection)),
		Notifications: NewMongoRepository[models.Notification](db.Collection(NotificationsCollection)),
		Activity:      NewMongoRepository[models.ActivityLog](db.Collection(ActivityCollection)),
		Feedback:      NewMongoRepository[models.Feedback](db.Collection(FeedbackCollection)),
		Engagement:    NewMongoRepository[models.EngagementEvent](db.Collection(EngagementCollection)),
		Sessions:      NewMongoRepository[models.TelehealthSession](db.Collection(SessionsCollection)),
		ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
	}
}

func byTime(a, b time.Time) int {
	return a.Compare(b)
}

func NewMemoryStores() *Stores {
	return &Stores{
		Users: NewMemoryRepository(
			func(u *models.User) primitive.ObjectID { return u.ID },
			WithUnique(func(a, b *models.User) bool { return strings.EqualFold(a.Email, b.Email) }),
			WithSortKey("createdAt", func(a, b *models.User) int { return byTime(a.CreatedAt, b.CreatedAt) }),
		),
		Patients: NewMemoryRepository(
			func(p *models.Patient) primitive.ObjectID { return p.ID },
			WithClone((*models.Patient).Clone),
			WithSortKey("fullName", func(a, b *models.Patient) int { return strings.Compare(a.FullName, b.FullName) }),
		),
		Doctors: NewMemoryRepository(
			func(d *models.Doctor) primitive.ObjectID { return d.ID },
			WithClone((*models.Doctor).Clone),
			WithSortKey("fullName", func(a, b *models.Doctor) int { return strings.Compare(a.FullName, b.FullName) }),
		),
		Appointments: NewMemoryRepository(
			func(a *models.Appointment) primitive.ObjectID { return a.ID },
			WithSortKey("startTime", func(a, b *models.Appointment) int { return byTime(a.StartTime, b.StartTime) }),
		),
		Bills: NewMemoryRepository(
			func(b *models.Bill) primitive.ObjectID { return b.ID },
			WithClone((*models.Bill).Clone),
			WithSortKey("createdAt", func(a, b *models.Bill) int { return byTime(a.CreatedAt, b.CreatedAt) }),
		),
		Notifications: NewMemoryRepository(
			func(n *models.Notification) primitive.ObjectID { return n.ID },
			WithSortKey("createdAt", func(a, b *models.Notification) int { return byTime(a.CreatedAt, b.CreatedAt) }),
		),
		Activity: NewMemoryRepository(
			func(a *models.ActivityLog) primitive.ObjectID { return a.ID },
			WithSortKey("createdAt", func(a, b *models.ActivityLog) int { return byTime(a.CreatedAt, b.CreatedAt) }),
		),
		Feedback: NewMemoryRepository(
			func(f *models.Feedback) primitive.ObjectID { return f.ID },
			WithClone((*models.Feedback).Clone),
			WithSortKey("createdAt", func(a, b *models.Feedback) int { return byTime(a.CreatedAt, b.CreatedAt) }),
		),
		Engagement: NewMemoryRepository(
			func(e *models.EngagementEvent) primitive.ObjectID { return e.ID },
			WithClone((*models.EngagementEvent).Clone),
		),
		Sessions: NewMemoryRepository(
			func(s *models.TelehealthSession) primitive.ObjectID { return s.ID },
			WithClone((*models.TelehealthSession).Clone),
			WithUnique(func(a, b *models.TelehealthSession) bool { return a.AppointmentID == b.AppointmentID }),
			WithSortKey("createdAt", func(a, b *models.TelehealthSession) int { return byTime(a.CreatedAt, b.CreatedAt) }),
		),
	}
}
