package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/internal/utils"
)

type sentSMS struct {
	Phone   string
	Message string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) Send(_ context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentSMS{Phone: phone, Message: message})
	return f.err
}

func (f *fakeSMS) messages() []sentSMS {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentSMS(nil), f.sent...)
}

type testEnv struct {
	ctx    context.Context
	stores *repository.Stores
	svc    *Services
	sms    *fakeSMS
	admin  Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens, err := utils.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	stores := repository.NewMemoryStores()
	sms := &fakeSMS{}
	svc := New(stores, Options{
		Tokens:            tokens,
		BcryptCost:        bcrypt.MinCost,
		SMS:               sms,
		TelehealthBaseURL: "https://meet.example.com/",
		TaxRate:           decimal.NewFromInt(10),
	}, zap.NewNop())

	env := &testEnv{ctx: context.Background(), stores: stores, svc: svc, sms: sms}
	admin, err := svc.Auth.CreateAdmin(env.ctx, RegisterInput{FullName: "Root", Email: "root@example.com", Password: "supersecret"})
	require.NoError(t, err)
	env.admin = Actor{ID: admin.ID, Role: models.RoleAdmin}
	return env
}

func (e *testEnv) patient(t *testing.T, name, email, phone string) Actor {
	t.Helper()
	u, err := e.svc.Auth.Register(e.ctx, RegisterInput{FullName: name, Email: email, Password: "password123", Phone: phone})
	require.NoError(t, err)
	return Actor{ID: u.ID, Role: models.RolePatient}
}

func (e *testEnv) doctor(t *testing.T, name, email string) Actor {
	t.Helper()
	d, err := e.svc.Doctors.Create(e.ctx, DoctorInput{
		RegisterInput:   RegisterInput{FullName: name, Email: email, Password: "password123"},
		Specialty:       "Cardiology",
		ConsultationFee: decimal.RequireFromString("50"),
		AvailableDays:   []string{"mon", "wed"},
	})
	require.NoError(t, err)
	return Actor{ID: d.ID, Role: models.RoleDoctor}
}

// slot returns an RFC3339 pair starting h hours from now.
func slot(h, minutes int) (string, string) {
	start := time.Now().UTC().Add(time.Duration(h) * time.Hour).Truncate(time.Minute)
	end := start.Add(time.Duration(minutes) * time.Minute)
	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}

func (e *testEnv) book(t *testing.T, patient, doctor Actor, h int, typ string) *models.Appointment {
	t.Helper()
	start, end := slot(h, 30)
	apt, err := e.svc.Appointments.Create(e.ctx, patient, AppointmentInput{
		DoctorID: doctor.ID, StartTime: start, EndTime: end, Reason: "Checkup", Type: typ,
	})
	require.NoError(t, err)
	return apt
}

func (e *testEnv) notificationsFor(t *testing.T, userID primitive.ObjectID) []models.Notification {
	t.Helper()
	list, _, err := e.stores.Notifications.Find(e.ctx, models.NotificationFilter{UserID: userID}, repository.FindOptions{})
	require.NoError(t, err)
	return list
}
