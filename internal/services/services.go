package services

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/internal/utils"
)

type Options struct {
	Tokens            *utils.JWTManager
	BcryptCost        int
	SMS               SMSSender
	Counter           Counter
	TelehealthBaseURL string
	DemoPoints        bool
	TaxRate           decimal.Decimal
}

// Services is everything the HTTP layer needs.
type Services struct {
	Auth          *AuthService
	Users         *UserService
	Patients      *PatientService
	Doctors       *DoctorService
	Appointments  *AppointmentService
	Billing       *BillingService
	Notifications *NotificationService
	Telehealth    *TelehealthService
	Activity      *ActivityService
	Feedback      *FeedbackService
	Engagement    *EngagementService
}

func New(stores *repository.Stores, opts Options, logger *zap.Logger) *Services {
	counter := opts.Counter
	if counter == nil {
		counter = NewMemoryCounter()
	}
	sms := opts.SMS
	if sms == nil {
		sms = NewLogSender(logger)
	}

	notifications := NewNotificationService(stores.Notifications, stores.Users, sms, logger)
	engagement := NewEngagementService(stores.Engagement, opts.DemoPoints, logger)
	auth := NewAuthService(stores.Users, stores.Patients, opts.Tokens, opts.BcryptCost, logger)
	doctors := NewDoctorService(stores.Doctors, stores.Users, auth, counter, logger)

	return &Services{
		Auth:          auth,
		Users:         NewUserService(stores.Users, stores.Patients, stores.Doctors),
		Patients:      NewPatientService(stores.Patients, stores.Users),
		Doctors:       doctors,
		Appointments:  NewAppointmentService(stores.Appointments, stores.Patients, stores.Doctors, notifications, engagement),
		Billing:       NewBillingService(stores.Bills, stores.Patients, stores.Appointments, notifications, engagement, opts.TaxRate),
		Notifications: notifications,
		Telehealth:    NewTelehealthService(stores.Sessions, stores.Appointments, notifications, engagement, opts.TelehealthBaseURL),
		Activity:      NewActivityService(stores.Activity, logger),
		Feedback:      NewFeedbackService(stores.Feedback, doctors, engagement),
		Engagement:    engagement,
	}
}
