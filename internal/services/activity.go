package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

const (
	ActionRegister            = "register"
	ActionLogin               = "login"
	ActionAppointmentCreate   = "appointment.create"
	ActionAppointmentStatus   = "appointment.status"
	ActionAppointmentCancel   = "appointment.cancel"
	ActionAppointmentMove     = "appointment.reschedule"
	ActionBillCreate          = "bill.create"
	ActionBillPay             = "bill.pay"
	ActionBillCancel          = "bill.cancel"
	ActionTelehealthCreate    = "telehealth.create"
	ActionTelehealthEnd       = "telehealth.end"
	ActionFeedbackSubmit      = "feedback.submit"
	ActionDoctorCreate        = "doctor.create"
	ActionPatientDelete       = "patient.delete"
	ActionNotificationBulkSet = "notification.read_all"
)

type ActivityService struct {
	logs   repository.Repository[models.ActivityLog]
	logger *zap.Logger
	now    func() time.Time
}

func NewActivityService(logs repository.Repository[models.ActivityLog], logger *zap.Logger) *ActivityService {
	return &ActivityService{logs: logs, logger: logger, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// Record stores an audit entry. Failures are logged and never returned: an
// audit write must not fail the request that triggered it.
func (s *ActivityService) Record(ctx context.Context, actor Actor, action, resource, resourceID, ip string) {
	entry := &models.ActivityLog{
		ID:         primitive.NewObjectID(),
		UserID:     actor.ID,
		Role:       actor.Role,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         ip,
		CreatedAt:  s.now(),
	}
	if err := s.logs.Insert(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("action", action),
			zap.String("userId", actor.ID.Hex()),
			zap.Error(err))
	}
}

func (s *ActivityService) List(ctx context.Context, f models.ActivityFilter, page pagination.Params) ([]models.ActivityLog, int64, error) {
	return s.logs.Find(ctx, f, repository.FindOptions{
		SortField: "createdAt", Desc: true, Limit: page.Limit, Offset: page.Offset,
	})
}
