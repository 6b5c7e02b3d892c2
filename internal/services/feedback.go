package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

const maxCommentLength = 2000

type FeedbackInput struct {
	DoctorID      *primitive.ObjectID
	AppointmentID *primitive.ObjectID
	Rating        int
	Comment       string
	Category      string
}

type FeedbackService struct {
	feedback   repository.Repository[models.Feedback]
	doctors    *DoctorService
	engagement *EngagementService
	now        func() time.Time
}

func NewFeedbackService(feedback repository.Repository[models.Feedback], doctors *DoctorService, engagement *EngagementService) *FeedbackService {
	return &FeedbackService{feedback: feedback, doctors: doctors, engagement: engagement, now: utcNow}
}

func (s *FeedbackService) Submit(ctx context.Context, actor Actor, in FeedbackInput) (*models.Feedback, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return nil, invalid("comment must be at most %d characters", maxCommentLength)
	}
	category := in.Category
	if category == "" {
		category = "other"
	}
	if !models.ValidFeedbackCategories[category] {
		return nil, invalid("Invalid category %q", category)
	}
	if in.DoctorID != nil {
		if _, err := s.doctors.Get(ctx, *in.DoctorID); err != nil {
			return nil, err
		}
	}

	fb := &models.Feedback{
		ID:            primitive.NewObjectID(),
		UserID:        actor.ID,
		DoctorID:      in.DoctorID,
		AppointmentID: in.AppointmentID,
		Rating:        in.Rating,
		Comment:       comment,
		Category:      category,
		CreatedAt:     s.now(),
	}
	if err := s.feedback.Insert(ctx, fb); err != nil {
		return nil, err
	}
	if in.DoctorID != nil {
		if err := s.doctors.applyRating(ctx, *in.DoctorID, in.Rating); err != nil {
			// keep ratingCount equal to the doctor's feedback total
			_ = s.feedback.Delete(ctx, fb.ID)
			return nil, err
		}
	}
	s.engagement.award(ctx, actor.ID, "feedback_submitted", map[string]string{"feedbackId": fb.ID.Hex()})
	return fb, nil
}

func (s *FeedbackService) List(ctx context.Context, f models.FeedbackFilter, page pagination.Params) ([]models.Feedback, int64, error) {
	if f.Category != "" && !models.ValidFeedbackCategories[f.Category] {
		return nil, 0, invalid("Invalid category %q", f.Category)
	}
	return s.feedback.Find(ctx, f, repository.FindOptions{
		SortField: "createdAt", Desc: true, Limit: page.Limit, Offset: page.Offset,
	})
}

func (s *FeedbackService) ForDoctor(ctx context.Context, doctorID primitive.ObjectID, page pagination.Params) ([]models.Feedback, int64, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, 0, err
	}
	return s.List(ctx, models.FeedbackFilter{DoctorID: doctorID}, page)
}
