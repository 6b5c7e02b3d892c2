package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

type failingReplace[T any] struct {
	repository.Repository[T]
	err error
}

func (f failingReplace[T]) Replace(context.Context, primitive.ObjectID, *T) error {
	return f.err
}

func TestFeedbackRolledBackWhenRatingFails(t *testing.T) {
	env := newTestEnv(t)
	jane := env.patient(t, "Jane", "jane@example.com", "")
	house := env.doctor(t, "House", "house@example.com")

	env.svc.Doctors.doctors = failingReplace[models.Doctor]{Repository: env.stores.Doctors, err: errors.New("write failed")}

	_, err := env.svc.Feedback.Submit(env.ctx, jane, FeedbackInput{DoctorID: &house.ID, Rating: 4})
	require.Error(t, err)

	list, total, err := env.svc.Feedback.ForDoctor(env.ctx, house.ID, pagination.New("", ""))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	doc, err := env.svc.Doctors.Get(env.ctx, house.ID)
	require.NoError(t, err)
	assert.Zero(t, doc.RatingCount)

	sum, err := env.svc.Engagement.Summary(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.Zero(t, sum.Events["feedback_submitted"])
}
