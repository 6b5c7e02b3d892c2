package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

func TestTelehealthSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	jane := env.patient(t, "Jane", "jane@example.com", "")
	bob := env.patient(t, "Bob", "bob@example.com", "")
	house := env.doctor(t, "House", "house@example.com")

	apt := env.book(t, jane, house, 24, models.AppointmentTelehealth)

	_, err := env.svc.Telehealth.Create(env.ctx, jane, apt.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	s, err := env.svc.Telehealth.Create(env.ctx, house, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionScheduled, s.Status)
	assert.True(t, strings.HasPrefix(s.JoinURL, "https://meet.example.com/"))
	assert.Equal(t, "https://meet.example.com/"+s.RoomID, s.JoinURL)

	_, err = env.svc.Telehealth.Create(env.ctx, house, apt.ID)
	assert.ErrorIs(t, err, ErrConflict)

	notes := env.notificationsFor(t, jane.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTelehealth, notes[0].Type)

	_, err = env.svc.Telehealth.Join(env.ctx, bob, s.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	s, err = env.svc.Telehealth.Join(env.ctx, jane, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, s.Status)
	require.NotNil(t, s.StartedAt)
	started := *s.StartedAt

	// Joining twice keeps a single open entry.
	s, err = env.svc.Telehealth.Join(env.ctx, jane, s.ID)
	require.NoError(t, err)
	assert.Len(t, s.Participants, 1)
	assert.Equal(t, started, *s.StartedAt)

	s, err = env.svc.Telehealth.Leave(env.ctx, jane, s.ID)
	require.NoError(t, err)
	require.NotNil(t, s.Participants[0].LeftAt)
	_, err = env.svc.Telehealth.Leave(env.ctx, jane, s.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// Rejoining opens a new entry.
	_, err = env.svc.Telehealth.Join(env.ctx, jane, s.ID)
	require.NoError(t, err)
	s, err = env.svc.Telehealth.Join(env.ctx, house, s.ID)
	require.NoError(t, err)
	assert.Len(t, s.Participants, 3)

	_, err = env.svc.Telehealth.End(env.ctx, jane, s.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	s, err = env.svc.Telehealth.End(env.ctx, house, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionEnded, s.Status)
	require.NotNil(t, s.EndedAt)
	for _, p := range s.Participants {
		assert.NotNil(t, p.LeftAt)
	}

	_, err = env.svc.Telehealth.End(env.ctx, env.admin, s.ID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = env.svc.Telehealth.Join(env.ctx, jane, s.ID)
	assert.ErrorIs(t, err, ErrConflict)

	list, total, err := env.svc.Telehealth.List(env.ctx, bob, pagination.New("", ""))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	_, total, err = env.svc.Telehealth.List(env.ctx, jane, pagination.New("", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestTelehealthRequiresTelehealthAppointment(t *testing.T) {
	env := newTestEnv(t)
	jane := env.patient(t, "Jane", "jane@example.com", "")
	house := env.doctor(t, "House", "house@example.com")

	inPerson := env.book(t, jane, house, 24, models.AppointmentInPerson)
	_, err := env.svc.Telehealth.Create(env.ctx, house, inPerson.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	remote := env.book(t, jane, house, 48, models.AppointmentTelehealth)
	_, err = env.svc.Appointments.Cancel(env.ctx, jane, remote.ID, "")
	require.NoError(t, err)
	_, err = env.svc.Telehealth.Create(env.ctx, env.admin, remote.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTelehealthJoinAwardsOnlyNewEntries(t *testing.T) {
	env := newTestEnv(t)
	jane := env.patient(t, "Jane", "jane@example.com", "")
	house := env.doctor(t, "House", "house@example.com")

	apt := env.book(t, jane, house, 24, models.AppointmentTelehealth)
	s, err := env.svc.Telehealth.Create(env.ctx, house, apt.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = env.svc.Telehealth.Join(env.ctx, jane, s.ID)
		require.NoError(t, err)
	}
	sum, err := env.svc.Engagement.Summary(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Events["telehealth_joined"])

	_, err = env.svc.Telehealth.Leave(env.ctx, jane, s.ID)
	require.NoError(t, err)
	_, err = env.svc.Telehealth.Join(env.ctx, jane, s.ID)
	require.NoError(t, err)
	sum, err = env.svc.Engagement.Summary(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Events["telehealth_joined"])
}
