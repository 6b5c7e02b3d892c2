package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

func TestNotificationReadFlow(t *testing.T) {
	env := newTestEnv(t)
	jane := env.patient(t, "Jane", "jane@example.com", "")
	bob := env.patient(t, "Bob", "bob@example.com", "")

	for i := 0; i < 3; i++ {
		_, err := env.svc.Notifications.Broadcast(env.ctx, jane.ID, "Hello", "Welcome")
		require.NoError(t, err)
	}
	_, err := env.svc.Notifications.Broadcast(env.ctx, primitive.NewObjectID(), "Hello", "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.svc.Notifications.Notify(env.ctx, jane.ID, "spam", "x", "y")
	assert.ErrorIs(t, err, ErrInvalid)

	count, err := env.svc.Notifications.UnreadCount(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	list, _, err := env.svc.Notifications.List(env.ctx, jane.ID, false, pagination.New("", ""))
	require.NoError(t, err)
	require.Len(t, list, 3)

	_, err = env.svc.Notifications.MarkRead(env.ctx, bob, list[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := env.svc.Notifications.MarkRead(env.ctx, jane, list[0].ID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	unread, total, err := env.svc.Notifications.List(env.ctx, jane.ID, true, pagination.New("", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, unread, 2)

	changed, err := env.svc.Notifications.MarkAllRead(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	count, err = env.svc.Notifications.UnreadCount(env.ctx, jane.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSMSFailureDoesNotFailBooking(t *testing.T) {
	env := newTestEnv(t)
	env.sms.err = errors.New("provider down")
	jane := env.patient(t, "Jane", "jane@example.com", "+15550100")
	house := env.doctor(t, "House", "house@example.com")

	env.book(t, jane, house, 24, "")
	env.svc.Notifications.Wait()
	assert.Len(t, env.sms.messages(), 1)
}

func TestTextbeltSender(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got["phone"] == "bad" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "Invalid phone"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	sender := NewTextbeltSender(srv.URL, "key-123")
	require.NoError(t, sender.Send(context.Background(), "+15550100", "hi"))
	assert.Equal(t, "key-123", got["key"])
	assert.Equal(t, "hi", got["message"])

	err := sender.Send(context.Background(), "bad", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid phone")
}

func TestAppointmentMessage(t *testing.T) {
	apt := &models.Appointment{DoctorName: "House", Reason: "Checkup", Status: models.AppointmentConfirmed}
	title, msg := appointmentMessage(apt, EventStatus)
	assert.Equal(t, "Appointment updated", title)
	assert.Contains(t, msg, "is now confirmed")

	_, msg = appointmentMessage(apt, EventCancelled)
	assert.Contains(t, msg, "was cancelled")
}
