package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

func TestRegisterCreatesPatientProfile(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.svc.Auth.Register(env.ctx, RegisterInput{FullName: " Jane Doe ", Email: "Jane@Example.com", Password: "password123", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, models.RolePatient, u.Role)
	assert.NotEqual(t, "password123", u.Password)

	p, err := env.stores.Patients.FindByID(env.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.FullName)
	assert.Equal(t, "555", p.Phone)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	env.patient(t, "Jane", "jane@example.com", "")

	_, err := env.svc.Auth.Register(env.ctx, RegisterInput{FullName: "J", Email: "JANE@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Auth.Register(env.ctx, RegisterInput{FullName: "K", Email: "k@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.patient(t, "Jane", "jane@example.com", "")

	token, u, err := env.svc.Auth.Login(env.ctx, "JANE@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "jane@example.com", u.Email)

	_, _, err = env.svc.Auth.Login(env.ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = env.svc.Auth.Login(env.ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateProfileMirrorsOntoPatient(t *testing.T) {
	env := newTestEnv(t)
	p := env.patient(t, "Jane", "jane@example.com", "")

	name, phone := "Jane Smith", "+15550001"
	u, err := env.svc.Users.UpdateProfile(env.ctx, p.ID, UserUpdate{FullName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, name, u.FullName)

	profile, err := env.stores.Patients.FindByID(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, name, profile.FullName)
	assert.Equal(t, phone, profile.Phone)

	_, err = env.svc.Users.UpdateProfile(env.ctx, p.ID, UserUpdate{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUserListByRole(t *testing.T) {
	env := newTestEnv(t)
	env.patient(t, "A", "a@example.com", "")
	env.patient(t, "B", "b@example.com", "")
	env.doctor(t, "House", "house@example.com")

	users, total, err := env.svc.Users.List(env.ctx, models.RolePatient, pagination.New("", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	_, _, err = env.svc.Users.List(env.ctx, "nurse", pagination.New("", ""))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPatientAccess(t *testing.T) {
	env := newTestEnv(t)
	jane := env.patient(t, "Jane", "jane@example.com", "")
	bob := env.patient(t, "Bob", "bob@example.com", "")
	doc := env.doctor(t, "House", "house@example.com")

	_, err := env.svc.Patients.Get(env.ctx, bob, jane.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.svc.Patients.Get(env.ctx, doc, jane.ID)
	assert.NoError(t, err)

	group := "O+"
	_, err = env.svc.Patients.Update(env.ctx, doc, jane.ID, PatientUpdate{BloodGroup: &group})
	assert.ErrorIs(t, err, ErrForbidden)
	p, err := env.svc.Patients.Update(env.ctx, jane, jane.ID, PatientUpdate{BloodGroup: &group})
	require.NoError(t, err)
	assert.Equal(t, "O+", p.BloodGroup)

	bad := "Z"
	_, err = env.svc.Patients.Update(env.ctx, jane, jane.ID, PatientUpdate{BloodGroup: &bad})
	assert.ErrorIs(t, err, ErrInvalid)

	list, total, err := env.svc.Patients.List(env.ctx, "JAN", pagination.New("", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Jane", list[0].FullName)

	require.NoError(t, env.svc.Patients.Delete(env.ctx, jane.ID))
	_, err = env.stores.Users.FindByID(env.ctx, jane.ID)
	assert.Error(t, err)
	assert.ErrorIs(t, env.svc.Patients.Delete(env.ctx, jane.ID), ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)
	in := RegisterInput{FullName: "Ops", Email: "Ops@Example.com", Password: "supersecret"}

	first, created, err := env.svc.Auth.EnsureAdmin(env.ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, first.Role)

	again, created, err := env.svc.Auth.EnsureAdmin(env.ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	env.patient(t, "Jane", "jane@example.com", "")
	_, _, err = env.svc.Auth.EnsureAdmin(env.ctx, RegisterInput{Email: "jane@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrConflict)
}
