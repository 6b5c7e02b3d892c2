package main

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/medicare-api/internal/config"
	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/services"
)

func memoryEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "cmd-secret")
	t.Setenv("STORE_DRIVER", config.StoreMemory)
	t.Setenv("BCRYPT_COST", "4")
}

func TestCreateAdminRejectsMemoryStore(t *testing.T) {
	memoryEnv(t)

	cmd := createAdminCmd()
	cmd.SetArgs([]string{"--email", "root@example.com", "--password", "supersecret"})
	cmd.SilenceUsage = true
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER=mongo")
}

func TestServeSeedsAdminInMemoryStore(t *testing.T) {
	memoryEnv(t)
	t.Setenv("ADMIN_EMAIL", "Root@Example.com")
	t.Setenv("ADMIN_PASSWORD", "supersecret")

	ctx := context.Background()
	a, err := bootstrap(ctx)
	require.NoError(t, err)
	defer a.close()
	svc, _, cleanup, err := a.buildServices(ctx)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, a.seedAdmin(ctx, svc.Auth))
	require.NoError(t, a.seedAdmin(ctx, svc.Auth), "second run is a no-op")

	_, user, err := svc.Auth.Login(ctx, "root@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "Administrator", user.FullName)
}

func TestSeedAdminWithoutEmail(t *testing.T) {
	memoryEnv(t)

	ctx := context.Background()
	a, err := bootstrap(ctx)
	require.NoError(t, err)
	defer a.close()
	svc, _, cleanup, err := a.buildServices(ctx)
	require.NoError(t, err)
	defer cleanup()

	assert.NoError(t, a.seedAdmin(ctx, svc.Auth))
}

// Needs a reachable MongoDB, e.g. MONGO_TEST_URI=mongodb://localhost:27017.
func TestBootstrapCreatesUniqueIndexes(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	t.Setenv("JWT_SECRET", "cmd-secret")
	t.Setenv("STORE_DRIVER", config.StoreMongo)
	t.Setenv("MONGO_URI", uri)
	t.Setenv("MONGO_DATABASE", fmt.Sprintf("medicare_test_%d", time.Now().UnixNano()))
	t.Setenv("BCRYPT_COST", "4")

	ctx := context.Background()
	a, err := bootstrap(ctx)
	require.NoError(t, err)
	defer a.close()
	defer func() { _ = a.db.Drop(ctx) }()

	svc, _, cleanup, err := a.buildServices(ctx)
	require.NoError(t, err)
	defer cleanup()

	in := services.RegisterInput{FullName: "Jane", Email: "jane@example.com", Password: "password123"}
	_, err = svc.Auth.Register(ctx, in)
	require.NoError(t, err)
	_, err = svc.Auth.Register(ctx, in)
	assert.ErrorIs(t, err, services.ErrConflict)
}
