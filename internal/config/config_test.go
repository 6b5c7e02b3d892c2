package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "medicare", cfg.MongoDatabase)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.MongoTimeout)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "https://meet.jit.si", cfg.TelehealthBaseURL)
	assert.False(t, cfg.EngagementDemoPoints)
	assert.Equal(t, "Administrator", cfg.AdminName)
	assert.Empty(t, cfg.AdminEmail)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("ENGAGEMENT_DEMO_POINTS", "true")
	t.Setenv("TAX_RATE", "7.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.EngagementDemoPoints)
	assert.Equal(t, "7.5", cfg.DefaultTaxRate().String())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			StoreDriver: StoreMemory,
			JWTSecret:   "s",
			JWTTTL:      time.Hour,
			BcryptCost:  10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"unknown driver", func(c *Config) { c.StoreDriver = "postgres" }, "STORE_DRIVER"},
		{"mongo without uri", func(c *Config) { c.StoreDriver = StoreMongo }, "MONGO_URI"},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, "JWT_TTL"},
		{"bcrypt too low", func(c *Config) { c.BcryptCost = 2 }, "BCRYPT_COST"},
		{"negative tax", func(c *Config) { c.TaxRate = -1 }, "TAX_RATE"},
		{"admin email without password", func(c *Config) { c.AdminEmail = "root@example.com" }, "ADMIN_PASSWORD"},
		{"admin seed", func(c *Config) { c.AdminEmail, c.AdminPassword = "root@example.com", "supersecret" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
