package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port                 string        `mapstructure:"API_PORT"`
	Env                  string        `mapstructure:"APP_ENV"`
	StoreDriver          string        `mapstructure:"STORE_DRIVER"`
	MongoURI             string        `mapstructure:"MONGO_URI"`
	MongoDatabase        string        `mapstructure:"MONGO_DATABASE"`
	MongoTimeout         time.Duration `mapstructure:"MONGO_TIMEOUT"`
	RedisURL             string        `mapstructure:"REDIS_URL"`
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	JWTTTL               time.Duration `mapstructure:"JWT_TTL"`
	BcryptCost           int           `mapstructure:"BCRYPT_COST"`
	CORSOrigins          []string      `mapstructure:"-"`
	TextbeltAPIKey       string        `mapstructure:"TEXTBELT_API_KEY"`
	TextbeltURL          string        `mapstructure:"TEXTBELT_URL"`
	TelehealthBaseURL    string        `mapstructure:"TELEHEALTH_BASE_URL"`
	EngagementDemoPoints bool          `mapstructure:"ENGAGEMENT_DEMO_POINTS"`
	TaxRate              float64       `mapstructure:"TAX_RATE"`

	// Admin account created at startup when AdminEmail is set.
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminName     string `mapstructure:"ADMIN_NAME"`
}

var keys = []string{
	"API_PORT", "APP_ENV", "STORE_DRIVER", "MONGO_URI", "MONGO_DATABASE",
	"MONGO_TIMEOUT", "REDIS_URL", "JWT_SECRET", "JWT_TTL", "BCRYPT_COST",
	"CORS_ORIGINS", "TEXTBELT_API_KEY", "TEXTBELT_URL", "TELEHEALTH_BASE_URL",
	"ENGAGEMENT_DEMO_POINTS", "TAX_RATE", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	"ADMIN_NAME",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("API_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("MONGO_DATABASE", "medicare")
	v.SetDefault("MONGO_TIMEOUT", "10s")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("TEXTBELT_URL", "https://textbelt.com/text")
	v.SetDefault("TELEHEALTH_BASE_URL", "https://meet.jit.si")
	v.SetDefault("ENGAGEMENT_DEMO_POINTS", false)
	v.SetDefault("TAX_RATE", 0)
	v.SetDefault("ADMIN_NAME", "Administrator")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// DefaultTaxRate is the tax percentage applied to bills created without one.
func (c *Config) DefaultTaxRate() decimal.Decimal {
	return decimal.NewFromFloat(c.TaxRate)
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER is \"mongo\"")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, c.StoreDriver)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.TaxRate < 0 {
		return fmt.Errorf("TAX_RATE cannot be negative, got %v", c.TaxRate)
	}
	if c.AdminEmail != "" && c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
