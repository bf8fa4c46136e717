// Package config loads server configuration from the environment. Values are
// parsed with caarlos0/env struct tags, then merged over built-in defaults so
// only the variables that matter for a deployment need to be set.
package config

import (
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerAddress  string        `env:"SERVER_ADDRESS"`
	SiteURL        string        `env:"SITE_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	DataDir        string        `env:"DATA_DIR"`

	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	MailFromEmail  string `env:"MAIL_FROM_EMAIL"`

	// AdminEmails is the legacy administrator allow-list. It predates the
	// profile is_admin flag and should go away once all admin accounts carry
	// the flag.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`
}

func defaults() Config {
	return Config{
		ServerAddress:   ":8080",
		SiteURL:         "http://localhost:5173",
		RequestTimeout:  10 * time.Second,
		DataDir:         "data",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "negari",
		RedisAddr:       "localhost:6379",
		JWTSecret:       "change-me-in-production",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
		MailFromEmail:   "no-reply@negarischolar.com",
	}
}

// Load parses the environment and fills unset fields from defaults.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	def := defaults()
	if err := mergo.Merge(&cfg, def); err != nil {
		return nil, fmt.Errorf("config: merging defaults: %w", err)
	}

	return &cfg, nil
}
