package config

import (
	"errors"
	"os"
)

// Config holds the environment configuration loaded once at startup.
type Config struct {
	Port          string
	MongoURL      string
	MongoDB       string
	JWTSecret     string
	SessionSecret string
	Env           string
	SendGridKey   string
	EmailSender   string
}

// Load reads the configuration from environment variables. Missing
// JWT_SECRET, SESSION_SECRET or MONGO_URL is a startup failure.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		MongoURL:      os.Getenv("MONGO_URL"),
		MongoDB:       getEnv("MONGO_DB", "ecommerce"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Env:           getEnv("APP_ENV", "development"),
		SendGridKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailSender:   getEnv("EMAIL_SENDER", "no-reply@localhost"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("missing JWT_SECRET in environment variables")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("missing SESSION_SECRET in environment variables")
	}
	if cfg.MongoURL == "" {
		return nil, errors.New("missing MONGO_URL in environment variables")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
