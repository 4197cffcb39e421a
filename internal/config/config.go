package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string

	TokenExpiry time.Duration

	// BackfillSchedule is a cron expression for the maintenance-window
	// backfill run. Empty disables the scheduled run; the admin
	// endpoint stays available either way.
	BackfillSchedule string

	AllowedOrigin string
}

// LoadConfig reads configuration from the environment, with a .env
// file as a convenience for local development.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "fitstride"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenExpiry:      getDurationEnv("TOKEN_EXPIRY", 72*time.Hour),
		BackfillSchedule: getEnv("BACKFILL_SCHEDULE", ""),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.WithField("key", key).Warn("Invalid duration in environment, using default")
		return fallback
	}
	return d
}
