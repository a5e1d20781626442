// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

type Config struct {
	Env          string
	Port         int
	DatabaseURL  string
	DatabaseType string
	BaseURL      string
	PollTTL      time.Duration

	OrganizerKeySalt string

	GeminiAPIKey      string
	GeminiModel       string
	ItineraryCacheTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first if present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is fine, real deployments use the process environment.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("tripsync", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL used in poll links")
	fs.StringVar(&cfg.Env, "env", "", "Environment (local or prod)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.OrganizerKeySalt, "organizer-salt", "", "Organizer key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Env == "" {
		cfg.Env = envOr("APP_ENV", EnvLocal)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", "sqlite")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = envOr("BASE_URL", "http://localhost:"+strconv.Itoa(cfg.Port))
	}

	// Secrets - MUST be provided
	if cfg.OrganizerKeySalt == "" {
		cfg.OrganizerKeySalt = os.Getenv("ORGANIZER_KEY_SALT")
	}
	if cfg.OrganizerKeySalt == "" {
		return Config{}, errors.New("ORGANIZER_KEY_SALT required")
	}

	var err error
	if cfg.PollTTL, err = durationEnv("POLL_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ItineraryCacheTTL, err = durationEnv("ITINERARY_CACHE_TTL", time.Hour); err != nil {
		return Config{}, err
	}

	// Optional integrations; empty values select the offline fallbacks.
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = envOr("GEMINI_MODEL", "gemini-2.0-flash")

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, errors.New("invalid SMTP_PORT env variable")
		}
		cfg.SMTPPort = port
	}
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.MailFrom = envOr("MAIL_FROM", "polls@tripsync.local")

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key + " env variable")
	}
	return d, nil
}
