package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"pilgrim-insights-go/internal/filters"
	"pilgrim-insights-go/internal/journey"
)

// Dataset sources.
const (
	SourceGenerate = "generate"
	SourceFile     = "file"
	SourceURL      = "url"
	SourceReport   = "report"
)

// Config holds runtime settings read from the environment (and .env).
type Config struct {
	Port string

	DatasetSource       string
	DatasetPath         string
	DatasetURL          string
	DatasetSeed         uint32
	DatasetSize         int
	DatasetFetchTimeout time.Duration

	StageMode    journey.Mode
	BookingMatch filters.BookingMatch

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxSessions int
	SessionTTL  time.Duration
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          envOr("PORT", "8080"),
		DatasetSource: strings.ToLower(envOr("DATASET_SOURCE", SourceGenerate)),
		DatasetPath:   os.Getenv("DATASET_PATH"),
		DatasetURL:    os.Getenv("DATASET_URL"),
	}

	var err error
	if cfg.DatasetSeed, err = envUint32("DATASET_SEED", 42); err != nil {
		return Config{}, err
	}
	if cfg.DatasetSize, err = envInt("DATASET_SIZE", 1350); err != nil {
		return Config{}, err
	}
	if cfg.DatasetSize <= 0 {
		return Config{}, fmt.Errorf("DATASET_SIZE must be positive, got %d", cfg.DatasetSize)
	}
	if cfg.DatasetFetchTimeout, err = envDuration("DATASET_FETCH_TIMEOUT", 20*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = envDuration("HTTP_READ_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = envDuration("HTTP_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.IdleTimeout, err = envDuration("HTTP_IDLE_TIMEOUT", 120*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.MaxSessions, err = envInt("SESSION_MAX", 1024); err != nil {
		return Config{}, err
	}
	if cfg.MaxSessions <= 0 {
		return Config{}, fmt.Errorf("SESSION_MAX must be positive, got %d", cfg.MaxSessions)
	}
	if cfg.SessionTTL, err = envDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}

	if cfg.StageMode, err = journey.ParseMode(os.Getenv("JOURNEY_STAGE_MODE")); err != nil {
		return Config{}, err
	}
	bm, ok := filters.ParseBookingMatch(os.Getenv("BOOKING_MATCH"))
	if !ok {
		return Config{}, fmt.Errorf("unknown BOOKING_MATCH %q", os.Getenv("BOOKING_MATCH"))
	}
	cfg.BookingMatch = bm

	switch cfg.DatasetSource {
	case SourceGenerate:
	case SourceFile:
		if cfg.DatasetPath == "" {
			return Config{}, fmt.Errorf("DATASET_PATH is required for source %q", cfg.DatasetSource)
		}
	case SourceURL, SourceReport:
		if cfg.DatasetURL == "" && cfg.DatasetPath == "" {
			return Config{}, fmt.Errorf("DATASET_URL or DATASET_PATH is required for source %q", cfg.DatasetSource)
		}
	default:
		return Config{}, fmt.Errorf("unknown DATASET_SOURCE %q", cfg.DatasetSource)
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", k, err)
	}
	return n, nil
}

// envUint32 rejects values outside [0, 2^32-1] instead of truncating them.
func envUint32(k string, def uint32) (uint32, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", k, err)
	}
	return uint32(n), nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", k, err)
	}
	return d, nil
}
