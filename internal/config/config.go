package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID           string
	Port                string
	LogLevel            slog.Level
	PushTitle           string
	PriceCurrency       string
	DeliveryConcurrency int
	DeliveryRatePerSec  float64
	DeliveryTimeout     time.Duration
	ScanTimeout         time.Duration
	FCMEndpoint         string
	PushDisabled        bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable is required but not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		slog.Info("Defaulting to port", "port", port)
	}

	logLevel, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	pushTitle := os.Getenv("PUSH_TITLE")
	if pushTitle == "" {
		pushTitle = "🚗 Nouvelle annonce !"
	}

	currency := os.Getenv("PRICE_CURRENCY")
	if currency == "" {
		currency = "TND"
	}

	concurrency := 4
	if v := os.Getenv("DELIVERY_CONCURRENCY"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("invalid DELIVERY_CONCURRENCY %q: must be a positive integer", v)
		}
		concurrency = parsed
	}

	ratePerSec := 10.0
	if v := os.Getenv("DELIVERY_RATE_PER_SEC"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid DELIVERY_RATE_PER_SEC %q: must be a positive number", v)
		}
		ratePerSec = parsed
	}

	deliveryTimeout, err := durationEnv("DELIVERY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	scanTimeout, err := durationEnv("SCAN_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	pushDisabled := false
	if v := os.Getenv("PUSH_DISABLED"); v != "" {
		pushDisabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PUSH_DISABLED %q: %w", v, err)
		}
	}

	return &Config{
		ProjectID:           projectID,
		Port:                port,
		LogLevel:            logLevel,
		PushTitle:           pushTitle,
		PriceCurrency:       currency,
		DeliveryConcurrency: concurrency,
		DeliveryRatePerSec:  ratePerSec,
		DeliveryTimeout:     deliveryTimeout,
		ScanTimeout:         scanTimeout,
		FCMEndpoint:         os.Getenv("FCM_ENDPOINT"),
		PushDisabled:        pushDisabled,
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func parseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(v) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", v)
}
