// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HurdatPath string
	PointsPath string
	OutputPath string
	StormIDs   []string

	WindThreshold    track.Threshold
	Interval         time.Duration
	Alpha            float64
	MaxGap           int
	Workers          int
	MinDurationHours float64

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka feature-record sink, feature-flagged via KAFKA_ENABLED.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	threshold, err := track.ParseThreshold(envOrDefault("WIND_THRESHOLD", "64kt"))
	if err != nil {
		return nil, fmt.Errorf("WIND_THRESHOLD: %w", err)
	}

	intervalMin, err := parsePositiveInt("INTERVAL_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	maxGap, err := parsePositiveInt("MAX_GAP", 5)
	if err != nil {
		return nil, err
	}
	workers, err := parseNonNegativeInt("WORKERS", 0)
	if err != nil {
		return nil, err
	}
	alpha, err := parsePositiveFloat("ALPHA", 0.6)
	if err != nil {
		return nil, err
	}
	minDuration, err := parseNonNegativeFloat("MIN_DURATION_HOURS", 0.25)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HurdatPath: os.Getenv("HURDAT_PATH"),
		PointsPath: os.Getenv("POINTS_PATH"),
		OutputPath: envOrDefault("OUTPUT_PATH", "features.csv"),
		StormIDs:   parseList(os.Getenv("STORM_IDS")),

		WindThreshold:    threshold,
		Interval:         time.Duration(intervalMin) * time.Minute,
		Alpha:            alpha,
		MaxGap:           maxGap,
		Workers:          workers,
		MinDurationHours: minDuration,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "hurricane-exposure-features"),
	}

	if cfg.HurdatPath == "" {
		return nil, errors.New("HURDAT_PATH is required")
	}
	if cfg.PointsPath == "" {
		return nil, errors.New("POINTS_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseList splits a comma-separated env value, trimming whitespace and
// dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, s)
	}
	return n, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", key, s)
	}
	return v, nil
}

func parseNonNegativeFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", key, s)
	}
	return v, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, s)
	}
	return d, nil
}
