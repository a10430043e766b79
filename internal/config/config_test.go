package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HURDAT_PATH", "/data/hurdat2.txt")
	t.Setenv("POINTS_PATH", "/data/tracts.csv")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/data/hurdat2.txt", cfg.HurdatPath)
		assert.Equal(t, "features.csv", cfg.OutputPath)
		assert.Empty(t, cfg.StormIDs)
		assert.Equal(t, track.T64, cfg.WindThreshold)
		assert.Equal(t, 15*time.Minute, cfg.Interval)
		assert.Equal(t, 0.6, cfg.Alpha)
		assert.Equal(t, 5, cfg.MaxGap)
		assert.Equal(t, 0, cfg.Workers)
		assert.Equal(t, 0.25, cfg.MinDurationHours)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
		assert.False(t, cfg.KafkaEnabled)
		assert.Equal(t, "hurricane-exposure-features", cfg.KafkaTopic)
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("WIND_THRESHOLD", "50kt")
		t.Setenv("INTERVAL_MINUTES", "10")
		t.Setenv("STORM_IDS", "AL092021, al062018 ,")
		t.Setenv("WORKERS", "8")
		t.Setenv("KAFKA_ENABLED", "true")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, track.T50, cfg.WindThreshold)
		assert.Equal(t, 10*time.Minute, cfg.Interval)
		assert.Equal(t, []string{"AL092021", "al062018"}, cfg.StormIDs)
		assert.Equal(t, 8, cfg.Workers)
		assert.True(t, cfg.KafkaEnabled)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	})

	t.Run("missing required paths fail", func(t *testing.T) {
		t.Setenv("HURDAT_PATH", "")
		t.Setenv("POINTS_PATH", "/data/tracts.csv")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HURDAT_PATH")

		t.Setenv("HURDAT_PATH", "/data/hurdat2.txt")
		t.Setenv("POINTS_PATH", "")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POINTS_PATH")
	})

	t.Run("invalid threshold fails", func(t *testing.T) {
		setRequired(t)
		t.Setenv("WIND_THRESHOLD", "96kt")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WIND_THRESHOLD")
	})

	t.Run("non-positive interval fails", func(t *testing.T) {
		setRequired(t)
		t.Setenv("INTERVAL_MINUTES", "0")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("malformed alpha fails", func(t *testing.T) {
		setRequired(t)
		t.Setenv("ALPHA", "lots")
		_, err := Load()
		require.Error(t, err)
	})
}
