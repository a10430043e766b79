// Command extract runs the hurricane exposure feature batch: parse HURDAT2
// best tracks, load target points, build each storm's coverage envelope, and
// extract per-point wind/duration/lead-time features to CSV (and optionally
// Kafka). Health and metrics endpoints are served while the batch runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/hurricane-exposure/internal/adapter/featurecsv"
	httpadapter "github.com/couchcryptid/hurricane-exposure/internal/adapter/http"
	"github.com/couchcryptid/hurricane-exposure/internal/adapter/hurdat"
	kafkaadapter "github.com/couchcryptid/hurricane-exposure/internal/adapter/kafka"
	"github.com/couchcryptid/hurricane-exposure/internal/adapter/points"
	"github.com/couchcryptid/hurricane-exposure/internal/config"
	"github.com/couchcryptid/hurricane-exposure/internal/feature"
	"github.com/couchcryptid/hurricane-exposure/internal/observability"
	"github.com/couchcryptid/hurricane-exposure/internal/track"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, metrics); err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	storms, err := loadStorms(cfg, logger)
	if err != nil {
		return err
	}
	targets, err := loadPoints(cfg)
	if err != nil {
		return err
	}
	logger.Info("inputs loaded", "storms", len(storms), "points", len(targets))

	extractorCfg := feature.DefaultConfig()
	extractorCfg.Threshold = cfg.WindThreshold
	extractorCfg.Interval = cfg.Interval
	extractorCfg.Alpha = cfg.Alpha
	extractorCfg.MaxGap = cfg.MaxGap
	extractorCfg.MinDurationHours = cfg.MinDurationHours
	if cfg.Workers > 0 {
		extractorCfg.Workers = cfg.Workers
	}
	extractor := feature.NewExtractor(extractorCfg, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, extractor, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	defer shutdownServer(srv, cfg, logger)

	records, err := extractor.ExtractAll(ctx, storms, targets)
	if err != nil {
		return fmt.Errorf("extract features: %w", err)
	}
	logger.Info("extraction complete", "records", len(records))

	if err := writeOutput(cfg.OutputPath, records); err != nil {
		return err
	}
	logger.Info("feature table written", "path", cfg.OutputPath)

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		if err := writer.PublishBatch(ctx, records); err != nil {
			return fmt.Errorf("publish features to kafka: %w", err)
		}
		logger.Info("features published", "topic", cfg.KafkaTopic, "records", len(records))
	}

	return nil
}

func loadStorms(cfg *config.Config, logger *slog.Logger) ([]track.Track, error) {
	f, err := os.Open(cfg.HurdatPath)
	if err != nil {
		return nil, fmt.Errorf("open hurdat file: %w", err)
	}
	defer f.Close()

	parser := hurdat.NewParser(logger)
	storms, err := parser.ParseStorms(f, cfg.StormIDs)
	if err != nil {
		return nil, fmt.Errorf("parse hurdat file: %w", err)
	}
	if len(storms) == 0 {
		return nil, errors.New("no storms matched the input filter")
	}
	return storms, nil
}

func loadPoints(cfg *config.Config) ([]feature.TargetPoint, error) {
	f, err := os.Open(cfg.PointsPath)
	if err != nil {
		return nil, fmt.Errorf("open points file: %w", err)
	}
	defer f.Close()

	targets, err := points.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load target points: %w", err)
	}
	if len(targets) == 0 {
		return nil, errors.New("points file contains no target points")
	}
	return targets, nil
}

func writeOutput(path string, records []feature.Record) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	if err := featurecsv.Write(out, records); err != nil {
		return fmt.Errorf("write feature table: %w", err)
	}
	return nil
}

func shutdownServer(srv *httpadapter.Server, cfg *config.Config, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
