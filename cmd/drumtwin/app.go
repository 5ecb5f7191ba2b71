package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/drumtwinlabs/drumtwin"
	"github.com/drumtwinlabs/drumtwin/internal/config"
	"github.com/drumtwinlabs/drumtwin/internal/logging"
	"github.com/drumtwinlabs/drumtwin/internal/observability"
	"github.com/drumtwinlabs/drumtwin/pkg/adapters/model"
	redisadapter "github.com/drumtwinlabs/drumtwin/pkg/adapters/redis"
)

// app bundles everything a command needs after wiring.
type app struct {
	twin      *drumtwin.Twin
	cfg       config.Config
	logger    *slog.Logger
	registry  *prometheus.Registry
	modelInfo map[string]any
}

// buildApp loads the config and model artifact and wires the twin.
func buildApp(cmd *cobra.Command) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		level = flagLevel
	}
	logger := logging.New(parseLevel(level))

	artifact, err := model.Load(cfg.Model.ArtifactPath)
	if err != nil {
		return nil, fmt.Errorf("load model artifact %q: %w", cfg.Model.ArtifactPath, err)
	}
	logger.Info("model artifact loaded",
		"path", cfg.Model.ArtifactPath,
		"trained_at", artifact.Meta().TrainedAt,
		"source_model", artifact.Meta().SourceModel,
	)

	registry := prometheus.NewRegistry()
	opts := []drumtwin.Option{
		drumtwin.WithLogger(logger),
		drumtwin.WithConstants(cfg.Physics),
		drumtwin.WithInitial(cfg.Initial),
		drumtwin.WithPolicy(cfg.Supervisor),
		drumtwin.WithFeatureMap(cfg.Features),
		drumtwin.WithStep(cfg.Step),
		drumtwin.WithMetrics(observability.NewMetrics(registry)),
	}

	if cfg.Redis.Enabled() {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		storeOpts := []redisadapter.Option{}
		if cfg.Redis.TTL > 0 {
			storeOpts = append(storeOpts, redisadapter.WithTTL(cfg.Redis.TTL))
		}
		opts = append(opts,
			drumtwin.WithStore(redisadapter.NewFromClient(client, storeOpts...)),
			drumtwin.WithLocker(redisadapter.NewLocker(client, "drumtwin:lock:")),
		)
		logger.Info("redis backend enabled", "addr", cfg.Redis.Addr)
	}

	twin, err := drumtwin.New(artifact.Normalizer(), artifact.Predictor(), opts...)
	if err != nil {
		return nil, err
	}

	return &app{
		twin:     twin,
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		modelInfo: map[string]any{
			"loaded":       true,
			"path":         cfg.Model.ArtifactPath,
			"trained_at":   artifact.Meta().TrainedAt,
			"source_model": artifact.Meta().SourceModel,
		},
	}, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
