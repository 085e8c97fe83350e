package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ferrerallan/christmas-card-chain/internal/card"
	"github.com/ferrerallan/christmas-card-chain/internal/config"
	"github.com/ferrerallan/christmas-card-chain/internal/metrics"
)

// application holds the shared dependencies of every command.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	cards   card.Generator
}

// loadAppConfig loads the configuration named by the --config flag.
func loadAppConfig(configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newApplication wires the card service, its backends and metrics.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	m := metrics.New()

	svc, err := card.NewService(ctx, logger, cfg,
		card.WithObserver(m),
		card.WithRecorder(m))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize card service: %w", err)
	}

	logger.InfoContext(ctx, "Application initialized",
		"base_provider", cfg.Pipeline.BaseProvider,
		"enrich_provider", cfg.Pipeline.EnrichProvider,
		"timeout_seconds", cfg.Pipeline.TimeoutSeconds)

	return &application{
		config:  cfg,
		logger:  logger,
		metrics: m,
		cards:   svc,
	}, nil
}
