package main

import (
	"context"
	"fmt"
	"net/http"

	"pilgrim-insights-go/internal/config"
	"pilgrim-insights-go/internal/dataset"
	"pilgrim-insights-go/internal/logger"
	"pilgrim-insights-go/internal/server"
	"pilgrim-insights-go/internal/types"
)

func main() {
	log := logger.New()
	log.WithField("service", "pilgrim-insights-go").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	log.WithField("source", cfg.DatasetSource).Info("loading dataset")
	records, err := loadRecords(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to load dataset")
	}
	log.WithField("total_pilgrims", len(records)).Info("dataset loaded")

	srv := server.New(records, server.Options{
		StageMode:    cfg.StageMode,
		BookingMatch: cfg.BookingMatch,
		MaxSessions:  cfg.MaxSessions,
		SessionTTL:   cfg.SessionTTL,
	}, log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	log.WithField("addr", addr).
		WithField("stage_mode", cfg.StageMode.String()).
		Info("listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func loadRecords(ctx context.Context, cfg config.Config) ([]types.Pilgrim, error) {
	switch cfg.DatasetSource {
	case config.SourceFile:
		return dataset.Load(cfg.DatasetPath)
	case config.SourceURL:
		return dataset.FetchRecords(ctx, cfg.DatasetURL, cfg.DatasetFetchTimeout)
	case config.SourceReport:
		report, err := loadReport(ctx, cfg)
		if err != nil {
			return nil, err
		}
		records, err := dataset.FromReport(report, cfg.DatasetSeed)
		if err != nil {
			return nil, err
		}
		return records, dataset.Validate(records)
	}
	records, err := dataset.Generate(dataset.GeneratorConfig{Size: cfg.DatasetSize, Seed: cfg.DatasetSeed})
	if err != nil {
		return nil, err
	}
	return records, dataset.Validate(records)
}

func loadReport(ctx context.Context, cfg config.Config) (dataset.Report, error) {
	if cfg.DatasetURL != "" {
		return dataset.FetchReport(ctx, cfg.DatasetURL, cfg.DatasetFetchTimeout)
	}
	return dataset.LoadReport(cfg.DatasetPath)
}
