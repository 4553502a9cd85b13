package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/phdstats-api/api/swagger"
	"github.com/noah-isme/phdstats-api/internal/app"
	"github.com/noah-isme/phdstats-api/internal/service"
	"github.com/noah-isme/phdstats-api/internal/store"
	"github.com/noah-isme/phdstats-api/pkg/config"
	"github.com/noah-isme/phdstats-api/pkg/logger"
)

// @title PhD Stats API
// @version 0.1.0
// @description Placement and time-to-degree statistics for graduate programs
// @BasePath /
// @schemes http

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := app.OpenBackend(ctx, cfg, cfg.Dataset.Source, logr)
	if err != nil {
		logr.Fatal("failed to open dataset source", zap.String("source", cfg.Dataset.Source), zap.Error(err))
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logr.Warn("failed to close dataset source", zap.Error(err))
		}
	}()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}
	validate := validator.New()
	datasets := store.NewDatasetStore()

	datasetSvc := service.NewDatasetService(service.DatasetServiceParams{
		Source:  backend,
		Store:   datasets,
		Metrics: metrics,
		Logger:  logr,
		Config: service.DatasetServiceConfig{
			LoadRetries: cfg.Dataset.LoadRetries,
			Workers:     cfg.Dataset.LoadWorkers,
		},
	})
	programSvc := service.NewProgramService(service.ProgramServiceParams{
		Store:     datasets,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
	})
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Programs:  programSvc,
		Validator: validate,
		Logger:    logr,
		Config:    service.ExportConfig{MaxRows: cfg.Export.MaxRows},
	})

	datasetSvc.Start(ctx)
	defer datasetSvc.Stop()
	if _, err := datasetSvc.ScheduleReload("startup"); err != nil {
		logr.Error("failed to schedule initial dataset load", zap.Error(err))
	}
	if cfg.Dataset.ReloadInterval > 0 {
		go reloadPeriodically(ctx, datasetSvc, cfg.Dataset.ReloadInterval, logr)
	}

	router := app.NewRouter(app.RouterParams{
		Config:   cfg,
		Logger:   logr,
		Metrics:  metrics,
		Datasets: datasetSvc,
		Programs: programSvc,
		Exports:  exportSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "source", backend.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func reloadPeriodically(ctx context.Context, datasets *service.DatasetService, interval time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := datasets.ScheduleReload("interval"); err != nil {
				logr.Debug("periodic reload skipped", zap.Error(err))
			}
		}
	}
}
