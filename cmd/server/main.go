package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amtrading0706/us-whisperer-pro/internal/clients/edgar"
	"github.com/amtrading0706/us-whisperer-pro/internal/clients/openinsider"
	"github.com/amtrading0706/us-whisperer-pro/internal/clients/sentiment"
	"github.com/amtrading0706/us-whisperer-pro/internal/clients/yahoo"
	"github.com/amtrading0706/us-whisperer-pro/internal/config"
	"github.com/amtrading0706/us-whisperer-pro/internal/events"
	"github.com/amtrading0706/us-whisperer-pro/internal/scheduler"
	"github.com/amtrading0706/us-whisperer-pro/internal/server"
	"github.com/amtrading0706/us-whisperer-pro/internal/signals"
	"github.com/amtrading0706/us-whisperer-pro/internal/universe"
	"github.com/amtrading0706/us-whisperer-pro/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info", Pretty: true})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting US Whisperer Pro")

	// Tracked ticker universe
	uni := universe.New(cfg.UniverseExtra...)
	log.Info().Int("size", uni.Size()).Msg("Universe loaded")

	// Feed clients
	yahooClient := yahoo.NewClient(yahoo.Options{Timeout: cfg.FeedTimeout}, log)
	edgarClient := edgar.NewClient(edgar.Options{Timeout: cfg.FeedTimeout}, log)
	insiderClient := openinsider.NewClient(openinsider.Options{
		Timeout: cfg.FeedTimeout,
		Limit:   cfg.InsiderLimit,
	}, log)
	sentimentClient := sentiment.NewClient(sentiment.Options{
		BaseURL: cfg.SentimentServiceURL,
		Timeout: cfg.FeedTimeout,
	}, log)

	// Signal machinery
	ev := events.NewManager(log)
	confirm := signals.NewConfirmator(yahooClient, cfg.ConfirmWorkers, log)

	earningsPipe := signals.NewEarningsPipeline(yahooClient, uni, confirm, ev, log)
	filingsPipe := signals.NewFilingsPipeline(edgarClient, sentimentClient, uni, confirm, ev, log)
	insidersPipe := signals.NewInsidersPipeline(insiderClient, uni, confirm, ev, log)

	store := signals.NewSnapshotStore(log)
	service := signals.NewService(earningsPipe, filingsPipe, insidersPipe, store, ev, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	if cfg.RefreshSchedule != "" {
		job := scheduler.NewRefreshJob(service, 2*time.Minute, log)
		if err := sched.AddJob(cfg.RefreshSchedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.RefreshSchedule).Msg("Failed to register refresh job")
		}
		log.Info().Str("schedule", cfg.RefreshSchedule).Msg("Background refresh enabled")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		DevMode:  cfg.DevMode,
		Signals:  signals.NewHandler(service, log),
		Universe: uni,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
