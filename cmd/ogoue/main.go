package main

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/auth"
	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/config"
	"github.com/ogoue/ogoue/internal/metrics"
	"github.com/ogoue/ogoue/internal/notify"
	"github.com/ogoue/ogoue/internal/reports"
	"github.com/ogoue/ogoue/internal/server"
	"github.com/ogoue/ogoue/internal/store/postgres"
	redisstore "github.com/ogoue/ogoue/internal/store/redis"
	"github.com/ogoue/ogoue/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	// Initialize structured logging from environment.
	level, parseErr := zerolog.ParseLevel(os.Getenv("OGOUE_LOG_LEVEL"))
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("OGOUE_LOG_FORMAT") == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis for the monthly summary cache.
	cache, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer cache.Close()

	// Receipt file storage.
	blobs, err := blob.NewFSStore(cfg.Blob.Dir, cfg.Blob.PublicBaseURL)
	if err != nil {
		return err
	}

	// Deletion notifications: Slack when configured, no-op otherwise.
	var notifier notify.Notifier = notify.Noop{}
	if cfg.SlackEnabled() {
		notifier = notify.NewSlackNotifier(slacklib.New(cfg.Slack.BotToken), cfg.Slack.Channel)
		log.Info().Str("channel", cfg.Slack.Channel).Msg("Slack deletion notifications enabled")
	}

	authSvc := auth.NewService(store.Organizations(), store.Users(), store.Agents(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	reportSvc := reports.NewService(store.Sales(), store.Expenses(), cache)
	auditSvc := audit.NewService(
		store.Deletions(),
		store.Sales(),
		store.Expenses(),
		store.Users(),
		store.Agents(),
		blobs,
		notifier,
		reportSvc,
		metrics.New(),
	)

	// Prepare embedded dashboard assets (strip "static/" prefix from fs paths).
	webAssets, err := fs.Sub(web.Assets, "static")
	if err != nil {
		return fmt.Errorf("web assets: %w", err)
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, authSvc, auditSvc, reportSvc, blobs, webAssets)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
