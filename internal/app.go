package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beanbocchi/companion/config"
	"github.com/beanbocchi/companion/internal/client/objectstore/s3"
	"github.com/beanbocchi/companion/internal/events"
	"github.com/beanbocchi/companion/internal/service"
	"github.com/beanbocchi/companion/internal/transport"
)

// NewConfig provides the application configuration
func NewConfig() *config.Config {
	return config.GetConfig()
}

func SetupLogger() {
	cfg := config.GetConfig().Log

	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// Start wires the gateway together and launches the HTTP server in the
// background. It returns once the server is accepting connections or setup
// failed.
func Start() error {
	cfg := NewConfig()
	SetupLogger()

	ctx := context.Background()

	store, err := s3.NewClient(ctx, s3.S3Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	})
	if err != nil {
		return fmt.Errorf("create object store client: %w", err)
	}

	// The bucket probe is advisory, a missing bucket shows up on the first
	// real operation anyway.
	if err := store.Ping(ctx); err != nil {
		slog.Warn("could not verify bucket at startup", "bucket", cfg.Storage.Bucket, "error", err)
	}

	var recorder *events.Recorder
	if cfg.Events.Enabled {
		recorder, err = events.NewRecorder(cfg.Events.Path)
		if err != nil {
			slog.Warn("event log disabled", "path", cfg.Events.Path, "error", err)
			recorder = nil
		}
	}

	svc := service.NewService(store, recorder, service.Config{
		PresignTTL:         time.Duration(cfg.Storage.PresignTTL) * time.Second,
		SingleActiveUpload: cfg.Storage.SingleActiveUpload,
	})

	e, err := transport.NewEcho(svc)
	if err != nil {
		return fmt.Errorf("create echo server: %w", err)
	}
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		slog.Info("starting companion server", "addr", addr, "bucket", cfg.Storage.Bucket)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server exited", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
		if recorder != nil {
			if err := recorder.Close(); err != nil {
				slog.Error("close event log", "error", err)
			}
		}
		os.Exit(0)
	}()

	return nil
}
