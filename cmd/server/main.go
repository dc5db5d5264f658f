package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"github.com/tunicar/vehicle-alerts/internal/config"
	"github.com/tunicar/vehicle-alerts/internal/dispatcher"
	"github.com/tunicar/vehicle-alerts/internal/handler"
	"github.com/tunicar/vehicle-alerts/internal/notifier"
	"github.com/tunicar/vehicle-alerts/internal/scanner"
	"github.com/tunicar/vehicle-alerts/internal/storage"
	"github.com/tunicar/vehicle-alerts/internal/validator"
)

func main() {
	slog.Info("Starting vehicle alerts server...")
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()
	store, err := storage.New(ctx, cfg.ProjectID)
	if err != nil {
		slog.Error("Critical error initializing Firestore client", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	pusher, err := newPusher(ctx, cfg)
	if err != nil {
		slog.Error("Critical error initializing FCM client", "error", err)
		os.Exit(1)
	}

	d := dispatcher.New(store, pusher, dispatcher.Options{
		Title:    cfg.PushTitle,
		Currency: cfg.PriceCurrency,
		Timeout:  cfg.DeliveryTimeout,
	})
	s := scanner.New(store, d, cfg.DeliveryConcurrency)
	h := handler.New(store, s, validator.New(), cfg.ScanTimeout)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ScanTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped.")
}

func newPusher(ctx context.Context, cfg *config.Config) (dispatcher.Pusher, error) {
	if cfg.PushDisabled {
		slog.Warn("PUSH_DISABLED set, push notifications will only be logged")
		return notifier.LogPusher{}, nil
	}
	var opts []option.ClientOption
	if cfg.FCMEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.FCMEndpoint), option.WithoutAuthentication())
	}
	client, err := notifier.NewFCM(ctx, cfg.ProjectID, cfg.DeliveryRatePerSec, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}
