package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/handlog/internal/api"
	"github.com/MikeSquared-Agency/handlog/internal/hermes"
	"github.com/MikeSquared-Agency/handlog/internal/loader"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the records, summary and export API for one log file",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default $HANDLOG_PORT or 8760)")
	serveCmd.Flags().String("log-file", "", "poker log to serve (default $HANDLOG_LOG_FILE)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile, _ = cmd.Flags().GetString("log-file")
	}

	slog.Info("handlog starting", "port", cfg.Port, "log_file", cfg.LogFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// NATS/Hermes (optional: without it parses are simply not announced)
	var events loader.Publisher
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		c, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			return err
		}
		defer c.Close()
		hermesClient = c
		events = c
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, parse events disabled")
	}

	ld := loader.New(events, slog.Default())

	// Warm the cache so a broken log shows up at startup, not on first request.
	if _, err := ld.Load(ctx, cfg.LogFile); err != nil {
		slog.Warn("initial load failed", "path", cfg.LogFile, "error", err)
	}

	srv := api.NewServer(api.Options{
		Port:       cfg.Port,
		APIToken:   cfg.APIToken,
		LogFile:    cfg.LogFile,
		SampleSize: cfg.SampleSize,
		SampleSeed: uint64(cfg.SampleSeed),
	}, ld, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if hermesClient != nil {
		if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"log_file":  cfg.LogFile,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("handlog ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("handlog stopped")
	return nil
}
