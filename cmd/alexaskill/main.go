package main

import (
	"context"
	"crypto/x509"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-home-alexaskill/config"
	"smart-home-alexaskill/internal/application"
	"smart-home-alexaskill/internal/infra/skill"
	"smart-home-alexaskill/internal/infra/smarthome"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	backend, err := createBackendClient(cfg.Backend, logger)
	if err != nil {
		logger.Error("creating backend client", "error", err)
		os.Exit(1)
	}

	opts := []application.Option{application.WithLogger(logger)}
	if cfg.Discovery.SingleBaseCapability {
		opts = append(opts, application.WithSingleBaseCapability())
	}
	dispatcher := application.NewDispatcher(backend, opts...)

	server := skill.NewServer(cfg.Server.Addr, cfg.Server.AuthToken, dispatcher, logger)

	logger.Info("starting alexa skill bridge",
		"addr", cfg.Server.Addr,
		"backend", cfg.Backend.BaseURL,
	)

	if err := server.Start(ctx); err != nil {
		logger.Error("starting server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		logger.Error("stopping server", "error", err)
		os.Exit(1)
	}
}

func createBackendClient(cfg config.BackendConfig, logger *slog.Logger) (*smarthome.Client, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		logger.Warn("invalid backend timeout, using default", "error", err, "value", cfg.Timeout)
		timeout = 10 * time.Second
	}

	opts := []smarthome.Option{smarthome.WithTimeout(timeout)}

	switch {
	case cfg.InsecureSkipVerify:
		logger.Warn("backend certificate verification disabled")
		opts = append(opts, smarthome.WithInsecureTLS())
	case cfg.CAFile != "":
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CAFile)
		}
		opts = append(opts, smarthome.WithRootCAs(pool))
	}

	return smarthome.NewClient(cfg.BaseURL, cfg.AuthCode, opts...), nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
