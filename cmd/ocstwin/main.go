package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ocs-acceptance/cmd/config"
	"ocs-acceptance/internal/infra/httpserver"
	"ocs-acceptance/internal/infra/node"
	"ocs-acceptance/internal/infra/telemetry"
	"ocs-acceptance/internal/logger"
	"ocs-acceptance/internal/ocs"
	"ocs-acceptance/internal/ocstwin"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.General.LogLevel)
	log.Infow("ocs twin is initializing", "version", node.Version, "address", cfg.Twin.Address)

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := telemetry.Start(context.Background(), telemetry.Options{
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: "ocs-twin",
			Metrics:     true,
		})
		if err != nil {
			log.Errorw("starting OTel providers", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(); err != nil {
				log.Warnw("stopping OTel providers", "error", err)
			}
		}()
	}

	var messages ocs.MessageTable
	if cfg.Fixtures.MultiLanguageErrors != "" {
		table, err := ocs.ReadMessageTable(cfg.Fixtures.MultiLanguageErrors)
		if err != nil {
			log.Warnw("status messages will not be localized", "error", err)
		}
		messages = table
	}

	twin := ocstwin.New(ocs.Credential{Username: cfg.Admin.Username, Password: cfg.Admin.Password}, messages)
	server := httpserver.NewServer(cfg.Twin.Address, twin)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signalChannel:
		log.Infow("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			log.Errorw("server stopped", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("shutting down server", "error", err)
	}
}
