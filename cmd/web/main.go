package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bankfacts/internal/config"
	"bankfacts/internal/dataprocessing"
	"bankfacts/internal/exporter"
	"bankfacts/internal/infrastructure"
	"bankfacts/internal/services"
	"bankfacts/internal/source"
	transport "bankfacts/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	sinks := exporter.MultiSink{}
	if cfg.Output.WriteCSV {
		sinks = append(sinks, exporter.NewCSVSink(cfg.Output.Dir, logger))
	}
	if cfg.Output.WriteExcel {
		sinks = append(sinks, exporter.NewExcelSink(cfg.Output.Dir, logger))
	}

	src := source.New(cfg.Source.BaseLocation, cfg.Source.Timeout, logger)
	processor := dataprocessing.NewProcessor(src, sinks, logger)
	service := services.NewPipelineService(processor, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      transport.NewRouter(service, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}
