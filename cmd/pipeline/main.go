package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"bankfacts/internal/config"
	"bankfacts/internal/dataprocessing"
	"bankfacts/internal/exporter"
	"bankfacts/internal/infrastructure"
	"bankfacts/internal/source"
)

func main() {
	baseLocation := flag.String("source", "", "base URL or directory for the raw datasets (defaults to configured source)")
	outDir := flag.String("out", "", "output directory for report files (defaults to configured output dir)")
	writeExcel := flag.Bool("xlsx", false, "also write the reports as an Excel workbook")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *baseLocation != "" {
		cfg.Source.BaseLocation = *baseLocation
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *writeExcel {
		cfg.Output.WriteExcel = true
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	sinks := exporter.MultiSink{
		exporter.NewConsoleSink(os.Stdout, 10, logger),
	}
	if cfg.Output.WriteCSV {
		sinks = append(sinks, exporter.NewCSVSink(cfg.Output.Dir, logger))
	}
	if cfg.Output.WriteExcel {
		sinks = append(sinks, exporter.NewExcelSink(cfg.Output.Dir, logger))
	}

	src := source.New(cfg.Source.BaseLocation, cfg.Source.Timeout, logger)
	processor := dataprocessing.NewProcessor(src, sinks, logger)

	result, err := processor.Run(context.Background())
	if err != nil {
		// The processor already logged the diagnostic; exit with failure.
		os.Exit(1)
	}

	logger.Info("run finished",
		slog.String("run_id", result.RunID),
		slog.Int("fact_rows", result.FactRows),
		slog.Duration("duration", result.Duration))
}
