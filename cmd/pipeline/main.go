package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"kpicli/internal/config"
	"kpicli/internal/dataprocessing"
	"kpicli/internal/exporter"
	"kpicli/internal/infrastructure"
	"kpicli/internal/operations"
	"kpicli/internal/source"
)

func main() {
	inFile := flag.String("in", "", "input CSV file (overrides configured raw file path)")
	outDir := flag.String("out", "", "output directory for processed artifacts (overrides config)")
	configFile := flag.String("config", "", "YAML config file (overrides KPI_CONFIG_FILE)")
	traceExporter := flag.String("trace", "none", "trace exporter: stdout or none")
	flag.Parse()

	if *configFile != "" {
		os.Setenv("KPI_CONFIG_FILE", *configFile)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *inFile != "" {
		cfg.Paths.RawFile = *inFile
		// an explicit input file always wins over a configured spreadsheet
		cfg.Sheets.SpreadsheetID = ""
	}
	if *outDir != "" {
		cfg.Paths.ProcessedDir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.TraceExporter = *traceExporter
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	src, err := selectSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data source", "error", err)
		os.Exit(1)
	}

	pipeline := operations.NewPipeline(operations.Dependencies{
		Source: src,
		Processor: dataprocessing.NewProcessor(logger, dataprocessing.ProcessorConfig{
			DefaultYear:    cfg.Pipeline.DefaultYear,
			ExcludePeriods: cfg.Pipeline.ExcludePeriods,
		}),
		Converter:  dataprocessing.NewConverter(logger),
		Calculator: dataprocessing.NewCalculator(logger),
		Summarizer: dataprocessing.NewSummarizer(logger),
		Exporter:   exporter.NewExporter(cfg.Paths, logger),
		Tracer:     providers.Tracer,
		Logger:     logger,
	})

	ds, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("Pipeline run failed",
			"error", err,
			"status", string(pipeline.State().CurrentStatus()))
		os.Exit(1)
	}

	logger.Info("Pipeline finished",
		slog.Int("periods", len(ds.Base)),
		slog.Int("metrics", len(ds.Metrics())),
		slog.Int("period_gaps", len(ds.Continuity.Gaps)),
		slog.String("output_dir", cfg.Paths.ProcessedDir))
}

// selectSource picks the data source: a configured spreadsheet ID means the
// Sheets API, otherwise the local raw CSV file.
func selectSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (source.Source, error) {
	if cfg.Sheets.SpreadsheetID != "" {
		return source.NewSheetsSource(ctx, source.SheetsConfig{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			SheetName:       cfg.Pipeline.SheetName,
			Range:           cfg.Sheets.Range,
			CredentialsFile: cfg.Sheets.CredentialsFile,
			FetchTimeout:    cfg.Sheets.FetchTimeout,
			RequestsPerSec:  cfg.Sheets.RequestsPerSec,
		}, logger)
	}
	return source.NewCSVSource(cfg.Paths.RawFile, logger), nil
}
