package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"kpicli/internal/config"
	"kpicli/internal/dataprocessing"
	"kpicli/internal/exporter"
	"kpicli/internal/infrastructure"
	"kpicli/internal/operations"
	"kpicli/internal/source"
	"kpicli/pkg/contracts/domain"
)

func main() {
	spreadsheetID := flag.String("spreadsheet", "", "Google Sheets spreadsheet or Drive file ID (overrides config)")
	sheetName := flag.String("sheet", "", "worksheet name (overrides config)")
	credentials := flag.String("credentials", "", "service account credentials file (overrides config)")
	rawOnly := flag.Bool("raw-only", false, "only save the raw grid, skip the transform")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *spreadsheetID != "" {
		cfg.Sheets.SpreadsheetID = *spreadsheetID
	}
	if *sheetName != "" {
		cfg.Pipeline.SheetName = *sheetName
	}
	if *credentials != "" {
		cfg.Sheets.CredentialsFile = *credentials
	}
	if cfg.Sheets.SpreadsheetID == "" {
		slog.Error("No spreadsheet ID given; use -spreadsheet or KPI_SHEETS_SPREADSHEET_ID")
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	src, err := source.NewSheetsSource(ctx, source.SheetsConfig{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		SheetName:       cfg.Pipeline.SheetName,
		Range:           cfg.Sheets.Range,
		CredentialsFile: cfg.Sheets.CredentialsFile,
		FetchTimeout:    cfg.Sheets.FetchTimeout,
		RequestsPerSec:  cfg.Sheets.RequestsPerSec,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize Sheets source", "error", err)
		os.Exit(1)
	}

	grid, err := src.Load(ctx)
	if err != nil {
		logger.Error("Failed to fetch spreadsheet", "error", err)
		os.Exit(1)
	}

	if err := saveRawGrid(cfg.Paths.RawFile, grid); err != nil {
		logger.Error("Failed to save raw data", "error", err)
		os.Exit(1)
	}
	logger.Info("Saved raw data",
		slog.String("path", cfg.Paths.RawFile),
		slog.Int("rows", len(grid)))

	if *rawOnly {
		return
	}

	// run the transform over the file just written, same path the offline
	// pipeline takes
	pipeline := operations.NewPipeline(operations.Dependencies{
		Source: source.NewCSVSource(cfg.Paths.RawFile, logger),
		Processor: dataprocessing.NewProcessor(logger, dataprocessing.ProcessorConfig{
			DefaultYear:    cfg.Pipeline.DefaultYear,
			ExcludePeriods: cfg.Pipeline.ExcludePeriods,
		}),
		Converter:  dataprocessing.NewConverter(logger),
		Calculator: dataprocessing.NewCalculator(logger),
		Summarizer: dataprocessing.NewSummarizer(logger),
		Exporter:   exporter.NewExporter(cfg.Paths, logger),
		Logger:     logger,
	})

	ds, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("Transform failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Fetch and transform finished",
		slog.Int("periods", len(ds.Base)),
		slog.String("output_dir", cfg.Paths.ProcessedDir))
}

// saveRawGrid writes the fetched grid verbatim as CSV.
func saveRawGrid(path string, grid domain.RawGrid) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(grid); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
