package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// SheetsConfig holds the spreadsheet source options.
type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	Range           string
	CredentialsFile string
	FetchTimeout    time.Duration
	RequestsPerSec  float64
}

// SheetsSource fetches the raw grid from the Google Sheets API, falling back
// to downloading the file from Drive and reading it as an Excel workbook
// when the ID refers to an uploaded xlsx rather than a native sheet.
type SheetsSource struct {
	config  SheetsConfig
	sheets  *sheets.Service
	drive   *drive.Service
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewSheetsSource creates a Sheets source using service-account credentials.
func NewSheetsSource(ctx context.Context, config SheetsConfig, logger *slog.Logger) (*SheetsSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SpreadsheetID == "" {
		return nil, errors.NewConfigError("spreadsheet ID is required", nil)
	}
	if config.Range == "" {
		config.Range = "A:Z"
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 30 * time.Second
	}
	if config.RequestsPerSec <= 0 {
		config.RequestsPerSec = 1
	}

	if _, err := os.Stat(config.CredentialsFile); err != nil {
		return nil, errors.NewConfigError("credentials file not found", err).
			WithContext("path", config.CredentialsFile)
	}

	credentials := option.WithCredentialsFile(config.CredentialsFile)

	sheetsService, err := sheets.NewService(ctx, credentials)
	if err != nil {
		return nil, errors.NewNetworkError("failed to create sheets service", err)
	}
	driveService, err := drive.NewService(ctx, credentials)
	if err != nil {
		return nil, errors.NewNetworkError("failed to create drive service", err)
	}

	return &SheetsSource{
		config:  config,
		sheets:  sheetsService,
		drive:   driveService,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSec), 1),
		logger:  logger,
	}, nil
}

// Load fetches the configured worksheet as a grid of strings. The fetch is
// one bounded blocking call; on timeout the run fails and is not retried.
func (s *SheetsSource) Load(ctx context.Context) (domain.RawGrid, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	grid, err := s.loadFromSheets(ctx)
	if err == nil {
		return grid, nil
	}

	s.logger.WarnContext(ctx, "sheets API read failed, trying Drive xlsx download",
		slog.String("spreadsheet_id", s.config.SpreadsheetID),
		slog.String("error", err.Error()))

	grid, driveErr := s.loadFromDrive(ctx)
	if driveErr != nil {
		return nil, errors.NewNetworkError("failed to fetch spreadsheet", driveErr).
			WithContext("spreadsheet_id", s.config.SpreadsheetID).
			WithContext("sheets_error", err.Error())
	}
	return grid, nil
}

// loadFromSheets reads the sheet through the Sheets values API.
func (s *SheetsSource) loadFromSheets(ctx context.Context) (domain.RawGrid, error) {
	sheetName, err := s.resolveSheetName(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	readRange := fmt.Sprintf("%s!%s", sheetName, s.config.Range)
	resp, err := s.sheets.Spreadsheets.Values.Get(s.config.SpreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("values get %s: %w", readRange, err)
	}

	if len(resp.Values) == 0 {
		return nil, errors.NewMissingSourceError("no data found in sheet", nil).
			WithContext("range", readRange)
	}

	grid := make(domain.RawGrid, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprintf("%v", cell)
		}
		grid[i] = cells
	}

	s.logger.InfoContext(ctx, "fetched sheet data",
		slog.String("sheet_name", sheetName),
		slog.Int("row_count", len(grid)))

	return grid, nil
}

// resolveSheetName checks the spreadsheet metadata for the configured sheet
// and falls back to the first sheet when it is absent. Metadata failures are
// non-fatal; the configured name is used as-is.
func (s *SheetsSource) resolveSheetName(ctx context.Context) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	meta, err := s.sheets.Spreadsheets.Get(s.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		s.logger.WarnContext(ctx, "could not get spreadsheet metadata",
			slog.String("error", err.Error()))
		return s.config.SheetName, nil
	}

	var titles []string
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	for _, title := range titles {
		if title == s.config.SheetName {
			return title, nil
		}
	}
	if len(titles) > 0 {
		s.logger.InfoContext(ctx, "configured sheet not found, using first sheet",
			slog.String("configured", s.config.SheetName),
			slog.String("using", titles[0]))
		return titles[0], nil
	}
	return s.config.SheetName, nil
}

// loadFromDrive downloads the file and reads it as an Excel workbook.
func (s *SheetsSource) loadFromDrive(ctx context.Context) (domain.RawGrid, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.drive.Files.Get(s.config.SpreadsheetID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("drive download: %w", err)
	}
	defer resp.Body.Close()

	grid, err := ReadExcelGrid(resp.Body, s.config.SheetName, s.logger)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fetched xlsx from Drive",
		slog.String("file_id", s.config.SpreadsheetID),
		slog.Int("row_count", len(grid)))

	return grid, nil
}
