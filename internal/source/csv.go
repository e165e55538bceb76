package source

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"

	"kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// CSVSource loads the raw grid from a local delimited file.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// NewCSVSource creates a CSV file source.
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{path: path, logger: logger}
}

// Load reads the whole file into a raw grid. A missing file is the fatal
// MissingSource condition; ragged rows are tolerated since the sheet export
// trims trailing empty cells.
func (s *CSVSource) Load(ctx context.Context) (domain.RawGrid, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingSourceError("data file not found", err).
				WithContext("path", s.path)
		}
		return nil, errors.NewStorageError("failed to open data file", err).
			WithContext("path", s.path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV data", err).
			WithContext("path", s.path)
	}

	s.logger.InfoContext(ctx, "loaded CSV data",
		slog.String("path", s.path),
		slog.Int("row_count", len(rows)))

	return domain.RawGrid(rows), nil
}
