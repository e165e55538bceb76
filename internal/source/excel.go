package source

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// ReadExcelGrid parses an xlsx stream into a raw grid. It tries the named
// sheet first and falls back to the first sheet in the workbook, matching the
// behavior of the Sheets loader.
func ReadExcelGrid(r io.Reader, sheetName string, logger *slog.Logger) (domain.RawGrid, error) {
	if logger == nil {
		logger = slog.Default()
	}

	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewParsingError("failed to open Excel workbook", err)
	}
	defer workbook.Close()

	sheetList := workbook.GetSheetList()
	if len(sheetList) == 0 {
		return nil, errors.NewParsingError("workbook has no sheets", nil)
	}

	target := ""
	for _, name := range sheetList {
		if name == sheetName {
			target = name
			break
		}
	}
	if target == "" {
		target = sheetList[0]
		logger.Warn("sheet not found in workbook, using first sheet",
			slog.String("wanted", sheetName),
			slog.String("using", target))
	}

	rows, err := workbook.GetRows(target)
	if err != nil {
		return nil, errors.NewParsingError("failed to read workbook rows", err).
			WithContext("sheet", target)
	}
	if len(rows) == 0 {
		return nil, errors.NewMissingSourceError("no data found in workbook sheet", nil).
			WithContext("sheet", target)
	}

	return domain.RawGrid(rows), nil
}

// ExcelSource loads the raw grid from a local xlsx file. It exists for runs
// against a workbook exported by hand rather than fetched from Drive.
type ExcelSource struct {
	path      string
	sheetName string
	logger    *slog.Logger
}

// NewExcelSource creates an Excel file source.
func NewExcelSource(path, sheetName string, logger *slog.Logger) *ExcelSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelSource{path: path, sheetName: sheetName, logger: logger}
}

// Load reads the workbook sheet into a raw grid.
func (s *ExcelSource) Load(ctx context.Context) (domain.RawGrid, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingSourceError("workbook not found", err).
				WithContext("path", s.path)
		}
		return nil, errors.NewStorageError("failed to open workbook", err).
			WithContext("path", s.path)
	}
	defer file.Close()

	grid, err := ReadExcelGrid(file, s.sheetName, s.logger)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "loaded Excel data",
		slog.String("path", s.path),
		slog.Int("row_count", len(grid)))

	return grid, nil
}
