// Package source loads the raw tabular dataset the pipeline consumes:
// a local CSV file, a Google Sheets worksheet, or, when the Drive file is
// a real Excel workbook rather than a native sheet, an xlsx download.
// Every loader produces the same domain.RawGrid shape: a header row of
// period columns followed by one row per metric.
package source

import (
	"context"

	"kpicli/pkg/contracts/domain"
)

// Source is a tabular dataset loader. Load blocks for at most the
// configured fetch timeout and returns the grid exactly as stored; cleaning
// belongs to the processor.
type Source interface {
	Load(ctx context.Context) (domain.RawGrid, error)
}
