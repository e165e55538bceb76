package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// ProcessorConfig holds the cleaning options.
type ProcessorConfig struct {
	// DefaultYear completes bare month-name headers.
	DefaultYear int
	// ExcludePeriods lists period labels dropped from the cleaned table.
	// Labels match the display label ("Jan-25") or the raw header.
	ExcludePeriods []string
}

// Processor turns a raw source grid into a cleaned wide table: period
// headers parsed, metric labels standardized, cells normalized, empty rows
// dropped and excluded periods removed.
type Processor struct {
	logger *slog.Logger
	parser *PeriodParser
	config ProcessorConfig
}

// NewProcessor creates a processor with the given configuration.
func NewProcessor(logger *slog.Logger, config ProcessorConfig) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger: logger,
		parser: NewPeriodParser(config.DefaultYear),
		config: config,
	}
}

// Clean converts the raw grid into a wide table. The grid's first row is the
// header (label-column title plus period headers); each following row is one
// metric. Only structural emptiness is an error; individual malformed cells
// degrade to missing values.
func (p *Processor) Clean(ctx context.Context, grid domain.RawGrid) (*WideTable, error) {
	if grid.Empty() {
		return nil, errors.NewParsingError("source grid has no data rows", nil)
	}

	header := grid.Header()
	if len(header) < 2 {
		return nil, errors.NewParsingError("source grid has no period columns", nil)
	}

	periods := p.parser.ParseAll(header[1:])
	periods = p.excludePeriods(ctx, periods)

	unparsed := 0
	for _, period := range periods {
		if !period.Parsed {
			unparsed++
			p.logger.WarnContext(ctx, "unparseable period header retained",
				slog.String("header", period.Raw),
				slog.Int("position", period.Position))
		}
	}

	table := NewWideTable(periods)

	dropped := 0
	for _, rawRow := range grid[1:] {
		if len(rawRow) == 0 || strings.TrimSpace(rawRow[0]) == "" {
			dropped++
			continue
		}

		label := strings.TrimSpace(rawRow[0])
		row := Row{
			Metric: StandardizeMetricName(label),
			Label:  label,
			Cells:  make(map[string]domain.Value),
		}

		empty := true
		for _, period := range periods {
			// Periods keep their original column index, so exclusion
			// cannot shift cells across columns.
			cellIdx := period.Position + 1
			if cellIdx >= len(rawRow) {
				continue
			}
			v := NormalizeCell(rawRow[cellIdx])
			if v.IsMissing() {
				continue
			}
			row.Cells[period.Key()] = v
			empty = false
		}

		if empty {
			dropped++
			continue
		}
		table.AddRow(row)
	}

	if len(table.Rows) == 0 {
		return nil, errors.NewParsingError("no valid metric rows found in source", nil)
	}

	p.logger.InfoContext(ctx, "cleaned source grid",
		slog.Int("metrics", len(table.Rows)),
		slog.Int("periods", len(periods)),
		slog.Int("unparsed_periods", unparsed),
		slog.Int("dropped_rows", dropped))

	return table, nil
}

// excludePeriods removes configured period labels from the column set.
func (p *Processor) excludePeriods(ctx context.Context, periods []domain.Period) []domain.Period {
	if len(p.config.ExcludePeriods) == 0 {
		return periods
	}

	excluded := make(map[string]bool, len(p.config.ExcludePeriods))
	for _, label := range p.config.ExcludePeriods {
		excluded[strings.ToLower(strings.TrimSpace(label))] = true
	}

	kept := periods[:0:0]
	for _, period := range periods {
		if excluded[strings.ToLower(period.Label())] || excluded[strings.ToLower(strings.TrimSpace(period.Raw))] {
			p.logger.InfoContext(ctx, "excluding period from output",
				slog.String("label", period.Label()),
				slog.String("raw", period.Raw))
			continue
		}
		kept = append(kept, period)
	}
	return kept
}
