package exporter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"kpicli/internal/config"
	"kpicli/internal/dataprocessing"
	"kpicli/pkg/contracts/domain"
)

// derivedColumns is the processed-CSV column order for calculator output.
var derivedColumns = []domain.MetricKey{
	dataprocessing.MetricBoxesPerInvoice,
	dataprocessing.MetricGMVMoMGrowth,
	dataprocessing.MetricFundedMoMGrowth,
	dataprocessing.MetricGMVMA3,
	dataprocessing.MetricFundedMA3,
	dataprocessing.MetricCumulativeGMV,
	dataprocessing.MetricCumulativeFunded,
	dataprocessing.MetricQuarter,
	dataprocessing.MetricYear,
	dataprocessing.MetricMonthName,
	dataprocessing.MetricDaysPerformance,
}

// Exporter writes the output artifacts of a pipeline run.
type Exporter struct {
	paths  config.PathsConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter creates an exporter writing under the configured processed
// directory.
func NewExporter(paths config.PathsConfig, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{paths: paths, logger: logger, now: time.Now}
}

// WriteAll writes all three artifacts. The writers are independent so they
// run concurrently; the first failure cancels the run.
func (e *Exporter) WriteAll(ctx context.Context, ds *dataprocessing.Dataset) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return e.WriteDashboardJSON(ctx, ds) })
	g.Go(func() error { return e.WriteProcessedCSV(ctx, ds) })
	g.Go(func() error { return e.WriteWideCSV(ctx, ds.EUR) })

	return g.Wait()
}

// WriteDashboardJSON writes the dashboard document.
func (e *Exporter) WriteDashboardJSON(ctx context.Context, ds *dataprocessing.Dataset) error {
	path := e.paths.DashboardJSONPath()
	payload := buildDashboardPayload(ds, e.now())

	if err := writeJSONFile(path, payload); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "wrote dashboard JSON",
		slog.String("path", path),
		slog.Int("period_count", len(payload.Periods)),
		slog.Int("metric_count", len(payload.Metrics)))
	return nil
}

// WriteProcessedCSV writes the flat per-period table: one row per parsed
// period, one column per metric plus the derived columns.
func (e *Exporter) WriteProcessedCSV(ctx context.Context, ds *dataprocessing.Dataset) error {
	path := e.paths.ProcessedCSVPath()

	base := ds.Metrics()
	headers := []string{"month", "month_label"}
	for _, metric := range base {
		headers = append(headers, string(metric))
	}
	for _, metric := range derivedColumns {
		headers = append(headers, string(metric))
	}

	records := make([][]string, 0, len(ds.Base))
	for _, row := range ds.Base {
		record := make([]string, 0, len(headers))
		record = append(record,
			row.Period.Date().Format("2006-01-02"),
			row.Period.Date().Format("Jan 06"),
		)
		for _, metric := range base {
			record = append(record, formatValue(row.Value(metric)))
		}
		for _, metric := range derivedColumns {
			record = append(record, formatDerived(row, metric))
		}
		records = append(records, record)
	}

	if err := writeCSVFile(path, headers, records); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "wrote processed CSV",
		slog.String("path", path),
		slog.Int("row_count", len(records)))
	return nil
}

// formatDerived renders one derived-metric cell. Quarter and year are whole
// numbers; the tier and month name are strings held in Labels.
func formatDerived(row dataprocessing.PeriodRow, metric domain.MetricKey) string {
	switch metric {
	case dataprocessing.MetricQuarter, dataprocessing.MetricYear:
		return formatIntValue(row.Value(metric))
	case dataprocessing.MetricMonthName, dataprocessing.MetricDaysPerformance:
		return row.Labels[metric]
	default:
		return formatValue(row.Value(metric))
	}
}

// WriteWideCSV writes the converted table in source orientation: one row per
// metric, one column per period. Unparsed period columns keep their raw
// headers.
func (e *Exporter) WriteWideCSV(ctx context.Context, table *dataprocessing.WideTable) error {
	path := e.paths.WideCSVPath()

	headers := []string{"Metric"}
	for _, period := range table.Periods {
		headers = append(headers, period.Label())
	}

	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make([]string, 0, len(headers))
		record = append(record, string(row.Metric))
		for _, period := range table.Periods {
			record = append(record, formatValue(table.Value(row.Metric, period.Key())))
		}
		records = append(records, record)
	}

	if err := writeCSVFile(path, headers, records); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "wrote wide CSV",
		slog.String("path", path),
		slog.Int("row_count", len(records)))
	return nil
}
