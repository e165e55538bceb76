package dataprocessing

import (
	"context"
	"log/slog"

	"kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// Summarizer computes the aggregate statistics over the final enriched base
// table. Rows without a GMV value do not count as data points, matching the
// dashboard's definition of a reporting month.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize computes totals, averages and the covered period range over the
// enriched rows. Rows must already be in ascending period order.
func (s *Summarizer) Summarize(ctx context.Context, rows []PeriodRow) (*domain.SummaryStats, error) {
	valid := make([]PeriodRow, 0, len(rows))
	for _, row := range rows {
		if !row.Value(domain.MetricGMV).IsMissing() {
			valid = append(valid, row)
		}
	}

	if len(valid) == 0 {
		return nil, errors.NewParsingError("no valid data to summarize", nil)
	}

	stats := &domain.SummaryStats{
		TotalGMV:      sumSeries(valid, domain.MetricGMV),
		TotalFunded:   sumSeries(valid, domain.MetricFundedAmount),
		TotalInvoices: int64(sumSeries(valid, domain.MetricNumInvoices)),
		TotalBoxes:    int64(sumSeries(valid, domain.MetricNumBoxes)),
		Period: domain.SummaryPeriod{
			Start: valid[0].Period.LongLabel(),
			End:   valid[len(valid)-1].Period.LongLabel(),
		},
		DataPoints: len(valid),
	}
	stats.AvgDaysOutstanding = meanSeries(valid, domain.MetricAvgDaysOutstanding)
	stats.AvgCashDrag = meanSeries(valid, domain.MetricCashDrag)

	s.logger.InfoContext(ctx, "generated summary statistics",
		slog.Float64("total_gmv", stats.TotalGMV),
		slog.Float64("total_funded", stats.TotalFunded),
		slog.Int("data_points", stats.DataPoints),
		slog.String("period_start", stats.Period.Start),
		slog.String("period_end", stats.Period.End))

	return stats, nil
}

// sumSeries totals the present values of one metric.
func sumSeries(rows []PeriodRow, metric domain.MetricKey) float64 {
	total := 0.0
	for _, row := range rows {
		if v, ok := row.Value(metric).Float(); ok {
			total += v
		}
	}
	return total
}

// meanSeries averages the present values of one metric; nil when the series
// is entirely missing.
func meanSeries(rows []PeriodRow, metric domain.MetricKey) *float64 {
	total := 0.0
	count := 0
	for _, row := range rows {
		if v, ok := row.Value(metric).Float(); ok {
			total += v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mean := total / float64(count)
	return &mean
}
