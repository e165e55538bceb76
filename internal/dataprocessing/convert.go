package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"kpicli/pkg/contracts/domain"
)

// rateRowKeywords select the exchange-rate row. The first table row whose
// original label contains any of these (case-insensitive) is the rate series.
var rateRowKeywords = []string{"exch", "rate", "eur", "usd"}

// currencyMetrics is the allow-list of amount-valued metrics subject to
// conversion. Counts, percentages, day counts and the rate series itself
// pass through unconverted.
var currencyMetrics = map[domain.MetricKey]bool{
	domain.MetricGMV:                     true,
	domain.MetricFundedAmount:            true,
	domain.MetricAccruedInterests:        true,
	domain.MetricArrangementFees:         true,
	domain.MetricAvgPortfolioOutstanding: true,
	domain.MetricCargoInsuranceCosts:     true,
	domain.MetricCargoInsuranceFees:      true,
	domain.MetricCashDrag:                true,
	domain.MetricCostOfFundsAccrued:      true,
	domain.MetricCostsDocsDelivery:       true,
	domain.MetricDocsManagementFees:      true,
	domain.MetricHandlingWarehouseCosts:  true,
	domain.MetricHandlingWarehouseFees:   true,
	domain.MetricLogisticCosts:           true,
	domain.MetricLogisticFees:            true,
}

// RateSeries is the per-period exchange-rate mapping extracted from the
// designated rate row of the source table.
type RateSeries struct {
	Metric domain.MetricKey
	Label  string
	Rates  map[string]domain.Value
}

// RateFor returns the rate in force for a period key.
func (r *RateSeries) RateFor(periodKey string) domain.Value {
	if v, ok := r.Rates[periodKey]; ok {
		return v
	}
	return domain.Missing()
}

// Converter applies the USD→EUR conversion to a wide table using the rate
// series embedded in the table itself.
type Converter struct {
	logger *slog.Logger
}

// NewConverter creates a converter.
func NewConverter(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{logger: logger}
}

// FindRateSeries scans rows top to bottom and returns the first whose
// original label matches a rate keyword. The boolean reports whether a rate
// row exists at all.
func (c *Converter) FindRateSeries(table *WideTable) (*RateSeries, bool) {
	for _, row := range table.Rows {
		label := strings.ToLower(row.Label)
		if label == "" {
			label = strings.ToLower(string(row.Metric))
		}
		for _, keyword := range rateRowKeywords {
			if strings.Contains(label, keyword) {
				rates := make(map[string]domain.Value, len(row.Cells))
				for k, v := range row.Cells {
					rates[k] = v
				}
				return &RateSeries{Metric: row.Metric, Label: row.Label, Rates: rates}, true
			}
		}
	}
	return nil, false
}

// Convert produces the EUR table: every allow-listed metric value is
// multiplied by that period's rate, exactly once. A missing value or a
// missing/zero rate leaves the cell missing; conversion is never applied
// with a degenerate multiplier. Metrics outside the allow-list pass through
// unchanged. Without a rate row, conversion degrades to an identity copy;
// that is a warning condition, not an error.
func (c *Converter) Convert(ctx context.Context, table *WideTable) *WideTable {
	converted := table.Clone()

	rates, found := c.FindRateSeries(table)
	if !found {
		c.logger.WarnContext(ctx, "no exchange rate row found, skipping currency conversion")
		return converted
	}

	c.logger.InfoContext(ctx, "found exchange rate row",
		slog.String("label", rates.Label),
		slog.String("metric", string(rates.Metric)))

	convertedMetrics := 0
	for i := range converted.Rows {
		row := &converted.Rows[i]
		if !currencyMetrics[row.Metric] || row.Metric == rates.Metric {
			continue
		}
		convertedMetrics++

		for _, period := range converted.Periods {
			key := period.Key()
			amount, ok := row.Cells[key]
			if !ok || amount.IsMissing() {
				continue
			}
			rate := rates.RateFor(key)
			if rate.IsMissing() || rate.Num == 0 {
				// No usable multiplier: the converted cell stays missing.
				delete(row.Cells, key)
				continue
			}
			row.Cells[key] = domain.Num(amount.Num * rate.Num)
		}
	}

	c.logger.InfoContext(ctx, "converted currency metrics",
		slog.Int("metric_count", convertedMetrics),
		slog.Int("period_count", len(converted.Periods)))

	return converted
}

// IsCurrencyMetric reports whether a metric is on the conversion allow-list.
func IsCurrencyMetric(metric domain.MetricKey) bool {
	return currencyMetrics[metric]
}
