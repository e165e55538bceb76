package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"kpicli/pkg/contracts/domain"
)

// Derived metric keys added by the calculator.
const (
	MetricBoxesPerInvoice  domain.MetricKey = "boxes_per_invoice"
	MetricGMVMoMGrowth     domain.MetricKey = "gmv_mom_growth"
	MetricFundedMoMGrowth  domain.MetricKey = "funded_mom_growth"
	MetricGMVMA3           domain.MetricKey = "gmv_ma3"
	MetricFundedMA3        domain.MetricKey = "funded_ma3"
	MetricCumulativeGMV    domain.MetricKey = "cumulative_gmv"
	MetricCumulativeFunded domain.MetricKey = "cumulative_funded"
	MetricQuarter          domain.MetricKey = "quarter"
	MetricYear             domain.MetricKey = "year"
	MetricDaysPerformance  domain.MetricKey = "days_performance"
	MetricMonthName        domain.MetricKey = "month_name"
)

// Days-outstanding performance tiers.
const (
	TierExcellent        = "Excellent"
	TierGood             = "Good"
	TierNeedsImprovement = "Needs Improvement"
)

// movingAverageWindow is the trailing window for the MA3 series; the first
// periods use partial windows rather than being missing.
const (
	movingAverageWindow     = 3
	movingAverageMinPeriods = 1
)

// PeriodRow is one period of the pivoted base table: one row per period, one
// entry per metric. String-valued derived fields (performance tier, month
// name) live in Labels.
type PeriodRow struct {
	Period domain.Period
	Values map[domain.MetricKey]domain.Value
	Labels map[domain.MetricKey]string
}

// Value returns a metric value for the row; missing when absent.
func (r PeriodRow) Value(metric domain.MetricKey) domain.Value {
	if v, ok := r.Values[metric]; ok {
		return v
	}
	return domain.Missing()
}

// Calculator computes derived KPIs over the cleaned, time-ordered base
// table. All series operations assume rows sorted ascending by calendar
// date, which PeriodRows guarantees.
type Calculator struct {
	logger *slog.Logger
}

// NewCalculator creates a calculator.
func NewCalculator(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger}
}

// PeriodRows pivots a wide table into per-period rows sorted ascending by
// calendar date. Unparsed periods are left out: derived metrics need a real
// time axis, and the continuity checker reports on unparsed headers
// separately.
func (c *Calculator) PeriodRows(table *WideTable) []PeriodRow {
	var rows []PeriodRow
	for _, period := range table.Periods {
		if !period.Parsed {
			continue
		}
		row := PeriodRow{
			Period: period,
			Values: make(map[domain.MetricKey]domain.Value),
			Labels: make(map[domain.MetricKey]string),
		}
		for _, tableRow := range table.Rows {
			row.Values[tableRow.Metric] = table.Value(tableRow.Metric, period.Key())
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Period.Before(rows[j].Period)
	})

	return rows
}

// Enrich adds the derived metrics to each row in place and returns the rows.
func (c *Calculator) Enrich(ctx context.Context, rows []PeriodRow) []PeriodRow {
	if len(rows) == 0 {
		return rows
	}

	gmv := seriesOf(rows, domain.MetricGMV)
	funded := seriesOf(rows, domain.MetricFundedAmount)

	gmvGrowth := momGrowth(gmv)
	fundedGrowth := momGrowth(funded)
	gmvMA := movingAverage(gmv, movingAverageWindow, movingAverageMinPeriods)
	fundedMA := movingAverage(funded, movingAverageWindow, movingAverageMinPeriods)
	gmvCum := cumulativeSum(gmv)
	fundedCum := cumulativeSum(funded)

	for i := range rows {
		row := &rows[i]

		row.Values[MetricBoxesPerInvoice] = ratio(
			row.Value(domain.MetricNumBoxes),
			row.Value(domain.MetricNumInvoices),
		)
		row.Values[MetricGMVMoMGrowth] = gmvGrowth[i]
		row.Values[MetricFundedMoMGrowth] = fundedGrowth[i]
		row.Values[MetricGMVMA3] = gmvMA[i]
		row.Values[MetricFundedMA3] = fundedMA[i]
		row.Values[MetricCumulativeGMV] = gmvCum[i]
		row.Values[MetricCumulativeFunded] = fundedCum[i]

		if tier, ok := daysPerformanceTier(row.Value(domain.MetricAvgDaysOutstanding)); ok {
			row.Labels[MetricDaysPerformance] = tier
		}

		date := row.Period.Date()
		row.Values[MetricQuarter] = domain.Num(float64((int(date.Month())-1)/3 + 1))
		row.Values[MetricYear] = domain.Num(float64(date.Year()))
		row.Labels[MetricMonthName] = date.Format("January")
	}

	c.logger.InfoContext(ctx, "calculated derived metrics",
		slog.Int("period_count", len(rows)))

	return rows
}

// seriesOf extracts one metric as an ordered series.
func seriesOf(rows []PeriodRow, metric domain.MetricKey) []domain.Value {
	series := make([]domain.Value, len(rows))
	for i, row := range rows {
		series[i] = row.Value(metric)
	}
	return series
}

// ratio divides a by b rounded to 2 decimal places. Division by zero or a
// missing operand yields missing, never infinity.
func ratio(a, b domain.Value) domain.Value {
	if a.IsMissing() || b.IsMissing() || b.Num == 0 {
		return domain.Missing()
	}
	return domain.Num(math.Round(a.Num/b.Num*100) / 100)
}

// momGrowth computes month-over-month percentage growth. The first period
// has no prior value and is missing, as is any period where either operand
// is missing or the prior value is zero.
func momGrowth(series []domain.Value) []domain.Value {
	out := make([]domain.Value, len(series))
	for i := range series {
		if i == 0 {
			out[i] = domain.Missing()
			continue
		}
		cur, prev := series[i], series[i-1]
		if cur.IsMissing() || prev.IsMissing() || prev.Num == 0 {
			out[i] = domain.Missing()
			continue
		}
		out[i] = domain.Num((cur.Num - prev.Num) / prev.Num * 100)
	}
	return out
}

// movingAverage computes a trailing moving average. Windows shorter than
// minPeriods of present values yield missing; otherwise the mean of the
// present values in the window.
func movingAverage(series []domain.Value, window, minPeriods int) []domain.Value {
	out := make([]domain.Value, len(series))
	for i := range series {
		start := i - window + 1
		if start < 0 {
			start = 0
		}

		sum := 0.0
		count := 0
		for j := start; j <= i; j++ {
			if v, ok := series[j].Float(); ok {
				sum += v
				count++
			}
		}

		if count < minPeriods {
			out[i] = domain.Missing()
			continue
		}
		out[i] = domain.Num(sum / float64(count))
	}
	return out
}

// cumulativeSum computes the running total in period order. Missing inputs
// contribute zero but do not reset the total.
func cumulativeSum(series []domain.Value) []domain.Value {
	out := make([]domain.Value, len(series))
	total := 0.0
	for i, v := range series {
		if num, ok := v.Float(); ok {
			total += num
		}
		out[i] = domain.Num(total)
	}
	return out
}

// daysPerformanceTier buckets avg days outstanding into a performance tier.
// Missing input has no tier, never a default one.
func daysPerformanceTier(v domain.Value) (string, bool) {
	days, ok := v.Float()
	if !ok {
		return "", false
	}
	switch {
	case days <= 20:
		return TierExcellent, true
	case days <= 25:
		return TierGood, true
	default:
		return TierNeedsImprovement, true
	}
}
