package dataprocessing

import (
	"kpicli/pkg/contracts/domain"
)

// Dataset is the final artifact of one pipeline run: the cleaned table in
// the source currency, its converted counterpart, the enriched per-period
// base rows and the summary statistics. It is created once per run and not
// mutated afterwards.
type Dataset struct {
	USD *WideTable
	EUR *WideTable

	// Base holds the enriched per-period rows (source currency), sorted
	// ascending by calendar date.
	Base []PeriodRow

	Summary    *domain.SummaryStats
	Continuity ContinuityReport
}

// Periods returns the shared period axis in source column order.
func (d *Dataset) Periods() []domain.Period {
	if d.USD == nil {
		return nil
	}
	return d.USD.Periods
}

// Metrics returns the shared metric list in source row order.
func (d *Dataset) Metrics() []domain.MetricKey {
	if d.USD == nil {
		return nil
	}
	return d.USD.Metrics()
}
