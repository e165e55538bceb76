// Package dataprocessing implements the KPI transformation pipeline core:
// cell normalization, metric name standardization, period header parsing,
// wide/long reshaping, USD→EUR currency conversion, derived metric
// calculation and summary statistics.
//
// # Data Flow
//
// The typical flow through this package:
//
//	RawGrid → Processor → WideTable (USD) → Converter → WideTable (EUR)
//	                         │
//	                         └→ PeriodRows → Calculator → enriched rows → Summarizer
//
// # Missing values
//
// Every cell resolves to a domain.Value, which is either a number or an
// explicit missing marker. Normalization is total: malformed cells become
// missing, never errors and never NaN. The same policy applies downstream:
// a derived metric with a missing operand is missing, and currency
// conversion with a missing or zero rate leaves the cell missing.
//
// # Testing
//
// The package uses table-driven tests throughout. Use them when adding new
// functionality.
package dataprocessing
