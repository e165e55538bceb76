package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"kpicli/internal/dataprocessing"
	"kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// dashboardPayload is the JSON document the dashboard front end consumes.
// Value series are aligned with the periods axis; missing cells are null.
type dashboardPayload struct {
	Metrics     []domain.MetricKey               `json:"metrics"`
	Periods     []string                         `json:"periods"`
	ValuesUSD   map[domain.MetricKey][]*float64  `json:"values_usd"`
	ValuesEUR   map[domain.MetricKey][]*float64  `json:"values_eur"`
	Summary     *domain.SummaryStats             `json:"summary"`
	LastUpdated string                           `json:"last_updated"`
}

// buildDashboardPayload assembles the dashboard document from a finished
// dataset. The period axis covers only parsed periods, in calendar order.
func buildDashboardPayload(ds *dataprocessing.Dataset, now time.Time) dashboardPayload {
	payload := dashboardPayload{
		Metrics:     ds.Metrics(),
		ValuesUSD:   make(map[domain.MetricKey][]*float64),
		ValuesEUR:   make(map[domain.MetricKey][]*float64),
		Summary:     ds.Summary,
		LastUpdated: now.UTC().Format(time.RFC3339),
	}

	periods := make([]domain.Period, 0, len(ds.Base))
	for _, row := range ds.Base {
		periods = append(periods, row.Period)
		payload.Periods = append(payload.Periods, row.Period.Label())
	}

	for _, metric := range payload.Metrics {
		payload.ValuesUSD[metric] = seriesPointers(ds.USD, metric, periods)
		payload.ValuesEUR[metric] = seriesPointers(ds.EUR, metric, periods)
	}

	return payload
}

// seriesPointers extracts one metric series aligned to the period axis;
// missing cells become nil so they serialize as null.
func seriesPointers(table *dataprocessing.WideTable, metric domain.MetricKey, periods []domain.Period) []*float64 {
	series := make([]*float64, len(periods))
	for i, period := range periods {
		if num, ok := table.Value(metric, period.Key()).Float(); ok {
			v := num
			series[i] = &v
		}
	}
	return series
}

// writeJSONFile marshals the payload with indentation and writes it
// atomically via a temp file rename.
func writeJSONFile(path string, payload interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to marshal JSON", err).
			WithContext("path", path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.NewStorageError("failed to write JSON file", err).
			WithContext("path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.NewStorageError("failed to finalize JSON file", err).
			WithContext("path", path)
	}
	return nil
}
