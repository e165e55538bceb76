package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

func rawGrid() domain.RawGrid {
	return domain.RawGrid{
		{"Metric", "1/31/2025", "2/28/2025", "Total"},
		{"GMV", "$1,000,000", "$1,100,000", "$2,100,000"},
		{"# Invoices", "120", "131", "251"},
		{"", "should", "be", "dropped"},
		{"Empty Metric", "", "n/a", ""},
	}
}

func TestProcessorClean(t *testing.T) {
	processor := NewProcessor(nil, ProcessorConfig{DefaultYear: 2025})

	table, err := processor.Clean(context.Background(), rawGrid())
	require.NoError(t, err)

	// one unparseable header is retained, not dropped
	require.Len(t, table.Periods, 3)
	assert.True(t, table.Periods[0].Parsed)
	assert.True(t, table.Periods[1].Parsed)
	assert.False(t, table.Periods[2].Parsed)
	assert.Equal(t, "Total", table.Periods[2].Raw)

	// empty-label and all-missing rows are dropped
	require.Len(t, table.Rows, 2)
	assert.Equal(t, domain.MetricGMV, table.Rows[0].Metric)
	assert.Equal(t, domain.MetricNumInvoices, table.Rows[1].Metric)

	assert.InDelta(t, 1000000, table.Value(domain.MetricGMV, "2025-01").Num, 1e-9)
	assert.InDelta(t, 1100000, table.Value(domain.MetricGMV, "2025-02").Num, 1e-9)
	assert.InDelta(t, 2100000, table.Value(domain.MetricGMV, "raw:Total").Num, 1e-9)
}

func TestProcessorCleanExcludesPeriods(t *testing.T) {
	processor := NewProcessor(nil, ProcessorConfig{
		DefaultYear:    2025,
		ExcludePeriods: []string{"jan-25", "Total"},
	})

	table, err := processor.Clean(context.Background(), rawGrid())
	require.NoError(t, err)

	require.Len(t, table.Periods, 1)
	assert.Equal(t, 2, table.Periods[0].Month)

	// exclusion must not shift cells: Feb keeps its own value
	assert.InDelta(t, 1100000, table.Value(domain.MetricGMV, "2025-02").Num, 1e-9)
	assert.True(t, table.Value(domain.MetricGMV, "2025-01").IsMissing())
}

func TestProcessorCleanRaggedRows(t *testing.T) {
	grid := domain.RawGrid{
		{"Metric", "1/31/2025", "2/28/2025"},
		{"GMV", "1000"},
	}

	table, err := NewProcessor(nil, ProcessorConfig{DefaultYear: 2025}).Clean(context.Background(), grid)
	require.NoError(t, err)

	assert.InDelta(t, 1000, table.Value(domain.MetricGMV, "2025-01").Num, 1e-9)
	assert.True(t, table.Value(domain.MetricGMV, "2025-02").IsMissing())
}

func TestProcessorCleanStructuralErrors(t *testing.T) {
	processor := NewProcessor(nil, ProcessorConfig{DefaultYear: 2025})
	ctx := context.Background()

	tests := []struct {
		name string
		grid domain.RawGrid
	}{
		{name: "nil grid", grid: nil},
		{name: "header only", grid: domain.RawGrid{{"Metric", "1/31/2025"}}},
		{name: "no period columns", grid: domain.RawGrid{{"Metric"}, {"GMV", "100"}}},
		{name: "no valid rows", grid: domain.RawGrid{
			{"Metric", "1/31/2025"},
			{"", "100"},
			{"GMV", "n/a"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := processor.Clean(ctx, tt.grid)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
		})
	}
}

func TestProcessorCleanKeepsOriginalLabels(t *testing.T) {
	grid := domain.RawGrid{
		{"Metric", "1/31/2025"},
		{"Some Brand New KPI", "42"},
	}

	table, err := NewProcessor(nil, ProcessorConfig{DefaultYear: 2025}).Clean(context.Background(), grid)
	require.NoError(t, err)

	row := table.FindRow("some_brand_new_kpi")
	require.NotNil(t, row)
	assert.Equal(t, "Some Brand New KPI", row.Label)
}
