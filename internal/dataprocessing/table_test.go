package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpicli/pkg/contracts/domain"
)

func parsedPeriod(year, month, position int) domain.Period {
	return domain.Period{Year: year, Month: month, Parsed: true, Position: position}
}

func buildTable(t *testing.T) *WideTable {
	t.Helper()
	jan := parsedPeriod(2025, 1, 0)
	feb := parsedPeriod(2025, 2, 1)

	table := NewWideTable([]domain.Period{jan, feb})
	table.AddRow(Row{
		Metric: domain.MetricGMV,
		Label:  "GMV",
		Cells: map[string]domain.Value{
			jan.Key(): domain.Num(1000),
			feb.Key(): domain.Num(1100),
		},
	})
	table.AddRow(Row{
		Metric: domain.MetricNumInvoices,
		Label:  "# Invoices",
		Cells: map[string]domain.Value{
			jan.Key(): domain.Num(12),
		},
	})
	return table
}

func TestWideTableAddRowReplacesInPlace(t *testing.T) {
	table := buildTable(t)
	require.Len(t, table.Rows, 2)

	table.AddRow(Row{
		Metric: domain.MetricGMV,
		Label:  "GMV",
		Cells:  map[string]domain.Value{"2025-01": domain.Num(999)},
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, domain.MetricGMV, table.Rows[0].Metric)
	assert.InDelta(t, 999, table.Value(domain.MetricGMV, "2025-01").Num, 1e-9)
}

func TestWideTableValueMissing(t *testing.T) {
	table := buildTable(t)

	assert.True(t, table.Value("unknown_metric", "2025-01").IsMissing())
	assert.True(t, table.Value(domain.MetricNumInvoices, "2025-02").IsMissing())
}

func TestWideTableCloneIsDeep(t *testing.T) {
	table := buildTable(t)
	clone := table.Clone()

	clone.SetValue(domain.MetricGMV, "2025-01", domain.Num(1))

	assert.InDelta(t, 1000, table.Value(domain.MetricGMV, "2025-01").Num, 1e-9)
	assert.InDelta(t, 1, clone.Value(domain.MetricGMV, "2025-01").Num, 1e-9)
}

func TestToLongSkipsMissingAndSorts(t *testing.T) {
	table := buildTable(t)
	records := ToLong(table)

	// 3 present cells, missing Feb invoices skipped
	require.Len(t, records, 3)

	// chronological by period, then alphabetical by metric
	assert.Equal(t, domain.MetricGMV, records[0].Metric)
	assert.Equal(t, domain.MetricNumInvoices, records[1].Metric)
	assert.Equal(t, 1, records[0].Period.Month)
	assert.Equal(t, 2, records[2].Period.Month)
	assert.Equal(t, "GMV", records[0].OriginalLabel)
}

func TestRoundTripWideToLongToWide(t *testing.T) {
	table := buildTable(t)

	back := ToWide(ToLong(table))
	assert.True(t, table.Equal(back), "round-trip changed the table")
}

func TestRoundTripWithUnparsedPeriods(t *testing.T) {
	jan := parsedPeriod(2025, 1, 0)
	raw := domain.Period{Raw: "Total", Parsed: false, Position: 1}

	table := NewWideTable([]domain.Period{jan, raw})
	table.AddRow(Row{
		Metric: domain.MetricGMV,
		Label:  "GMV",
		Cells: map[string]domain.Value{
			jan.Key(): domain.Num(500),
			raw.Key(): domain.Num(9999),
		},
	})

	back := ToWide(ToLong(table))
	assert.True(t, table.Equal(back))
}

func TestToWideLastWriteWins(t *testing.T) {
	jan := parsedPeriod(2025, 1, 0)

	records := []domain.LongRecord{
		{Period: jan, Metric: domain.MetricGMV, Value: domain.Num(100)},
		{Period: jan, Metric: domain.MetricGMV, Value: domain.Num(200)},
	}

	table := ToWide(records)
	require.Len(t, table.Rows, 1)
	assert.InDelta(t, 200, table.Value(domain.MetricGMV, jan.Key()).Num, 1e-9)
}

func TestWideTableEqualDetectsDifferences(t *testing.T) {
	a := buildTable(t)

	b := buildTable(t)
	assert.True(t, a.Equal(b))

	b.SetValue(domain.MetricGMV, "2025-01", domain.Num(1001))
	assert.False(t, a.Equal(b))

	c := buildTable(t)
	c.Rows = c.Rows[:1]
	assert.False(t, a.Equal(c))
}
