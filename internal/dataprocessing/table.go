package dataprocessing

import (
	"sort"

	"kpicli/pkg/contracts/domain"
)

// Row is one metric row of a wide table. Cells are keyed by Period.Key().
// Label keeps the original pre-standardization metric label.
type Row struct {
	Metric domain.MetricKey
	Label  string
	Cells  map[string]domain.Value
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	cells := make(map[string]domain.Value, len(r.Cells))
	for k, v := range r.Cells {
		cells[k] = v
	}
	return Row{Metric: r.Metric, Label: r.Label, Cells: cells}
}

// WideTable holds the dataset in source orientation: one row per metric, one
// column per period. Row and period order are preserved from construction.
type WideTable struct {
	Rows    []Row
	Periods []domain.Period
}

// NewWideTable creates an empty wide table over the given period columns.
func NewWideTable(periods []domain.Period) *WideTable {
	return &WideTable{Periods: periods}
}

// AddRow appends a metric row. An existing row with the same metric key is
// replaced in place, keeping its original position.
func (w *WideTable) AddRow(row Row) {
	if row.Cells == nil {
		row.Cells = make(map[string]domain.Value)
	}
	for i := range w.Rows {
		if w.Rows[i].Metric == row.Metric {
			w.Rows[i] = row
			return
		}
	}
	w.Rows = append(w.Rows, row)
}

// FindRow returns the row for a metric key, or nil.
func (w *WideTable) FindRow(metric domain.MetricKey) *Row {
	for i := range w.Rows {
		if w.Rows[i].Metric == metric {
			return &w.Rows[i]
		}
	}
	return nil
}

// Value returns the cell for (metric, period key); missing when the row or
// cell is absent.
func (w *WideTable) Value(metric domain.MetricKey, periodKey string) domain.Value {
	row := w.FindRow(metric)
	if row == nil {
		return domain.Missing()
	}
	if v, ok := row.Cells[periodKey]; ok {
		return v
	}
	return domain.Missing()
}

// SetValue sets the cell for an existing metric row. Rows are created by
// AddRow; setting a value on an unknown metric is a no-op.
func (w *WideTable) SetValue(metric domain.MetricKey, periodKey string, v domain.Value) {
	if row := w.FindRow(metric); row != nil {
		row.Cells[periodKey] = v
	}
}

// Metrics returns the metric keys in row order.
func (w *WideTable) Metrics() []domain.MetricKey {
	keys := make([]domain.MetricKey, len(w.Rows))
	for i, row := range w.Rows {
		keys[i] = row.Metric
	}
	return keys
}

// Clone returns a deep copy of the table. The converter uses this so the
// source-currency table survives conversion untouched.
func (w *WideTable) Clone() *WideTable {
	periods := make([]domain.Period, len(w.Periods))
	copy(periods, w.Periods)

	clone := &WideTable{Periods: periods}
	for _, row := range w.Rows {
		clone.Rows = append(clone.Rows, row.Clone())
	}
	return clone
}

// Equal compares two tables structurally: same metric set, same period set,
// same cell values. Row and column order do not participate, since the
// reshaper normalizes ordering.
func (w *WideTable) Equal(o *WideTable) bool {
	if len(w.Rows) != len(o.Rows) || len(w.Periods) != len(o.Periods) {
		return false
	}

	theirPeriods := make(map[string]bool, len(o.Periods))
	for _, p := range o.Periods {
		theirPeriods[p.Key()] = true
	}
	for _, p := range w.Periods {
		if !theirPeriods[p.Key()] {
			return false
		}
	}

	declared := make(map[string]bool, len(w.Periods))
	for _, p := range w.Periods {
		declared[p.Key()] = true
	}

	for _, row := range w.Rows {
		other := o.FindRow(row.Metric)
		if other == nil {
			return false
		}
		for _, p := range w.Periods {
			if !w.Value(row.Metric, p.Key()).Equal(o.Value(row.Metric, p.Key())) {
				return false
			}
		}
		// Non-missing cells outside the declared period set still count.
		for key, v := range row.Cells {
			if !declared[key] && !v.IsMissing() {
				return false
			}
		}
		for key, v := range other.Cells {
			if !declared[key] && !v.IsMissing() {
				return false
			}
		}
	}

	return true
}

// ToLong converts a wide table to long format. Missing cells are skipped
// rather than represented as explicit nulls. Output order is chronological
// by period then alphabetical by metric; if no period parsed at all, the
// original column order is kept. Unparsed periods among parsed ones sort
// after them by original column position.
func ToLong(w *WideTable) []domain.LongRecord {
	var records []domain.LongRecord

	for _, row := range w.Rows {
		for _, period := range w.Periods {
			v, ok := row.Cells[period.Key()]
			if !ok || v.IsMissing() {
				continue
			}
			records = append(records, domain.LongRecord{
				Period:        period,
				Metric:        row.Metric,
				OriginalLabel: row.Label,
				Value:         v,
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := records[i].Period, records[j].Period
		if pi.Key() != pj.Key() {
			return pi.Before(pj)
		}
		return records[i].Metric < records[j].Metric
	})

	return records
}

// ToWide pivots long records back to wide format: metrics become rows,
// periods become columns. When two records share the same (metric, period)
// pair, the later one in input order wins. Row and column order follow first
// appearance in the input, which for ToLong output means alphabetical
// metrics and chronological periods, so ToWide(ToLong(w)) reproduces w for
// any table with unique keys.
func ToWide(records []domain.LongRecord) *WideTable {
	w := &WideTable{}
	seenPeriods := make(map[string]bool)

	for _, rec := range records {
		key := rec.Period.Key()
		if !seenPeriods[key] {
			seenPeriods[key] = true
			w.Periods = append(w.Periods, rec.Period)
		}

		row := w.FindRow(rec.Metric)
		if row == nil {
			w.Rows = append(w.Rows, Row{
				Metric: rec.Metric,
				Label:  rec.OriginalLabel,
				Cells:  make(map[string]domain.Value),
			})
			row = &w.Rows[len(w.Rows)-1]
		}
		// Last write wins on duplicate (metric, period) pairs.
		row.Cells[key] = rec.Value
	}

	return w
}
