package domain

// RawGrid is a tabular dataset exactly as read from the source: a header row
// (label-column title plus one period header per column) followed by one row
// per metric, first cell the metric label. Cells are opaque strings; the
// value normalizer owns their interpretation.
type RawGrid [][]string

// Empty reports whether the grid has no data rows.
func (g RawGrid) Empty() bool {
	return len(g) < 2
}

// Header returns the header row, or nil for an empty grid.
func (g RawGrid) Header() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}
