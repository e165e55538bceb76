package exporter

import (
	"strconv"

	"kpicli/pkg/contracts/domain"
)

// formatValue renders a cell for CSV output. Missing is an empty cell, not
// zero. Present values use the shortest round-trip representation.
func formatValue(v domain.Value) string {
	num, ok := v.Float()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(num, 'f', -1, 64)
}

// formatIntValue renders a whole-number cell (quarter, year) without a
// decimal point; missing is an empty cell.
func formatIntValue(v domain.Value) string {
	num, ok := v.Float()
	if !ok {
		return ""
	}
	return strconv.FormatInt(int64(num), 10)
}
