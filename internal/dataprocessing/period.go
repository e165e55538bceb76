package dataprocessing

import (
	"strings"
	"time"

	"kpicli/pkg/contracts/domain"
)

// periodStrategy is one attempt at interpreting a column header as a
// calendar month. Strategies report success instead of failing, so the
// parser can walk the chain in a fixed declared order.
type periodStrategy func(header string, defaultYear int) (year int, month time.Month, ok bool)

// periodStrategies is the ordered fallback chain. The order mirrors how the
// source data evolved: explicit dates first, then bare month names completed
// with the configured default year, then two-digit-year variants, then a
// generic best-effort parse.
var periodStrategies = []periodStrategy{
	parseSlashDate("1/2/2006"),
	parseMonthName,
	parseMonthYearLabel,
	parseSlashDate("1/2/06"),
	parseGenericDate,
}

// PeriodParser converts raw column headers into Periods. It never fails:
// headers no strategy understands come back marked unparsed with the raw
// header retained for diagnostics.
type PeriodParser struct {
	defaultYear int
}

// NewPeriodParser creates a parser. defaultYear completes bare month-name
// headers; zero means the current year.
func NewPeriodParser(defaultYear int) *PeriodParser {
	if defaultYear == 0 {
		defaultYear = time.Now().Year()
	}
	return &PeriodParser{defaultYear: defaultYear}
}

// Parse interprets a single column header. position is the header's original
// column index, which orders unparsed periods in the output.
func (p *PeriodParser) Parse(header string, position int) domain.Period {
	trimmed := strings.TrimSpace(header)

	for _, strategy := range periodStrategies {
		if year, month, ok := strategy(trimmed, p.defaultYear); ok {
			return domain.Period{
				Year:     year,
				Month:    int(month),
				Raw:      header,
				Parsed:   true,
				Position: position,
			}
		}
	}

	return domain.Period{Raw: header, Parsed: false, Position: position}
}

// ParseAll parses every header in column order.
func (p *PeriodParser) ParseAll(headers []string) []domain.Period {
	periods := make([]domain.Period, len(headers))
	for i, header := range headers {
		periods[i] = p.Parse(header, i)
	}
	return periods
}

// parseSlashDate builds a strategy for an explicit date layout such as
// "1/2/2006" or "1/2/06". Two-digit years land in the 2000s, which Go's
// reference layout already guarantees for the dataset's era.
func parseSlashDate(layout string) periodStrategy {
	return func(header string, _ int) (int, time.Month, bool) {
		t, err := time.Parse(layout, header)
		if err != nil {
			return 0, 0, false
		}
		return t.Year(), t.Month(), true
	}
}

// parseMonthName handles "January" (default year) and "January 2025".
func parseMonthName(header string, defaultYear int) (int, time.Month, bool) {
	if t, err := time.Parse("January 2006", header); err == nil {
		return t.Year(), t.Month(), true
	}
	if t, err := time.Parse("January", header); err == nil {
		return defaultYear, t.Month(), true
	}
	return 0, 0, false
}

// parseMonthYearLabel handles the short display form "Jan-25".
func parseMonthYearLabel(header string, _ int) (int, time.Month, bool) {
	t, err := time.Parse("Jan-06", header)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

// parseGenericDate is the last-resort strategy for ISO-style values that
// spreadsheet exports sometimes produce ("2025-01-01", "2025-01-01 00:00:00").
func parseGenericDate(header string, _ int) (int, time.Month, bool) {
	layouts := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
		"Jan 2006",
		"Jan 06",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, header); err == nil {
			return t.Year(), t.Month(), true
		}
	}
	return 0, 0, false
}
