package dataprocessing

import (
	"sort"

	"kpicli/pkg/contracts/domain"
)

// PeriodGap is one hole in the month sequence: the parsed periods on either
// side and how many calendar months are absent between them.
type PeriodGap struct {
	After         domain.Period
	Before        domain.Period
	MissingMonths int
}

// ContinuityReport describes how complete the period axis is. Unparsed
// headers cannot take part in gap detection and are listed separately.
type ContinuityReport struct {
	Gaps          []PeriodGap
	UnparsedCount int
	ParsedCount   int
}

// Consecutive reports whether the parsed periods form an unbroken monthly
// sequence.
func (r ContinuityReport) Consecutive() bool {
	return len(r.Gaps) == 0
}

// CheckContinuity scans the period axis for month gaps. Periods are examined
// in chronological order regardless of input order; duplicate months count
// once.
func CheckContinuity(periods []domain.Period) ContinuityReport {
	var report ContinuityReport

	var parsed []domain.Period
	seen := make(map[string]bool)
	for _, p := range periods {
		if !p.Parsed {
			report.UnparsedCount++
			continue
		}
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		parsed = append(parsed, p)
	}
	report.ParsedCount = len(parsed)

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].Before(parsed[j])
	})

	for i := 1; i < len(parsed); i++ {
		months := parsed[i-1].MonthsBetween(parsed[i])
		if months > 1 {
			report.Gaps = append(report.Gaps, PeriodGap{
				After:         parsed[i-1],
				Before:        parsed[i],
				MissingMonths: months - 1,
			})
		}
	}

	return report
}
