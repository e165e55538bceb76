package domain

import (
	"fmt"
	"time"
)

// Period identifies one calendar month column of the source table.
// If header parsing failed, Parsed is false and the Period still carries its
// raw header so downstream code can report on it instead of crashing.
// Position is the original column index, used for ordering unparsed periods.
type Period struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Raw      string `json:"raw"`
	Parsed   bool   `json:"parsed"`
	Position int    `json:"position"`
}

// Date returns the first day of the period's month in UTC.
// Only meaningful when Parsed is true.
func (p Period) Date() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Label returns the short display label ("Jan-25"). Unparsed periods fall
// back to their raw header.
func (p Period) Label() string {
	if !p.Parsed {
		return p.Raw
	}
	return p.Date().Format("Jan-06")
}

// LongLabel returns the full display form ("January 2025") used in summary
// output. Unparsed periods fall back to their raw header.
func (p Period) LongLabel() string {
	if !p.Parsed {
		return p.Raw
	}
	return p.Date().Format("January 2006")
}

// Key returns a stable identifier for map keys and column joins.
// Parsed periods key on (year, month); unparsed ones on the raw header, so
// a parsed and an unparsed column can never collide.
func (p Period) Key() string {
	if !p.Parsed {
		return "raw:" + p.Raw
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Before reports whether p sorts ahead of o. Parsed periods order
// chronologically and always ahead of unparsed ones; unparsed periods keep
// their original column order.
func (p Period) Before(o Period) bool {
	if p.Parsed && o.Parsed {
		if p.Year != o.Year {
			return p.Year < o.Year
		}
		return p.Month < o.Month
	}
	if p.Parsed != o.Parsed {
		return p.Parsed
	}
	return p.Position < o.Position
}

// MonthsBetween returns the number of calendar months from p to o.
// Consecutive months return 1. Requires both periods to be parsed.
func (p Period) MonthsBetween(o Period) int {
	return (o.Year-p.Year)*12 + (o.Month - p.Month)
}
