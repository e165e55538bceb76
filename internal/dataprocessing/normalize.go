package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"kpicli/pkg/contracts/domain"
)

// NormalizeCell parses one raw cell into a value or an explicit missing
// marker. The function is total: every input maps to exactly one result and
// it never fails. It handles currency symbols, thousands separators,
// parenthesized negatives and trailing percentages, in that order:
//
//	""          → missing
//	"$1,234.50" → 1234.50
//	"(1,234)"   → -1234
//	"18%"       → 0.18
//	"n/a"       → missing
//
// Normalizing the textual form of an already-normalized number returns the
// same number, so the function is idempotent.
func NormalizeCell(raw string) domain.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Missing()
	}

	// Strip currency symbols, thousands separators and interior spaces.
	replacer := strings.NewReplacer("$", "", "€", "", ",", "", " ", "", " ", "")
	s = replacer.Replace(s)
	if s == "" {
		return domain.Missing()
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	percent := false
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSuffix(s, "%")
	}

	num, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		// ParseFloat accepts "NaN" and "Inf" spellings; those are not data.
		return domain.Missing()
	}

	if percent {
		num /= 100
	}
	if negative {
		num = -num
	}

	return domain.Num(num)
}
