package filter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var amountPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// ParseBudget turns a raw budget filter value into a constraint on
// budgetNumeric and/or the budget text. It returns nil for blank input and
// never fails: unparseable numbers degrade to a text match.
func ParseBudget(raw string) Predicate {
	expr := strings.TrimSpace(raw)
	if expr == "" {
		return nil
	}

	if low, high, found := strings.Cut(expr, "-"); found {
		lo, okLo := parseAmount(low)
		hi, okHi := parseAmount(high)
		if okLo && okHi {
			return Range{Field: FieldBudgetNumeric, Min: lo, Max: hi}
		}
		return Partial{Field: FieldBudget, Value: expr}
	}

	n, ok := parseAmount(expr)
	if !ok {
		return Partial{Field: FieldBudget, Value: expr}
	}
	return Or{Terms: []Predicate{
		Equal{Field: FieldBudgetNumeric, Value: n},
		Partial{Field: FieldBudget, Value: expr},
	}}
}

// parseAmount strips grouping commas and parses a plain decimal number.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if !amountPattern.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Written currency prefixes, matched case-insensitively. Longest first.
var currencyWords = []string{"inr", "rs.", "rs"}

func trimCurrencyWord(s string) string {
	for _, w := range currencyWords {
		if len(s) >= len(w) && strings.EqualFold(s[:len(w)], w) {
			return s[len(w):]
		}
	}
	return s
}

// NumericBudget derives budgetNumeric from a stored budget display string.
// Currency symbols, a leading Rs/Rs./INR, grouping commas and whitespace are
// ignored. It returns nil when no number can be read, so the stored value is
// left absent.
func NumericBudget(display string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, display)
	cleaned = trimCurrencyWord(cleaned)
	if cleaned == "" {
		return nil
	}
	n, ok := parseAmount(cleaned)
	if !ok {
		return nil
	}
	return &n
}
