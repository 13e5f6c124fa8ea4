package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Translate converts a flat filter request into a single predicate.
//
// Blank values are dropped before classification. Remaining keys must belong
// to the recognized field set; every field contributes one conjunct. With no
// usable filters the result is MatchAll.
func Translate(values map[string]string) (Predicate, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	terms := make([]Predicate, 0, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(values[key])
		if value == "" {
			continue
		}

		kind, err := Classify(key)
		if err != nil {
			return nil, err
		}

		switch kind {
		case KindPartialText:
			terms = append(terms, Partial{Field: key, Value: value})
		case KindExact:
			terms = append(terms, Exact{Field: key, Value: value})
		case KindNumericRangeOrText:
			if p := ParseBudget(value); p != nil {
				terms = append(terms, p)
			}
		default:
			return nil, fmt.Errorf("%w: %s for field %q", ErrUnsupportedKind, kind, key)
		}
	}

	if len(terms) == 0 {
		return MatchAll(), nil
	}
	return And{Terms: terms}, nil
}
