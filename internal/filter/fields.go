package filter

import (
	"errors"
	"fmt"
	"sort"
)

// Filterable profile fields, named as they appear in the listing query string.
const (
	FieldName          = "name"
	FieldGender        = "gender"
	FieldMaritalStatus = "maritalStatus"
	FieldReligion      = "religion"
	FieldGotra         = "gotra"
	FieldArea          = "area"
	FieldState         = "state"
	FieldHeight        = "height"
	FieldComplexion    = "complexion"
	FieldNativePlace   = "nativePlace"
	FieldBudget        = "budget"
	FieldBudgetNumeric = "budgetNumeric"
	FieldStatus        = "status"
	FieldSource        = "source"
	FieldCreatedBy     = "createdBy"
)

// Kind tells the translator how a filter value is turned into a constraint.
type Kind int

const (
	KindExact Kind = iota + 1
	KindPartialText
	KindNumericRangeOrText
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindPartialText:
		return "partial_text"
	case KindNumericRangeOrText:
		return "numeric_range_or_text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrUnknownField is returned for filter keys outside the recognized set.
	ErrUnknownField = errors.New("unknown filter field")
	// ErrUnsupportedKind signals a classified field the translator has no rule for.
	ErrUnsupportedKind = errors.New("unsupported filter kind")
)

var fieldKinds = map[string]Kind{
	FieldName:          KindPartialText,
	FieldGender:        KindPartialText,
	FieldMaritalStatus: KindPartialText,
	FieldReligion:      KindPartialText,
	FieldGotra:         KindPartialText,
	FieldArea:          KindPartialText,
	FieldState:         KindPartialText,
	FieldHeight:        KindPartialText,
	FieldComplexion:    KindPartialText,
	FieldNativePlace:   KindPartialText,
	FieldBudget:        KindNumericRangeOrText,
	FieldStatus:        KindExact,
	FieldSource:        KindExact,
	FieldCreatedBy:     KindExact,
}

// Classify returns the handling kind for a filter key.
func Classify(key string) (Kind, error) {
	kind, ok := fieldKinds[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return kind, nil
}

// Fields lists every recognized filter key in sorted order.
func Fields() []string {
	keys := make([]string, 0, len(fieldKinds))
	for k := range fieldKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
