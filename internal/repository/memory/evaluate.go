package memory

import (
	"fmt"
	"strings"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/filter"
)

// textField returns the string value of a filterable field.
func textField(p *domain.Person, field string) (string, error) {
	switch field {
	case filter.FieldName:
		return p.Name, nil
	case filter.FieldGender:
		return p.Gender, nil
	case filter.FieldMaritalStatus:
		return p.MaritalStatus, nil
	case filter.FieldReligion:
		return p.Religion, nil
	case filter.FieldGotra:
		return p.Gotra, nil
	case filter.FieldArea:
		return p.Area, nil
	case filter.FieldState:
		return p.State, nil
	case filter.FieldHeight:
		return p.Height, nil
	case filter.FieldComplexion:
		return p.Complexion, nil
	case filter.FieldNativePlace:
		return p.NativePlace, nil
	case filter.FieldBudget:
		return p.Budget, nil
	case filter.FieldStatus:
		return p.Status, nil
	case filter.FieldSource:
		return p.Source, nil
	case filter.FieldCreatedBy:
		return p.CreatedBy, nil
	default:
		return "", fmt.Errorf("%w: %q", filter.ErrUnknownField, field)
	}
}

func numericField(p *domain.Person, field string) (*float64, error) {
	if field != filter.FieldBudgetNumeric {
		return nil, fmt.Errorf("%w: %q is not numeric", filter.ErrUnknownField, field)
	}
	return p.BudgetNumeric, nil
}

// matches evaluates pred against p. A nil predicate matches everything and a
// missing budgetNumeric never satisfies a numeric leaf.
func matches(pred filter.Predicate, p *domain.Person) (bool, error) {
	switch q := pred.(type) {
	case nil:
		return true, nil
	case filter.And:
		for _, t := range q.Terms {
			ok, err := matches(t, p)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case filter.Or:
		for _, t := range q.Terms {
			ok, err := matches(t, p)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case filter.Exact:
		v, err := textField(p, q.Field)
		return v == q.Value, err
	case filter.Partial:
		v, err := textField(p, q.Field)
		return strings.Contains(strings.ToLower(v), strings.ToLower(q.Value)), err
	case filter.Range:
		n, err := numericField(p, q.Field)
		if err != nil || n == nil {
			return false, err
		}
		return *n >= q.Min && *n <= q.Max, nil
	case filter.Equal:
		n, err := numericField(p, q.Field)
		if err != nil || n == nil {
			return false, err
		}
		return *n == q.Value, nil
	default:
		return false, fmt.Errorf("memory: unsupported predicate %T", pred)
	}
}
