package postgres

import (
	"fmt"
	"strings"

	"matrimony-backend/internal/filter"
)

// columns maps filter field names to people columns.
var columns = map[string]string{
	filter.FieldName:          "name",
	filter.FieldGender:        "gender",
	filter.FieldMaritalStatus: "marital_status",
	filter.FieldReligion:      "religion",
	filter.FieldGotra:         "gotra",
	filter.FieldArea:          "area",
	filter.FieldState:         "state",
	filter.FieldHeight:        "height",
	filter.FieldComplexion:    "complexion",
	filter.FieldNativePlace:   "native_place",
	filter.FieldBudget:        "budget",
	filter.FieldBudgetNumeric: "budget_numeric",
	filter.FieldStatus:        "status",
	filter.FieldSource:        "source",
	filter.FieldCreatedBy:     "created_by",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause compiles pred into a SQL condition with $n placeholders starting
// at argIdx. A match-all predicate compiles to an empty string.
func whereClause(pred filter.Predicate, argIdx int) (string, []interface{}, error) {
	if filter.IsMatchAll(pred) {
		return "", nil, nil
	}
	b := &sqlBuilder{argIdx: argIdx}
	sql, err := b.build(pred)
	if err != nil {
		return "", nil, err
	}
	return sql, b.args, nil
}

type sqlBuilder struct {
	argIdx int
	args   []interface{}
}

func (b *sqlBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	placeholder := fmt.Sprintf("$%d", b.argIdx)
	b.argIdx++
	return placeholder
}

func (b *sqlBuilder) build(pred filter.Predicate) (string, error) {
	switch p := pred.(type) {
	case filter.And:
		return b.group(p.Terms, " AND ", "TRUE")
	case filter.Or:
		return b.group(p.Terms, " OR ", "FALSE")
	case filter.Exact:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", col, b.arg(p.Value)), nil
	case filter.Partial:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s ILIKE %s", col, b.arg("%"+likeEscaper.Replace(p.Value)+"%")), nil
	case filter.Range:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", col, b.arg(p.Min), b.arg(p.Max)), nil
	case filter.Equal:
		col, err := column(p.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", col, b.arg(p.Value)), nil
	default:
		return "", fmt.Errorf("postgres: unsupported predicate %T", pred)
	}
}

// group joins terms with op. An empty group compiles to its identity.
func (b *sqlBuilder) group(terms []filter.Predicate, op, empty string) (string, error) {
	if len(terms) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		s, err := b.build(t)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, op) + ")", nil
}

func column(field string) (string, error) {
	col, ok := columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", filter.ErrUnknownField, field)
	}
	return col, nil
}
