package filter_test

import (
	"testing"

	"matrimony-backend/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateBlankValuesMatchAll(t *testing.T) {
	pred, err := filter.Translate(map[string]string{
		"name":   "",
		"gotra":  "   ",
		"budget": "\t",
	})
	require.NoError(t, err)
	assert.True(t, filter.IsMatchAll(pred))

	pred, err = filter.Translate(nil)
	require.NoError(t, err)
	assert.True(t, filter.IsMatchAll(pred))
}

func TestTranslateTrimsFreeText(t *testing.T) {
	pred, err := filter.Translate(map[string]string{"name": " Raj "})
	require.NoError(t, err)
	assert.Equal(t, filter.And{Terms: []filter.Predicate{
		filter.Partial{Field: "name", Value: "Raj"},
	}}, pred)
}

func TestTranslateExactFields(t *testing.T) {
	pred, err := filter.Translate(map[string]string{"status": "pending"})
	require.NoError(t, err)
	assert.Equal(t, filter.And{Terms: []filter.Predicate{
		filter.Exact{Field: "status", Value: "pending"},
	}}, pred)
}

func TestTranslateRejectsUnknownField(t *testing.T) {
	_, err := filter.Translate(map[string]string{"salary": "100"})
	require.Error(t, err)
	assert.ErrorIs(t, err, filter.ErrUnknownField)
	assert.Contains(t, err.Error(), "salary")
}

func TestTranslateBudgetNestedInAnd(t *testing.T) {
	pred, err := filter.Translate(map[string]string{
		"budget":   "500000",
		"religion": "Hindu",
	})
	require.NoError(t, err)
	assert.Equal(t, filter.And{Terms: []filter.Predicate{
		filter.Or{Terms: []filter.Predicate{
			filter.Equal{Field: "budgetNumeric", Value: 500000},
			filter.Partial{Field: "budget", Value: "500000"},
		}},
		filter.Partial{Field: "religion", Value: "Hindu"},
	}}, pred)
}

func TestTranslateIsIdempotent(t *testing.T) {
	in := map[string]string{
		"name":          "raj",
		"budget":        "5,00,000-10,00,000",
		"maritalStatus": "Single",
		"state":         "Rajasthan",
		"status":        "approved",
	}
	first, err := filter.Translate(in)
	require.NoError(t, err)
	second, err := filter.Translate(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want filter.Predicate
	}{
		{
			name: "plain range",
			raw:  "500000-1000000",
			want: filter.Range{Field: "budgetNumeric", Min: 500000, Max: 1000000},
		},
		{
			name: "comma grouped range",
			raw:  "5,00,000-10,00,000",
			want: filter.Range{Field: "budgetNumeric", Min: 500000, Max: 1000000},
		},
		{
			name: "range with spaces",
			raw:  " 500000 - 1000000 ",
			want: filter.Range{Field: "budgetNumeric", Min: 500000, Max: 1000000},
		},
		{
			name: "single value",
			raw:  "500000",
			want: filter.Or{Terms: []filter.Predicate{
				filter.Equal{Field: "budgetNumeric", Value: 500000},
				filter.Partial{Field: "budget", Value: "500000"},
			}},
		},
		{
			name: "single value keeps commas in text match",
			raw:  "5,00,000",
			want: filter.Or{Terms: []filter.Predicate{
				filter.Equal{Field: "budgetNumeric", Value: 500000},
				filter.Partial{Field: "budget", Value: "5,00,000"},
			}},
		},
		{
			name: "decimal value",
			raw:  "2.5",
			want: filter.Or{Terms: []filter.Predicate{
				filter.Equal{Field: "budgetNumeric", Value: 2.5},
				filter.Partial{Field: "budget", Value: "2.5"},
			}},
		},
		{
			name: "non numeric range",
			raw:  "abc-xyz",
			want: filter.Partial{Field: "budget", Value: "abc-xyz"},
		},
		{
			name: "half numeric range",
			raw:  "500000-lots",
			want: filter.Partial{Field: "budget", Value: "500000-lots"},
		},
		{
			name: "free text",
			raw:  "5 Lakhs",
			want: filter.Partial{Field: "budget", Value: "5 Lakhs"},
		},
		{
			name: "blank",
			raw:  "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.ParseBudget(tt.raw))
		})
	}
}

func TestNumericBudget(t *testing.T) {
	tests := []struct {
		display string
		want    *float64
	}{
		{"₹5,00,000", ptr(500000)},
		{"₹7,50,000", ptr(750000)},
		{" 1200000 ", ptr(1200000)},
		{"Rs. 3,00,000", ptr(300000)},
		{"$1,500.50", ptr(1500.5)},
		{"rs. 5,00,000", ptr(500000)},
		{"RS 5,00,000", ptr(500000)},
		{"INR 5,00,000", ptr(500000)},
		{"inr12,00,000", ptr(1200000)},
		{"Rupees 5,00,000", nil},
		{"5 Lakhs", nil},
		{"", nil},
		{"₹", nil},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			got := filter.NumericBudget(tt.display)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestClassify(t *testing.T) {
	kind, err := filter.Classify("nativePlace")
	require.NoError(t, err)
	assert.Equal(t, filter.KindPartialText, kind)

	kind, err = filter.Classify("budget")
	require.NoError(t, err)
	assert.Equal(t, filter.KindNumericRangeOrText, kind)

	kind, err = filter.Classify("createdBy")
	require.NoError(t, err)
	assert.Equal(t, filter.KindExact, kind)

	_, err = filter.Classify("budgetNumeric")
	assert.ErrorIs(t, err, filter.ErrUnknownField)
}

func ptr(f float64) *float64 { return &f }

func TestTranslateEmptyIsCanonicalMatchAll(t *testing.T) {
	pred, err := filter.Translate(map[string]string{"state": ""})
	require.NoError(t, err)
	assert.Equal(t, filter.MatchAll(), pred)
}
