package mongo

import (
	"testing"

	"matrimony-backend/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToFilterMatchAll(t *testing.T) {
	doc, err := toFilter(filter.MatchAll())
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, doc)
}

func TestToFilterTranslated(t *testing.T) {
	pred, err := filter.Translate(map[string]string{
		"budget": "500000",
		"name":   "r.j",
	})
	require.NoError(t, err)

	doc, err := toFilter(pred)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"$or": bson.A{
			bson.M{"budgetNumeric": bson.M{"$eq": 500000.0}},
			bson.M{"budget": primitive.Regex{Pattern: "500000", Options: "i"}},
		}},
		bson.M{"name": primitive.Regex{Pattern: `r\.j`, Options: "i"}},
	}}, doc)
}

func TestToFilterSingleRange(t *testing.T) {
	pred, err := filter.Translate(map[string]string{"budget": "100-200"})
	require.NoError(t, err)

	doc, err := toFilter(pred)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"budgetNumeric": bson.M{"$gte": 100.0, "$lte": 200.0}}, doc)
}

func TestToFilterExactAndEmptyOr(t *testing.T) {
	doc, err := toFilter(filter.Exact{Field: "status", Value: "pending"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"status": bson.M{"$eq": "pending"}}, doc)

	doc, err = toFilter(filter.Or{})
	require.NoError(t, err)
	assert.Equal(t, matchNothing, doc)
}

func TestToFilterUnknownField(t *testing.T) {
	_, err := toFilter(filter.Partial{Field: "passwordHash", Value: "x"})
	assert.ErrorIs(t, err, filter.ErrUnknownField)
}
