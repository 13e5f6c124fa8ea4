package mongo

import (
	"fmt"
	"regexp"

	"matrimony-backend/internal/filter"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document keys match the filter field names, so no column map is needed.
var knownFields = func() map[string]bool {
	m := map[string]bool{filter.FieldBudgetNumeric: true}
	for _, f := range filter.Fields() {
		m[f] = true
	}
	return m
}()

// matchNothing is used for an empty OR.
var matchNothing = bson.M{"_id": bson.M{"$exists": false}}

// toFilter compiles pred into a query document. Match-all compiles to {}.
func toFilter(pred filter.Predicate) (bson.M, error) {
	if filter.IsMatchAll(pred) {
		return bson.M{}, nil
	}
	return compile(pred)
}

func compile(pred filter.Predicate) (bson.M, error) {
	switch p := pred.(type) {
	case filter.And:
		if len(p.Terms) == 0 {
			return bson.M{}, nil
		}
		return group("$and", p.Terms)
	case filter.Or:
		if len(p.Terms) == 0 {
			return matchNothing, nil
		}
		return group("$or", p.Terms)
	case filter.Exact:
		if err := checkField(p.Field); err != nil {
			return nil, err
		}
		return bson.M{p.Field: bson.M{"$eq": p.Value}}, nil
	case filter.Partial:
		if err := checkField(p.Field); err != nil {
			return nil, err
		}
		return bson.M{p.Field: primitive.Regex{Pattern: regexp.QuoteMeta(p.Value), Options: "i"}}, nil
	case filter.Range:
		if err := checkField(p.Field); err != nil {
			return nil, err
		}
		return bson.M{p.Field: bson.M{"$gte": p.Min, "$lte": p.Max}}, nil
	case filter.Equal:
		if err := checkField(p.Field); err != nil {
			return nil, err
		}
		return bson.M{p.Field: bson.M{"$eq": p.Value}}, nil
	default:
		return nil, fmt.Errorf("mongo: unsupported predicate %T", pred)
	}
}

func group(op string, terms []filter.Predicate) (bson.M, error) {
	if len(terms) == 1 {
		return compile(terms[0])
	}
	docs := make(bson.A, 0, len(terms))
	for _, t := range terms {
		d, err := compile(t)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return bson.M{op: docs}, nil
}

func checkField(field string) error {
	if !knownFields[field] {
		return fmt.Errorf("%w: %q", filter.ErrUnknownField, field)
	}
	return nil
}
