package mongo

import (
	"context"
	"errors"
	"fmt"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/filter"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const peopleCollection = "people"

type personRepo struct {
	coll *mongo.Collection
}

func NewPersonRepository(db *mongo.Database) domain.PersonRepository {
	return &personRepo{coll: db.Collection(peopleCollection)}
}

// EnsureIndexes creates the listing and budget indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(peopleCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "budgetNumeric", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("people indexes: %w", err)
	}
	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}

func (r *personRepo) Create(ctx context.Context, p *domain.Person) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *personRepo) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	var p domain.Person
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	normalize(&p)
	return &p, nil
}

// Update replaces the whole document so a cleared budgetNumeric is removed.
func (r *personRepo) Update(ctx context.Context, p *domain.Person) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *personRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *personRepo) List(ctx context.Context, pred filter.Predicate, page, pageSize int) ([]domain.Person, int64, error) {
	query, err := toFilter(pred)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count people: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * pageSize)).SetLimit(int64(pageSize))
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list people: %w", err)
	}
	defer cur.Close(ctx)

	people := []domain.Person{}
	if err := cur.All(ctx, &people); err != nil {
		return nil, 0, fmt.Errorf("decode people: %w", err)
	}
	for i := range people {
		normalize(&people[i])
	}
	return people, total, nil
}

func normalize(p *domain.Person) {
	if p.Photos == nil {
		p.Photos = []string{}
	}
}
