package database

import (
	"context"
	"time"

	"matrimony-backend/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoConnection connects to MongoDB and returns the named database.
func NewMongoConnection(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Minute).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Log.Info("MongoDB connection established successfully", "database", dbName)
	return client, client.Database(dbName), nil
}

// MongoChecker adapts a client to the health checker interface.
type MongoChecker struct {
	Client *mongo.Client
}

func (m MongoChecker) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}
