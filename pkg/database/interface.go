package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Database hands repositories their collections.
type Database interface {
	Collection(name string) *mongo.Collection
	Ping(ctx context.Context) error
	CreateIndexes(ctx context.Context) error
}

type MongoDatabase struct {
	db *mongo.Database
}

func NewMongoDatabase(db *mongo.Database) *MongoDatabase {
	return &MongoDatabase{db: db}
}

func (m *MongoDatabase) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

func (m *MongoDatabase) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

func (m *MongoDatabase) CreateIndexes(ctx context.Context) error {
	return CreateIndexes(ctx, m.db)
}
