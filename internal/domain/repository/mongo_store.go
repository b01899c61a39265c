package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Roja8626/tech-mock/internal/common"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type collectionDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

type mongoCollectionStore struct {
	col *mongo.Collection
}

func NewMongoCollectionStore(db *mongo.Database) CollectionStore {
	return &mongoCollectionStore{col: db.Collection("collections")}
}

func (s *mongoCollectionStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc collectionDocument
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoCollectionStore.Get: %w", err)
	}
	return []byte(doc.Value), nil
}

func (s *mongoCollectionStore) Set(ctx context.Context, key string, value []byte) error {
	doc := collectionDocument{Key: key, Value: string(value)}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongoCollectionStore.Set: %w", err)
	}
	return nil
}
