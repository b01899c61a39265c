package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Roja8626/tech-mock/internal/common"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/drivertest"
)

func cursorReply(docs ...bson.D) bson.D {
	batch := bson.A{}
	for _, d := range docs {
		batch = append(batch, d)
	}
	return bson.D{
		{Key: "ok", Value: int32(1)},
		{Key: "cursor", Value: bson.D{
			{Key: "id", Value: int64(0)},
			{Key: "ns", Value: "techmock.collections"},
			{Key: "firstBatch", Value: batch},
		}},
	}
}

func TestMongoCollectionStore(t *testing.T) {
	md := drivertest.NewMockDeployment()
	opts := options.Client()
	opts.Deployment = md

	client, err := mongo.Connect(opts)
	if err != nil {
		t.Fatalf("Failed to connect to mock deployment: %v", err)
	}
	defer client.Disconnect(context.Background())

	ctx := context.Background()
	store := NewMongoCollectionStore(client.Database("techmock"))

	md.AddResponses(cursorReply())
	if _, err := store.Get(ctx, KeyQuestions); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a never-written key, got %v", err)
	}

	// upsert insert
	md.AddResponses(bson.D{
		{Key: "ok", Value: int32(1)},
		{Key: "n", Value: int32(1)},
		{Key: "nModified", Value: int32(0)},
		{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: int32(0)}, {Key: "_id", Value: KeyQuestions}}}},
	})
	if err := store.Set(ctx, KeyQuestions, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// overwrite of the same key
	md.AddResponses(bson.D{
		{Key: "ok", Value: int32(1)},
		{Key: "n", Value: int32(1)},
		{Key: "nModified", Value: int32(1)},
	})
	if err := store.Set(ctx, KeyQuestions, []byte(`[{"id":"q1"}]`)); err != nil {
		t.Fatalf("Overwriting Set failed: %v", err)
	}

	md.AddResponses(cursorReply(bson.D{
		{Key: "_id", Value: KeyQuestions},
		{Key: "value", Value: `[{"id":"q1"}]`},
	}))
	got, err := store.Get(ctx, KeyQuestions)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":"q1"}]` {
		t.Errorf("Expected the overwritten value, got %s", got)
	}

	md.AddResponses(bson.D{
		{Key: "ok", Value: int32(0)},
		{Key: "errmsg", Value: "write rejected"},
		{Key: "code", Value: int32(2)},
	})
	if err := store.Set(ctx, KeyQuestions, []byte(`[]`)); err == nil {
		t.Errorf("Expected Set to surface the server error")
	}
}
