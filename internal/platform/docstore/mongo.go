package docstore

import (
	"context"
	"log"
	"time"

	"github.com/Roja8626/tech-mock/internal/platform/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	Client   *mongo.Client
	Database *mongo.Database
)

func Connect() {
	opts := options.Client().
		ApplyURI(config.AppConfig.MongoURI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetMaxPoolSize(50).
		SetRetryWrites(true).
		SetRetryReads(true)

	var err error
	Client, err = mongo.Connect(opts)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Ping(ctx, nil); err != nil {
		log.Fatalf("Could not ping MongoDB: %v", err)
	}

	Database = Client.Database(config.AppConfig.MongoDB)
	log.Printf("INFO: Successfully connected to MongoDB database %s", config.AppConfig.MongoDB)
}

func Close() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("ERROR: Disconnecting from MongoDB: %v", err)
		return
	}
	log.Println("INFO: MongoDB connection closed")
}
