package kv

import (
	"context"
	"log"
	"time"

	"github.com/Roja8626/tech-mock/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// RDB backs the redis collection store and the shared generation lock.
var RDB *redis.Client

// Options builds the client options for the collections database.
func Options(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func ConnectRedis() {
	RDB = redis.NewClient(Options(config.AppConfig))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Fatalf("Could not connect to Redis at %s (db %d): %v", config.AppConfig.RedisAddr, config.AppConfig.RedisDB, err)
	}
	log.Printf("INFO: Connected to Redis at %s, collections in db %d", config.AppConfig.RedisAddr, config.AppConfig.RedisDB)
}

func CloseRedis() {
	if RDB != nil {
		if err := RDB.Close(); err != nil {
			log.Printf("WARN: Closing Redis client: %v", err)
			return
		}
		log.Println("INFO: Redis connection closed")
	}
}
