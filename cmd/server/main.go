package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Roja8626/tech-mock/internal/ai"
	"github.com/Roja8626/tech-mock/internal/api"
	"github.com/Roja8626/tech-mock/internal/app/event"
	"github.com/Roja8626/tech-mock/internal/app/service"
	"github.com/Roja8626/tech-mock/internal/common/security"
	"github.com/Roja8626/tech-mock/internal/domain/repository"
	"github.com/Roja8626/tech-mock/internal/platform/broker"
	"github.com/Roja8626/tech-mock/internal/platform/config"
	"github.com/Roja8626/tech-mock/internal/platform/database"
	"github.com/Roja8626/tech-mock/internal/platform/docstore"
	"github.com/Roja8626/tech-mock/internal/platform/kv"
	"github.com/Roja8626/tech-mock/internal/platform/localdb"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT(config.AppConfig.JWTKey, config.AppConfig.JWTExp)
	fmt.Println("JWT initialized.")

	// 3. Open the collection store
	store, closeStore := openStore()
	defer closeStore()
	fmt.Printf("Collection store ready (%s).\n", config.AppConfig.StoreDriver)

	// 4. Optional collaborators: event broker and generation credential
	var sender event.Sender
	if config.AppConfig.RabbitMQURI != "" {
		client, err := broker.Dial(config.AppConfig.RabbitMQURI, config.AppConfig.RabbitMQExchange)
		if err != nil {
			log.Printf("WARN: Events disabled, RabbitMQ unavailable: %v", err)
		} else {
			defer client.Close()
			sender = client
		}
	}
	events := event.NewEventPublisher(sender)

	var generator service.TextGenerator
	if config.AppConfig.GeminiAPIKey == "" {
		log.Println("WARN: GEMINI_API_KEY not set, question generation will return mock questions")
	} else {
		aiService, err := ai.NewService(context.Background(), config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			log.Printf("WARN: AI client unavailable, question generation will return mock questions: %v", err)
		} else {
			generator = aiService
		}
	}

	var guard service.InflightGuard
	if config.AppConfig.StoreDriver == config.StoreRedis {
		guard = service.NewRedisGuard(kv.RDB, config.AppConfig.GenerationLockTTL)
	} else {
		guard = service.NewLocalGuard()
	}

	// 5. Initialize Repositories
	userRepo := repository.NewUserRepository(store)
	sessionRepo := repository.NewSessionRepository(store)
	questionRepo := repository.NewQuestionRepository(store)
	attemptRepo := repository.NewAttemptRepository(store)
	resultRepo := repository.NewResultRepository(store)

	// 6. Initialize Services
	generationService := service.NewGenerationService(
		generator,
		config.AppConfig.GenerationTimeout,
		config.AppConfig.DefaultGenerateCount,
		config.AppConfig.MaxGenerateCount,
	)
	authService := service.NewAuthService(userRepo, sessionRepo, config.AppConfig.JWTExp)
	questionService := service.NewQuestionService(questionRepo, generationService, guard, events)
	testService := service.NewTestService(questionService, attemptRepo, resultRepo, events, config.AppConfig.AttemptSize, config.AppConfig.AttemptTTL)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, questionService, testService, config.AppConfig.RequestTimeout)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: config.AppConfig.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}

// openStore connects the backend named by STORE_DRIVER. Connection failures
// are fatal, like the other platform connectors.
func openStore() (repository.CollectionStore, func()) {
	switch config.AppConfig.StoreDriver {
	case config.StoreMemory:
		log.Println("WARN: Using the in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}

	case config.StoreRedis:
		kv.ConnectRedis()
		return repository.NewRedisCollectionStore(kv.RDB), kv.CloseRedis

	case config.StorePostgres:
		database.Connect()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.EnsurePgSchema(ctx, database.DB); err != nil {
			log.Fatalf("Could not prepare collections table: %v", err)
		}
		return repository.NewPgCollectionStore(database.DB), database.Close

	case config.StoreMongo:
		docstore.Connect()
		return repository.NewMongoCollectionStore(docstore.Database), docstore.Close

	case config.StoreBolt:
		localdb.Open()
		store, err := repository.NewBoltCollectionStore(localdb.DB)
		if err != nil {
			log.Fatalf("Could not prepare bolt store: %v", err)
		}
		return store, localdb.Close
	}

	log.Fatalf("Unknown STORE_DRIVER %q (want memory, bolt, redis, postgres or mongo)", config.AppConfig.StoreDriver)
	return nil, nil
}
