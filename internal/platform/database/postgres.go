package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/Roja8626/tech-mock/internal/platform/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const applicationName = "techmock"

var DB *sql.DB

// ConnConfig parses the DSN and tags connections so they can be told apart
// in pg_stat_activity.
func ConnConfig(cfg *config.Config) (*pgx.ConnConfig, error) {
	connCfg, err := pgx.ParseConfig(cfg.DBConnStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	connCfg.RuntimeParams["application_name"] = applicationName
	return connCfg, nil
}

func Connect() {
	connCfg, err := ConnConfig(config.AppConfig)
	if err != nil {
		log.Fatalf("Error configuring database: %v", err)
	}
	DB = stdlib.OpenDB(*connCfg)

	// every collection is a single row, so a small pool is plenty
	DB.SetMaxOpenConns(config.AppConfig.DBMaxConns)
	DB.SetMaxIdleConns(config.AppConfig.DBMaxConns)
	DB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := DB.PingContext(ctx); err != nil {
		log.Fatalf("Error connecting to database %s on %s: %v", config.AppConfig.DBName, config.AppConfig.DBHost, err)
	}

	log.Printf("INFO: Connected to PostgreSQL database %s on %s", config.AppConfig.DBName, config.AppConfig.DBHost)
}

func Close() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Printf("WARN: Closing database: %v", err)
			return
		}
		log.Println("INFO: Database connection closed")
	}
}
