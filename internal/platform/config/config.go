package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreBolt     = "bolt"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	StoreDriver string
	BoltPath    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string
	DBMaxConns int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	MongoURI string
	MongoDB  string

	RabbitMQURI      string
	RabbitMQExchange string

	GeminiAPIKey         string
	GeminiModel          string
	GenerationTimeout    time.Duration
	RequestTimeout       time.Duration
	GenerationLockTTL    time.Duration
	AttemptSize          int
	AttemptTTL           time.Duration
	DefaultGenerateCount int
	MaxGenerateCount     int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	AppConfig = fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("JWT_SECRET", "defaultsecret")
	v.SetDefault("JWT_EXPIRATION_HOURS", 72)
	v.SetDefault("STORE_DRIVER", StoreBolt)
	v.SetDefault("BOLT_PATH", "techmock.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "techmock")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "techmock")
	v.SetDefault("RABBITMQ_URI", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "techmock.events")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("GENERATION_TIMEOUT_SECONDS", 60)
	v.SetDefault("GENERATION_LOCK_TTL_SECONDS", 120)
	v.SetDefault("ATTEMPT_SIZE", 10)
	v.SetDefault("ATTEMPT_TTL_MINUTES", 180)
	v.SetDefault("GENERATE_DEFAULT_COUNT", 5)
	v.SetDefault("GENERATE_MAX_COUNT", 20)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		APIPort:              v.GetString("API_PORT"),
		JWTKey:               []byte(v.GetString("JWT_SECRET")),
		JWTExp:               time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
		StoreDriver:          strings.ToLower(v.GetString("STORE_DRIVER")),
		BoltPath:             v.GetString("BOLT_PATH"),
		DBHost:               v.GetString("DB_HOST"),
		DBPort:               v.GetString("DB_PORT"),
		DBUser:               v.GetString("DB_USER"),
		DBPassword:           v.GetString("DB_PASSWORD"),
		DBName:               v.GetString("DB_NAME"),
		DBSslMode:            v.GetString("DB_SSLMODE"),
		DBMaxConns:           v.GetInt("DB_MAX_CONNS"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		RedisPoolSize:        v.GetInt("REDIS_POOL_SIZE"),
		MongoURI:             v.GetString("MONGO_URI"),
		MongoDB:              v.GetString("MONGO_DB"),
		RabbitMQURI:          v.GetString("RABBITMQ_URI"),
		RabbitMQExchange:     v.GetString("RABBITMQ_EXCHANGE"),
		GeminiModel:          v.GetString("GEMINI_MODEL"),
		GenerationTimeout:    time.Duration(v.GetInt("GENERATION_TIMEOUT_SECONDS")) * time.Second,
		GenerationLockTTL:    time.Duration(v.GetInt("GENERATION_LOCK_TTL_SECONDS")) * time.Second,
		AttemptSize:          v.GetInt("ATTEMPT_SIZE"),
		AttemptTTL:           time.Duration(v.GetInt("ATTEMPT_TTL_MINUTES")) * time.Minute,
		DefaultGenerateCount: v.GetInt("GENERATE_DEFAULT_COUNT"),
		MaxGenerateCount:     v.GetInt("GENERATE_MAX_COUNT"),
	}

	// API_KEY is accepted as an alias; GEMINI_API_KEY wins when both are set.
	cfg.GeminiAPIKey = v.GetString("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = v.GetString("API_KEY")
	}

	cfg.RequestTimeout = RequestTimeoutFor(cfg.GenerationTimeout)

	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
	}

	if cfg.AttemptSize <= 0 {
		cfg.AttemptSize = 10
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode
	return cfg
}

// RequestTimeoutFor leaves headroom above the generation timeout so a slow
// model call ends on its own deadline before the request is cut off.
func RequestTimeoutFor(generationTimeout time.Duration) time.Duration {
	return generationTimeout + 30*time.Second
}
