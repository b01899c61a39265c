package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "GEMINI_API_KEY", "API_KEY", "ATTEMPT_SIZE", "GEMINI_MODEL", "ATTEMPT_TTL_MINUTES"} {
		t.Setenv(key, "")
	}
	Load()

	if AppConfig.StoreDriver != StoreBolt {
		t.Errorf("Expected default store %s, got %s", StoreBolt, AppConfig.StoreDriver)
	}
	if AppConfig.AttemptSize != 10 {
		t.Errorf("Expected attempt size 10, got %d", AppConfig.AttemptSize)
	}
	if AppConfig.GenerationTimeout != 60*time.Second {
		t.Errorf("Expected 60s generation timeout, got %s", AppConfig.GenerationTimeout)
	}
	if AppConfig.DefaultGenerateCount != 5 || AppConfig.MaxGenerateCount != 20 {
		t.Errorf("Expected generate counts 5/20, got %d/%d", AppConfig.DefaultGenerateCount, AppConfig.MaxGenerateCount)
	}
	if AppConfig.GeminiAPIKey != "" {
		t.Errorf("Expected no credential, got %q", AppConfig.GeminiAPIKey)
	}
	if AppConfig.AttemptTTL != 3*time.Hour {
		t.Errorf("Expected 3h attempt ttl, got %s", AppConfig.AttemptTTL)
	}
}

func TestRequestTimeoutFollowsGenerationTimeout(t *testing.T) {
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "150")
	Load()

	if AppConfig.GenerationTimeout != 150*time.Second {
		t.Fatalf("Expected 150s generation timeout, got %s", AppConfig.GenerationTimeout)
	}
	if AppConfig.RequestTimeout <= AppConfig.GenerationTimeout {
		t.Errorf("Expected request timeout above %s, got %s", AppConfig.GenerationTimeout, AppConfig.RequestTimeout)
	}
}

func TestLoadCredentialAlias(t *testing.T) {
	testCases := []struct {
		name, gemini, alias, want string
	}{
		{"alias only", "", "alias-key", "alias-key"},
		{"gemini wins", "gemini-key", "alias-key", "gemini-key"},
		{"neither", "", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", tc.gemini)
			t.Setenv("API_KEY", tc.alias)
			Load()
			if AppConfig.GeminiAPIKey != tc.want {
				t.Errorf("Expected credential %q, got %q", tc.want, AppConfig.GeminiAPIKey)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ATTEMPT_SIZE", "0")
	Load()

	if AppConfig.StoreDriver != StorePostgres {
		t.Errorf("Expected store driver to be lower-cased to %s, got %s", StorePostgres, AppConfig.StoreDriver)
	}
	if AppConfig.AttemptSize != 10 {
		t.Errorf("Expected invalid attempt size to fall back to 10, got %d", AppConfig.AttemptSize)
	}
	want := "host=db.internal port=5432 user=user password=password dbname=techmock sslmode=disable"
	if AppConfig.DBConnStr != want {
		t.Errorf("Expected conn string %q, got %q", want, AppConfig.DBConnStr)
	}
}
