package database

import (
	"testing"

	"github.com/Roja8626/tech-mock/internal/platform/config"
)

func TestConnConfig(t *testing.T) {
	cfg := &config.Config{DBConnStr: "host=db.internal port=5433 user=app password=secret dbname=techmock sslmode=disable"}

	connCfg, err := ConnConfig(cfg)
	if err != nil {
		t.Fatalf("ConnConfig failed: %v", err)
	}
	if connCfg.Host != "db.internal" || connCfg.Port != 5433 || connCfg.Database != "techmock" {
		t.Errorf("Unexpected connection target %s:%d/%s", connCfg.Host, connCfg.Port, connCfg.Database)
	}
	if connCfg.RuntimeParams["application_name"] != applicationName {
		t.Errorf("Expected application_name %q, got %q", applicationName, connCfg.RuntimeParams["application_name"])
	}

	if _, err := ConnConfig(&config.Config{DBConnStr: "port=notanumber"}); err == nil {
		t.Errorf("Expected an error for a malformed DSN")
	}
}
