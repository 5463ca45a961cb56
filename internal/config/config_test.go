package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "./data/app.db" {
		t.Errorf("default db path = %s", cfg.Database.Path)
	}
	if cfg.Security.RateLimitRequests != 100 {
		t.Errorf("default rate limit = %d, want 100", cfg.Security.RateLimitRequests)
	}
	if cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("default rate window = %v, want 1m", cfg.Security.RateLimitWindow)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SECURITY_RATE_LIMIT_REQUESTS", "5")
	t.Setenv("SECURITY_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("FIRESTORE_PROJECT_ID", "demo-project")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("port override = %s, want 9999", cfg.Server.Port)
	}
	if cfg.Security.RateLimitRequests != 5 {
		t.Errorf("rate limit override = %d, want 5", cfg.Security.RateLimitRequests)
	}
	if cfg.Security.RateLimitWindow != 30*time.Second {
		t.Errorf("rate window override = %v, want 30s", cfg.Security.RateLimitWindow)
	}
	if cfg.Firestore.ProjectID != "demo-project" {
		t.Errorf("firestore project = %s", cfg.Firestore.ProjectID)
	}
}
