package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != 8000 {
		t.Fatalf("HTTPPort = %d, want 8000", cfg.HTTPPort)
	}
	if cfg.StreamDelay != 20*time.Millisecond {
		t.Fatalf("StreamDelay = %v, want 20ms", cfg.StreamDelay)
	}
	if cfg.RetryBaseDelay != time.Second {
		t.Fatalf("RetryBaseDelay = %v, want 1s", cfg.RetryBaseDelay)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9001")
	t.Setenv("STREAM_DELAY_MS", "5")
	t.Setenv("WEAVIATE_URL", "http://weaviate:8080")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	if cfg.HTTPPort != 9001 {
		t.Fatalf("HTTPPort = %d, want 9001", cfg.HTTPPort)
	}
	if cfg.StreamDelay != 5*time.Millisecond {
		t.Fatalf("StreamDelay = %v, want 5ms", cfg.StreamDelay)
	}
	if cfg.WeaviateURL != "http://weaviate:8080" {
		t.Fatalf("WeaviateURL = %q", cfg.WeaviateURL)
	}
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	if cfg := Load(); cfg.HTTPPort != 8000 {
		t.Fatalf("HTTPPort = %d, want default 8000", cfg.HTTPPort)
	}
}
