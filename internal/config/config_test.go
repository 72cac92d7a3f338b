package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.SharedPassword != "123456" {
		t.Errorf("expected default shared password, got %s", cfg.SharedPassword)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("expected default session TTL 12h, got %s", cfg.SessionTTL)
	}
	if cfg.GeminiModelID != "gemini-2.5-flash" {
		t.Errorf("unexpected default gemini model: %s", cfg.GeminiModelID)
	}
	if cfg.SyncConfigured() {
		t.Error("sync should be unconfigured by default")
	}
}

func TestSyncConfigured(t *testing.T) {
	t.Setenv("SYNC_TABLE", "clinic_documents")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()
	if !cfg.SyncConfigured() {
		t.Error("expected sync to be configured")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USE_MEMORY_QUEUE", "true")
	t.Setenv("REMINDER_LOOKAHEAD_HOURS", "48")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.UseMemoryQueue {
		t.Error("expected UseMemoryQueue true")
	}
	if cfg.ReminderLookaheadHours != 48 {
		t.Errorf("expected lookahead 48, got %d", cfg.ReminderLookaheadHours)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://staging.example.com" {
		t.Errorf("unexpected origin: %s", cfg.CORSAllowedOrigins[1])
	}
}
