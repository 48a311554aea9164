package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.APIPort != DefaultAPIPort {
		t.Errorf("APIPort = %q", cfg.APIPort)
	}
	if cfg.IMAPHost != DefaultIMAPHost {
		t.Errorf("IMAPHost = %q", cfg.IMAPHost)
	}
	if cfg.IMAPPort != DefaultIMAPPort {
		t.Errorf("IMAPPort = %d", cfg.IMAPPort)
	}
	if cfg.AIProvider != DefaultAIProvider {
		t.Errorf("AIProvider = %q", cfg.AIProvider)
	}
	if cfg.AIModel != DefaultAIModel {
		t.Errorf("AIModel = %q", cfg.AIModel)
	}
	if cfg.CORSOrigins != DefaultCORSOrigins {
		t.Errorf("CORSOrigins = %q", cfg.CORSOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAILBRIEF_API_PORT", "9090")
	t.Setenv("MAILBRIEF_IMAP_HOST", "imap.example.com")
	t.Setenv("MAILBRIEF_IMAP_PORT", "1993")
	t.Setenv("MAILBRIEF_AI_API_KEY", "key-from-env")
	t.Setenv("MAILBRIEF_DATABASE_URL", "postgres://u:p@h/db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.APIPort != "9090" {
		t.Errorf("APIPort = %q", cfg.APIPort)
	}
	if cfg.IMAPHost != "imap.example.com" {
		t.Errorf("IMAPHost = %q", cfg.IMAPHost)
	}
	if cfg.IMAPPort != 1993 {
		t.Errorf("IMAPPort = %d", cfg.IMAPPort)
	}
	if cfg.AIAPIKey != "key-from-env" {
		t.Errorf("AIAPIKey = %q", cfg.AIAPIKey)
	}
	if cfg.DatabaseURL != "postgres://u:p@h/db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoadInvalidPortIgnored(t *testing.T) {
	t.Setenv("MAILBRIEF_IMAP_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.IMAPPort != DefaultIMAPPort {
		t.Errorf("IMAPPort = %d, want default", cfg.IMAPPort)
	}
}

func TestGroqKeyFallback(t *testing.T) {
	t.Setenv("MAILBRIEF_AI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "legacy-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AIAPIKey != "legacy-key" {
		t.Errorf("AIAPIKey = %q, want GROQ_API_KEY fallback", cfg.AIAPIKey)
	}
}
