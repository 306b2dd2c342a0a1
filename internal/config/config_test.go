package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "DATABASE_DRIVER", "DATABASE_URL", "SESSION_STORE", "CAS_BASE_URL", "SUPER_FSR", "MEDIA_RETENTION", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr :8080, got %s", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != "sqlite" || cfg.DatabaseURL != "fsr.db" {
		t.Fatalf("unexpected database defaults: %s %s", cfg.DatabaseDriver, cfg.DatabaseURL)
	}
	if cfg.CASBaseURL != "https://login.ugent.be" {
		t.Fatalf("unexpected CAS base url %s", cfg.CASBaseURL)
	}
	if cfg.SuperFSR != "gsr" {
		t.Fatalf("expected super fsr gsr, got %s", cfg.SuperFSR)
	}
	if cfg.MediaRetention != defaultMediaRetention {
		t.Fatalf("expected default retention, got %s", cfg.MediaRetention)
	}
	if cfg.CORSOrigins != nil {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("CAS_BASE_URL", "https://cas.example.org/")
	t.Setenv("CAS_TIMEOUT", "3s")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MEDIA_RETENTION", "0")

	cfg := Load()

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected listen addr derived from port, got %s", cfg.ListenAddr)
	}
	if cfg.CASBaseURL != "https://cas.example.org" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.CASBaseURL)
	}
	if cfg.CASTimeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.CASTimeout)
	}
	if !cfg.SessionSecure {
		t.Fatal("expected secure sessions")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSOrigins)
	}
	if cfg.MediaRetention != 0 {
		t.Fatalf("expected retention disabled, got %s", cfg.MediaRetention)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CAS_TIMEOUT", "soon")
	t.Setenv("UPLOAD_MAX_BYTES", "-4")
	t.Setenv("SESSION_SECURE", "maybe")

	cfg := Load()

	if cfg.CASTimeout != 10*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.CASTimeout)
	}
	if cfg.UploadMaxBytes != defaultUploadMaxBytes {
		t.Fatalf("expected default upload limit, got %d", cfg.UploadMaxBytes)
	}
	if cfg.SessionSecure {
		t.Fatal("expected insecure default")
	}
}
