package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig collects everything needed to run the service.
type AppConfig struct {
	ListenAddr string
	Port       string
	GinMode    string
	LogLevel   string

	DatabaseDriver string
	DatabaseURL    string

	SessionSecret string
	SessionStore  string
	SessionSecure bool

	ContentBackend string
	ContentDir     string
	S3             S3Config

	CASBaseURL    string
	CASTimeout    time.Duration
	PublicBaseURL string

	SuperFSR       string
	CORSOrigins    []string
	UploadMaxBytes int64
	MediaRetention time.Duration
}

// S3Config holds the bucket settings used when ContentBackend is "s3".
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

const (
	defaultUploadMaxBytes = 32 << 20
	defaultMediaRetention = 30 * 24 * time.Hour
)

// Load reads the configuration from the environment, after merging an optional
// .env file from the working directory. Missing values fall back to defaults.
func Load() AppConfig {
	_ = godotenv.Load()

	port := env("PORT", "8080")

	listenAddr := env("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	cfg := AppConfig{
		ListenAddr: listenAddr,
		Port:       port,
		GinMode:    env("GIN_MODE", "release"),
		LogLevel:   strings.ToLower(env("LOG_LEVEL", "info")),

		DatabaseDriver: strings.ToLower(env("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:    env("DATABASE_URL", "fsr.db"),

		SessionSecret: env("SESSION_SECRET", "fsr-dev-secret"),
		SessionStore:  strings.ToLower(env("SESSION_STORE", "cookie")),
		SessionSecure: envBool("SESSION_SECURE", false),

		ContentBackend: strings.ToLower(env("CONTENT_BACKEND", "fs")),
		ContentDir:     env("CONTENT_DIR", "content"),
		S3: S3Config{
			Bucket:    env("S3_BUCKET", ""),
			Region:    env("S3_REGION", "us-east-1"),
			Endpoint:  env("S3_ENDPOINT", ""),
			AccessKey: env("S3_ACCESS_KEY", ""),
			SecretKey: env("S3_SECRET_KEY", ""),
			Prefix:    env("S3_PREFIX", ""),
		},

		CASBaseURL:    strings.TrimRight(env("CAS_BASE_URL", "https://login.ugent.be"), "/"),
		CASTimeout:    envDuration("CAS_TIMEOUT", 10*time.Second),
		PublicBaseURL: strings.TrimRight(env("PUBLIC_BASE_URL", ""), "/"),

		SuperFSR:       env("SUPER_FSR", "gsr"),
		CORSOrigins:    splitList(env("CORS_ORIGINS", "")),
		UploadMaxBytes: envInt64("UPLOAD_MAX_BYTES", defaultUploadMaxBytes),
		MediaRetention: envDuration("MEDIA_RETENTION", defaultMediaRetention),
	}

	return cfg
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid boolean, using default")
		return fallback
	}
	return parsed
}

func envInt64(key string, fallback int64) int64 {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed < 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
