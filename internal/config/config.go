// Package config reads service settings from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Settings holds everything the server needs at startup.
type Settings struct {
	ListenAddr     string
	RequestTimeout time.Duration
	MaxUploadBytes int
	ExtractWorkers int
	VocabPath      string
	LoanCatalog    string
	CORSOrigins    string
}

// Load reads settings from the environment, applying defaults for
// anything unset.
func Load() Settings {
	return Settings{
		ListenAddr:     envString("LISTEN_ADDR", ":8080"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxUploadBytes: envInt("MAX_UPLOAD_BYTES", 32<<20),
		ExtractWorkers: envInt("EXTRACT_WORKERS", 4),
		VocabPath:      envString("CLASSIFIER_VOCAB_PATH", ""),
		LoanCatalog:    envString("LOAN_DATASET_PATH", ""),
		CORSOrigins:    envString("CORS_ORIGINS", "*"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
