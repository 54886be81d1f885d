package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Model service configuration. An empty OllamaURL disables the model
	// path entirely; the orchestrator then starts at pattern extraction.
	OllamaURL               string
	OllamaModel             string
	ModelTimeout            time.Duration
	ModelConfidence         float64
	ModelConfidenceDegraded float64
	CacheSize               int

	BatchWorkers int
	BatchLimit   int
}

// ModelEnabled reports whether a model endpoint is configured.
func (c *Config) ModelEnabled() bool { return c.OllamaURL != "" }

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	modelTimeout, err := parseDuration("MODEL_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	confidence, err := parseFloat("MODEL_CONFIDENCE", 0.9)
	if err != nil {
		return nil, err
	}
	degraded, err := parseFloat("MODEL_CONFIDENCE_DEGRADED", 0.6)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	workers, err := parseInt("BATCH_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	batchLimit, err := parseInt("BATCH_LIMIT", 100)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OllamaURL:               os.Getenv("OLLAMA_URL"),
		OllamaModel:             envOrDefault("OLLAMA_MODEL", "tinyllama"),
		ModelTimeout:            modelTimeout,
		ModelConfidence:         confidence,
		ModelConfidenceDegraded: degraded,
		CacheSize:               cacheSize,

		BatchWorkers: workers,
		BatchLimit:   batchLimit,
	}

	if cfg.ModelConfidence < 0 || cfg.ModelConfidence > 1 {
		return nil, errors.New("MODEL_CONFIDENCE must be in [0,1]")
	}
	if cfg.ModelConfidenceDegraded < 0 || cfg.ModelConfidenceDegraded > cfg.ModelConfidence {
		return nil, errors.New("MODEL_CONFIDENCE_DEGRADED must be in [0,MODEL_CONFIDENCE]")
	}
	if cfg.BatchWorkers < 1 {
		return nil, errors.New("BATCH_WORKERS must be at least 1")
	}
	if cfg.BatchLimit < 1 {
		return nil, errors.New("BATCH_LIMIT must be at least 1")
	}
	if cfg.CacheSize < 1 {
		return nil, errors.New("CACHE_SIZE must be at least 1")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}
