package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT",
		"OLLAMA_URL", "OLLAMA_MODEL", "MODEL_TIMEOUT",
		"MODEL_CONFIDENCE", "MODEL_CONFIDENCE_DEGRADED", "CACHE_SIZE",
		"BATCH_WORKERS", "BATCH_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Empty(t, cfg.OllamaURL)
	assert.False(t, cfg.ModelEnabled())
	assert.Equal(t, "tinyllama", cfg.OllamaModel)
	assert.Equal(t, 30*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 0.9, cfg.ModelConfidence)
	assert.Equal(t, 0.6, cfg.ModelConfidenceDegraded)
	assert.Equal(t, 256, cfg.CacheSize)

	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Equal(t, 100, cfg.BatchLimit)
}

func TestLoadCustomEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("OLLAMA_URL", "http://localhost:11434")
	t.Setenv("OLLAMA_MODEL", "mistral")
	t.Setenv("MODEL_TIMEOUT", "45s")
	t.Setenv("MODEL_CONFIDENCE", "0.8")
	t.Setenv("MODEL_CONFIDENCE_DEGRADED", "0.5")
	t.Setenv("CACHE_SIZE", "64")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("BATCH_LIMIT", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.ModelEnabled())
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "mistral", cfg.OllamaModel)
	assert.Equal(t, 45*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 0.8, cfg.ModelConfidence)
	assert.Equal(t, 0.5, cfg.ModelConfidenceDegraded)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, 50, cfg.BatchLimit)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparseable timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative timeout", "MODEL_TIMEOUT", "-5s"},
		{"non-numeric workers", "BATCH_WORKERS", "many"},
		{"zero workers", "BATCH_WORKERS", "0"},
		{"zero batch limit", "BATCH_LIMIT", "0"},
		{"zero cache size", "CACHE_SIZE", "0"},
		{"confidence above one", "MODEL_CONFIDENCE", "1.5"},
		{"negative confidence", "MODEL_CONFIDENCE", "-0.1"},
		{"degraded above confidence", "MODEL_CONFIDENCE_DEGRADED", "0.95"},
		{"non-numeric confidence", "MODEL_CONFIDENCE", "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
