// Command server runs the incident parser HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stark-ops/incident-parser/internal/adapter/httpapi"
	"github.com/stark-ops/incident-parser/internal/adapter/ollama"
	"github.com/stark-ops/incident-parser/internal/config"
	"github.com/stark-ops/incident-parser/internal/extract"
	"github.com/stark-ops/incident-parser/internal/observability"
)

func main() {
	// .env is optional; absence is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var (
		modeler extract.Modeler
		models  httpapi.ModelDirectory
	)
	if cfg.ModelEnabled() {
		client := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.ModelTimeout, logger, metrics)
		completer := ollama.NewCachedCompleter(client, cfg.CacheSize, metrics)
		modeler = extract.NewModelExtractor(completer, extract.ModelConfig{
			Confidence:         cfg.ModelConfidence,
			DegradedConfidence: cfg.ModelConfidenceDegraded,
		}, logger)
		models = client
		logger.Info("model extraction enabled", "url", cfg.OllamaURL, "model", cfg.OllamaModel, "timeout", cfg.ModelTimeout)

		// Advisory reachability probe: a down model service only means the
		// pattern path will carry the load.
		probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.CheckReachable(probeCtx); err != nil {
			logger.Warn("model service unreachable, expecting pattern fallback", "error", err)
		}
		cancel()
	} else {
		logger.Info("model extraction disabled, pattern rules only")
	}

	orch := extract.NewOrchestrator(modeler, extract.NewPatternExtractor(), logger, metrics)
	batch := extract.NewBatchCoordinator(orch, cfg.BatchWorkers, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, orch, batch, models, cfg.BatchLimit, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
