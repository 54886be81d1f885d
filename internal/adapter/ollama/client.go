// Package ollama implements the model-service boundary against an
// Ollama-compatible completion API.
package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stark-ops/incident-parser/internal/domain"
	"github.com/stark-ops/incident-parser/internal/observability"
)

// Client talks to a completion service over HTTP. It implements
// domain.Completer.
//
// No transport-level retries are configured on Complete: a failed model call
// is answered by pattern fallback, not by hammering an unreachable service.
type Client struct {
	http    *resty.Client
	model   string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewClient creates a completion client for the given base URL and model
// identifier.
func NewClient(baseURL, model string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		http:    resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		model:   model,
		logger:  logger,
		metrics: metrics,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Complete sends a prompt to the generate endpoint and returns the raw text
// reply. Transport and status failures come back as *domain.ExtractionError
// with Network set.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(generateRequest{Model: c.model, Prompt: prompt, Stream: false}).
		SetResult(&out).
		Post("/api/generate")

	c.metrics.ModelRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return "", &domain.ExtractionError{Reason: "model request", Network: true, Err: err}
	}
	if resp.IsError() {
		return "", &domain.ExtractionError{
			Reason:  fmt.Sprintf("model service status %d", resp.StatusCode()),
			Network: true,
		}
	}
	return out.Response, nil
}

// ListModels returns the model identifiers the service currently serves.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var out tagsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list models: status %d", resp.StatusCode())
	}

	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// CheckReachable probes the service's tags endpoint. The result is advisory:
// a failing probe downgrades the reachability gauge and the expected success
// rate but never blocks anything.
func (c *Client) CheckReachable(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	if err != nil {
		c.metrics.ModelReachable.Set(0)
		return err
	}
	c.metrics.ModelReachable.Set(1)
	return nil
}
