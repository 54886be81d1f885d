package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/stark-ops/incident-parser/internal/domain"
	"github.com/stark-ops/incident-parser/internal/observability"
)

// Modeler runs the model extraction path. Satisfied by *ModelExtractor;
// tests substitute fakes.
type Modeler interface {
	Extract(ctx context.Context, text string, ref time.Time) (domain.IncidentRecord, error)
}

// Orchestrator is the pipeline entry point. It tries the model extractor
// first, falls back to pattern rules on any extraction error, and attaches
// confidence and method provenance. All recoverable conditions are absorbed
// here; the only failure callers ever see is ErrNoExtractableContent.
type Orchestrator struct {
	model   Modeler // nil means no model endpoint is configured
	pattern *PatternExtractor
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewOrchestrator(model Modeler, pattern *PatternExtractor, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		model:   model,
		pattern: pattern,
		logger:  logger,
		metrics: metrics,
	}
}

// ModelEnabled reports whether the model path is configured at all.
func (o *Orchestrator) ModelEnabled() bool { return o.model != nil }

// Extract converts one raw incident into a structured record.
//
// Empty or whitespace-only input fails immediately with
// ErrNoExtractableContent; there is nothing worth sending to the model.
// When no model endpoint is configured the model stage is skipped entirely,
// which is a configuration decision, not a failure.
func (o *Orchestrator) Extract(ctx context.Context, in domain.RawIncident) (domain.IncidentRecord, error) {
	start := time.Now()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		o.metrics.ExtractionsTotal.WithLabelValues("none", "failure").Inc()
		return domain.IncidentRecord{}, domain.ErrNoExtractableContent
	}

	ref := in.ReferenceOrNow()

	if o.model != nil {
		rec, err := o.model.Extract(ctx, text, ref)
		if err == nil {
			o.metrics.ExtractionsTotal.WithLabelValues(string(domain.MethodModel), "success").Inc()
			o.metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
			return rec, nil
		}
		o.logger.Warn("model extraction failed, falling back to pattern rules", "error", err)
		o.metrics.ModelFallbacks.Inc()
	}

	cand, fraction := o.pattern.Extract(text, ref)
	rec := domain.IncidentRecord{
		OccurrenceTime:   cand.OccurrenceTime,
		Location:         cand.Location,
		IncidentType:     cand.IncidentType,
		Impact:           cand.Impact,
		ExtractionMethod: domain.MethodPattern,
		Confidence:       fraction,
	}

	o.metrics.ExtractionsTotal.WithLabelValues(string(domain.MethodPattern), "success").Inc()
	o.metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	return rec, nil
}
