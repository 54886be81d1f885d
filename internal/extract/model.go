package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stark-ops/incident-parser/internal/domain"
)

// ModelConfig tunes the confidence attached to model-path records.
type ModelConfig struct {
	// Confidence is attached to replies that pass strict validation.
	Confidence float64
	// DegradedConfidence is attached when the model produced a malformed
	// occurrence time that strict validation cleared.
	DegradedConfidence float64
}

// ModelExtractor asks the completion service to emit the four fields as JSON
// and validates the reply strictly. It never returns a partially-parsed
// record as success: any failure surfaces as *domain.ExtractionError so the
// orchestrator can fall back.
type ModelExtractor struct {
	client domain.Completer
	cfg    ModelConfig
	logger *slog.Logger
}

func NewModelExtractor(client domain.Completer, cfg ModelConfig, logger *slog.Logger) *ModelExtractor {
	return &ModelExtractor{client: client, cfg: cfg, logger: logger}
}

// modelReply is the JSON shape the prompt instructs the model to emit.
type modelReply struct {
	OccurrenceTime string `json:"occurrence_time"`
	Location       string `json:"location"`
	IncidentType   string `json:"incident_type"`
	Impact         string `json:"impact"`
}

// Extract runs one model extraction attempt against text. A malformed reply
// gets a single retry with a simplified prompt; network-level failures are
// not retried here, pattern fallback is the retry.
func (m *ModelExtractor) Extract(ctx context.Context, text string, ref time.Time) (domain.IncidentRecord, error) {
	text = normalizeWhitespace(text)

	reply, err := m.client.Complete(ctx, buildPrompt(text, ref))
	if err != nil {
		return domain.IncidentRecord{}, err
	}

	rec, err := m.parseReply(reply)
	if err == nil {
		return rec, nil
	}

	var extErr *domain.ExtractionError
	if errors.As(err, &extErr) && extErr.Network {
		return domain.IncidentRecord{}, err
	}

	// Malformed reply: one retry with a shorter, stricter prompt.
	m.logger.Warn("model reply malformed, retrying with simplified prompt", "error", err)
	reply, err = m.client.Complete(ctx, buildRetryPrompt(text, ref))
	if err != nil {
		return domain.IncidentRecord{}, err
	}
	return m.parseReply(reply)
}

// parseReply decodes the model's raw text into a validated record. Strict
// validation failures on the occurrence time degrade confidence rather than
// discard the reply; a missing incident type is always a hard failure.
func (m *ModelExtractor) parseReply(reply string) (domain.IncidentRecord, error) {
	payload, ok := extractJSON(reply)
	if !ok {
		return domain.IncidentRecord{}, &domain.ExtractionError{Reason: "no JSON object in model reply"}
	}

	var parsed modelReply
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return domain.IncidentRecord{}, &domain.ExtractionError{Reason: "decode model reply", Err: err}
	}

	cand := domain.Candidate{
		OccurrenceTime: parsed.OccurrenceTime,
		Location:       parsed.Location,
		IncidentType:   parsed.IncidentType,
		Impact:         parsed.Impact,
	}

	rec, err := domain.ValidateStrict(cand)
	if err == nil {
		rec.ExtractionMethod = domain.MethodModel
		rec.Confidence = m.cfg.Confidence
		return rec, nil
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) && vErr.Field == "occurrence_time" {
		cand.OccurrenceTime = ""
		rec, err = domain.ValidateStrict(cand)
		if err == nil {
			rec.ExtractionMethod = domain.MethodModel
			rec.Confidence = m.cfg.DegradedConfidence
			return rec, nil
		}
	}

	return domain.IncidentRecord{}, &domain.ExtractionError{Reason: "model reply failed validation", Err: err}
}

// extractJSON pulls the outermost JSON object out of a reply, tolerating
// code fences and chatter around it.
func extractJSON(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return reply[start : end+1], true
}

func buildPrompt(text string, ref time.Time) string {
	return fmt.Sprintf(`Extract incident information from the following description and return ONLY a valid JSON object with these exact fields:

- occurrence_time: date and time in YYYY-MM-DD HH:MM format. Resolve relative expressions like "ontem" (yesterday) or "hoje" (today) against the reference instant %s. If only a date is mentioned, use 00:00 for the time. If no date or time is mentioned, use an empty string.
- location: where the incident occurred, empty string if not mentioned.
- incident_type: what happened (type or category of incident).
- impact: consequences, including duration and affected systems, empty string if not mentioned.

Description: %q

Return ONLY the JSON object, no other text:`, ref.Format(domain.TimeLayout), text)
}

// buildRetryPrompt is the simplified second attempt used when the first
// reply could not be parsed.
func buildRetryPrompt(text string, ref time.Time) string {
	return fmt.Sprintf(`Reply with one JSON object only, no prose, keys "occurrence_time" (YYYY-MM-DD HH:MM, reference instant %s), "location", "incident_type", "impact".

Description: %q`, ref.Format(domain.TimeLayout), text)
}
