package domain

import (
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the canonical timestamp format for occurrence times:
// 24-hour clock, no timezone suffix. The timezone is implicit in the
// configured reference-instant source.
const TimeLayout = "2006-01-02 15:04"

// ExtractionMethod records which extractor produced a record.
type ExtractionMethod string

const (
	MethodModel   ExtractionMethod = "model"
	MethodPattern ExtractionMethod = "pattern"
)

// IncidentRecord is the canonical structured output of the extraction
// pipeline. Records are immutable value objects; no component mutates one
// after it is returned.
type IncidentRecord struct {
	OccurrenceTime   string           `json:"occurrence_time"` // canonical TimeLayout, empty if unresolvable
	Location         string           `json:"location"`
	IncidentType     string           `json:"incident_type"`
	Impact           string           `json:"impact"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	Confidence       float64          `json:"confidence"` // heuristic trust score in [0,1]
}

// RawIncident is a single free-text report plus the reference instant used
// to resolve relative dates. A zero Reference means "now" (see Now).
type RawIncident struct {
	Text      string
	Reference time.Time
}

// ReferenceOrNow returns the configured reference instant, falling back to
// the package clock when unset.
func (r RawIncident) ReferenceOrNow() time.Time {
	if r.Reference.IsZero() {
		return Now()
	}
	return r.Reference
}

// Outcome pairs one batch input with either its record or its failure.
type Outcome struct {
	Index  int
	Input  RawIncident
	Record IncidentRecord
	Err    error
}

// BatchResult is the ordered sequence of per-item outcomes. Aggregate counts
// are derived by scanning, never stored as shared mutable counters, so they
// stay correct regardless of how items were scheduled.
type BatchResult struct {
	Outcomes []Outcome
}

// Succeeded counts items that produced a record.
func (b BatchResult) Succeeded() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// FellBack counts successful items served by the pattern extractor.
func (b BatchResult) FellBack() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Err == nil && o.Record.ExtractionMethod == MethodPattern {
			n++
		}
	}
	return n
}

// Failed counts items that surfaced a failure.
func (b BatchResult) Failed() int {
	return len(b.Outcomes) - b.Succeeded()
}

// ErrUnresolved reports a date fragment that could not be parsed. Non-fatal:
// callers leave the field empty.
var ErrUnresolved = errors.New("time expression unresolved")

// ErrNoExtractableContent is the only failure that propagates to callers of
// the orchestrator: both strategies found nothing in genuinely empty input.
var ErrNoExtractableContent = errors.New("no extractable content")

// ValidationError reports a structurally invalid candidate record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExtractionError reports a failed model extraction attempt. Network is true
// for transport-level failures (unreachable, timeout), which are never
// retried by the model extractor; pattern fallback is the retry.
type ExtractionError struct {
	Reason  string
	Network bool
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
