package domain

import (
	"strings"
	"time"
)

// Candidate holds the four extracted fields before validation. Extractors
// produce Candidates; only the validator turns them into IncidentRecords.
type Candidate struct {
	OccurrenceTime string
	Location       string
	IncidentType   string
	Impact         string
}

// trimmed coerces whitespace-only values to empty and strips padding.
func (c Candidate) trimmed() Candidate {
	return Candidate{
		OccurrenceTime: strings.TrimSpace(c.OccurrenceTime),
		Location:       strings.TrimSpace(c.Location),
		IncidentType:   strings.TrimSpace(c.IncidentType),
		Impact:         strings.TrimSpace(c.Impact),
	}
}

// Validate checks a candidate leniently: a missing incident type is rejected,
// but a non-canonical occurrence time is cleared rather than reported.
// ExtractionMethod and Confidence are left for the caller to attach.
func Validate(c Candidate) (IncidentRecord, error) {
	c = c.trimmed()
	if c.IncidentType == "" {
		return IncidentRecord{}, &ValidationError{Field: "incident_type", Reason: "must not be empty"}
	}
	if !canonicalTime(c.OccurrenceTime) {
		c.OccurrenceTime = ""
	}
	return record(c), nil
}

// ValidateStrict checks a candidate strictly: both a missing incident type
// and a non-canonical occurrence time are reported. The model extractor uses
// this mode to decide how far to trust the model's output.
func ValidateStrict(c Candidate) (IncidentRecord, error) {
	c = c.trimmed()
	if c.IncidentType == "" {
		return IncidentRecord{}, &ValidationError{Field: "incident_type", Reason: "must not be empty"}
	}
	if !canonicalTime(c.OccurrenceTime) {
		return IncidentRecord{}, &ValidationError{Field: "occurrence_time", Reason: "not in " + TimeLayout + " format"}
	}
	return record(c), nil
}

func record(c Candidate) IncidentRecord {
	return IncidentRecord{
		OccurrenceTime: c.OccurrenceTime,
		Location:       c.Location,
		IncidentType:   c.IncidentType,
		Impact:         c.Impact,
	}
}

// canonicalTime reports whether s is empty or a valid TimeLayout timestamp.
// An empty occurrence time is allowed; a malformed one is not.
func canonicalTime(s string) bool {
	if s == "" {
		return true
	}
	t, err := time.Parse(TimeLayout, s)
	return err == nil && t.Format(TimeLayout) == s
}
