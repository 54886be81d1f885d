package extract_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stark-ops/incident-parser/internal/domain"
	"github.com/stark-ops/incident-parser/internal/extract"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCompleter replays scripted replies and errors, one per call.
type fakeCompleter struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)

	var reply string
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return reply, err
}

var modelCfg = extract.ModelConfig{Confidence: 0.9, DegradedConfidence: 0.6}

func newModelExtractor(c *fakeCompleter) *extract.ModelExtractor {
	return extract.NewModelExtractor(c, modelCfg, testLogger())
}

func TestModelExtractor_ValidReply(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"occurrence_time": "2025-09-06 14:00", "location": "São Paulo", "incident_type": "falha no servidor", "impact": "afetou o faturamento"}`,
	}}
	m := newModelExtractor(fake)

	rec, err := m.Extract(context.Background(), "Ontem às 14h houve falha no servidor", patternRef)

	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, domain.MethodModel, rec.ExtractionMethod)
	assert.Equal(t, 0.9, rec.Confidence)
	assert.Equal(t, "2025-09-06 14:00", rec.OccurrenceTime)
	assert.Equal(t, "falha no servidor", rec.IncidentType)
}

func TestModelExtractor_ReplyWithCodeFences(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		"Here is the extraction:\n```json\n{\"occurrence_time\": \"\", \"location\": \"Brasília\", \"incident_type\": \"falha no banco de dados\", \"impact\": \"\"}\n```",
	}}
	m := newModelExtractor(fake)

	rec, err := m.Extract(context.Background(), "Falha no banco de dados em Brasília", patternRef)

	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "Brasília", rec.Location)
	assert.Equal(t, 0.9, rec.Confidence)
}

func TestModelExtractor_MalformedTimeDegradesConfidence(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"occurrence_time": "yesterday at 2pm", "location": "", "incident_type": "server failure", "impact": ""}`,
	}}
	m := newModelExtractor(fake)

	rec, err := m.Extract(context.Background(), "server failure yesterday", patternRef)

	require.NoError(t, err)
	assert.Empty(t, rec.OccurrenceTime)
	assert.Equal(t, 0.6, rec.Confidence)
	assert.Equal(t, domain.MethodModel, rec.ExtractionMethod)
}

func TestModelExtractor_RetriesOnceOnMalformedReply(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		"I could not find any incident information, sorry!",
		`{"occurrence_time": "2025-09-06 14:00", "location": "", "incident_type": "falha no servidor", "impact": ""}`,
	}}
	m := newModelExtractor(fake)

	rec, err := m.Extract(context.Background(), "Ontem às 14h houve falha no servidor", patternRef)

	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls)
	assert.Equal(t, "falha no servidor", rec.IncidentType)
	// The retry prompt is the simplified one, not a repeat of the first.
	require.Len(t, fake.prompts, 2)
	assert.NotEqual(t, fake.prompts[0], fake.prompts[1])
}

func TestModelExtractor_SecondMalformedReplyFails(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		"no json here",
		`{"occurrence_time": "", "location": "", "incident_type": "", "impact": ""}`,
	}}
	m := newModelExtractor(fake)

	_, err := m.Extract(context.Background(), "Ontem às 14h houve falha no servidor", patternRef)

	assert.Equal(t, 2, fake.calls)
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.False(t, extErr.Network)
}

func TestModelExtractor_NetworkErrorNotRetried(t *testing.T) {
	netErr := &domain.ExtractionError{Reason: "model request", Network: true}
	fake := &fakeCompleter{errs: []error{netErr}}
	m := newModelExtractor(fake)

	_, err := m.Extract(context.Background(), "Ontem às 14h houve falha no servidor", patternRef)

	assert.Equal(t, 1, fake.calls)
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.True(t, extErr.Network)
}

func TestModelExtractor_MissingIncidentTypeFails(t *testing.T) {
	reply := `{"occurrence_time": "2025-09-06 14:00", "location": "São Paulo", "incident_type": "", "impact": ""}`
	fake := &fakeCompleter{replies: []string{reply, reply}}
	m := newModelExtractor(fake)

	_, err := m.Extract(context.Background(), "Ontem às 14h algo aconteceu", patternRef)

	assert.Equal(t, 2, fake.calls)
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestModelExtractor_PromptEmbedsReference(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"occurrence_time": "", "location": "", "incident_type": "falha", "impact": ""}`,
	}}
	m := newModelExtractor(fake)

	ref := time.Date(2025, time.September, 7, 9, 0, 0, 0, time.UTC)
	_, err := m.Extract(context.Background(), "falha geral", ref)

	require.NoError(t, err)
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "2025-09-07 09:00")
	assert.Contains(t, fake.prompts[0], "falha geral")
}
