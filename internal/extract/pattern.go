// Package extract implements the hybrid extraction pipeline: a model-based
// extractor tried first, a deterministic pattern extractor as fallback, an
// orchestrator that decides between them, and a batch coordinator.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/stark-ops/incident-parser/internal/domain"
)

// rule pairs a compiled pattern with the function that picks the extracted
// value out of its match groups. Rules for a field are tried in order; the
// first match wins.
type rule struct {
	re   *regexp.Regexp
	pick func(m []string) string
}

func capture(i int) func([]string) string {
	return func(m []string) string { return m[i] }
}

// placeName matches a capitalized place name, allowing Portuguese connectives
// ("Rio de Janeiro", "São Paulo").
const placeName = `[\p{Lu}][\p{L}]*(?:\s+(?:d[eoa]s?\s+)?[\p{Lu}][\p{L}]*)*`

var locationRules = []rule{
	// "no escritório de São Paulo", "da filial Rio de Janeiro", "no datacenter SP"
	{regexp.MustCompile(`(?:^|\s)(?:[Nn][oa]|[Ee]m|[Dd][oa])\s+(?:escritório|filial|sede|unidade|datacenter)\s+(?:d[eoa]\s+)?(` + placeName + `)`), capture(1)},
	// "em Brasília", "na Bahia"
	{regexp.MustCompile(`(?:^|\s)(?:[Ee]m|[Nn][oa]|in|at)\s+(` + placeName + `)`), capture(1)},
	// "local: sala de servidores"
	{regexp.MustCompile(`(?i)(?:^|\s)local[:\s]\s*([^,.;]+)`), capture(1)},
}

var typeRules = []rule{
	// "falha no servidor principal que afetou ..." -> "falha no servidor principal"
	{regexp.MustCompile(`(?i)(?:^|\s)((?:falha|erro|problema|interrupção|pane)\s+(?:n[oa]s?|d[eoa]s?|em)\s+.+?)(?:\s+que\s|\s+em\s|[,.;]|$)`), capture(1)},
	// "sistema offline no datacenter ..." -> "sistema offline"
	{regexp.MustCompile(`(?i)(?:^|\s)(sistema\s+(?:offline|indisponível|fora\s+do\s+ar|travado).*?)(?:\s+n[oa]\s|\s+por\s|[,.;]|$)`), capture(1)},
	// "database outage in ..." -> "database outage"
	{regexp.MustCompile(`(?i)\b((?:server|network|database|system|service)\s+(?:failure|outage|error|crash|down).*?)(?:\s+in\s|\s+at\s|[,.;]|$)`), capture(1)},
	{regexp.MustCompile(`(?i)\b((?:failure|outage|error|crash)\s+(?:of|in|on)\s+.+?)(?:\s+that\s|[,.;]|$)`), capture(1)},
}

var impactRules = []rule{
	{regexp.MustCompile(`(?i)\b(durou\s+[^,.;]+)`), capture(1)},
	{regexp.MustCompile(`(?i)\b(duração\s+de\s+[^,.;]+)`), capture(1)},
	{regexp.MustCompile(`(?i)\b(afetou\s+[^,.;]+)`), capture(1)},
	{regexp.MustCompile(`(?i)\b(indisponível\s+por\s+[^,.;]+)`), capture(1)},
	{regexp.MustCompile(`(?i)\b(ficou\s+[^,.;]+\s+por\s+[^,.;]+)`), capture(1)},
	{regexp.MustCompile(`(?i)\b(por\s+\d+\s+(?:horas?|minutos?|dias?|hours?|minutes?|days?))`), capture(1)},
	{regexp.MustCompile(`(?i)\b(manutenção\s+programada[^,.;]*)`), capture(1)},
	{regexp.MustCompile(`(?i)\b(affected\s+[^,.;]+)`), capture(1)},
	{regexp.MustCompile(`(?i)\b(down\s+for\s+[^,.;]+)`), capture(1)},
}

// PatternExtractor is the deterministic fallback: ordered keyword/pattern
// rules per field, no randomness, no external calls.
type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor { return &PatternExtractor{} }

// Extract matches each of the four fields independently against text and
// returns the candidate plus the fraction of fields matched. An unmatched
// field stays empty; fully unmatched input is a valid zero-fraction result,
// not a failure.
func (e *PatternExtractor) Extract(text string, ref time.Time) (domain.Candidate, float64) {
	text = normalizeWhitespace(text)

	var c domain.Candidate
	matched := 0

	if ts, err := domain.ResolveTime(text, ref); err == nil {
		c.OccurrenceTime = ts
		matched++
	}
	if v := firstMatch(locationRules, text); v != "" {
		c.Location = v
		matched++
	}
	if v := firstMatch(typeRules, text); v != "" {
		c.IncidentType = v
		matched++
	}
	if v := firstMatch(impactRules, text); v != "" {
		c.Impact = v
		matched++
	}

	return c, float64(matched) / 4
}

func firstMatch(rules []rule, text string) string {
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(r.pick(m))
		}
	}
	return ""
}

// normalizeWhitespace collapses runs of whitespace so rule patterns see a
// predictable single-spaced text.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
