// Command parsecli runs the extraction pipeline from the command line.
//
// Usage:
//
//	parsecli -query "Ontem às 14h houve falha no servidor"
//	parsecli -file incidents.txt
//	parsecli -selftest
//	parsecli                  (interactive mode)
//
// The -ref flag overrides the reference instant used to resolve relative
// dates ("2025-09-07 09:00"); it defaults to now. The model endpoint comes
// from OLLAMA_URL; leave it unset to exercise the pattern path only.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stark-ops/incident-parser/internal/adapter/ollama"
	"github.com/stark-ops/incident-parser/internal/config"
	"github.com/stark-ops/incident-parser/internal/domain"
	"github.com/stark-ops/incident-parser/internal/extract"
	"github.com/stark-ops/incident-parser/internal/observability"
)

func main() {
	query := flag.String("query", "", "single incident description to parse")
	file := flag.String("file", "", "file of newline-delimited incident descriptions")
	selftest := flag.Bool("selftest", false, "run the fixed self-test cases and report method/confidence")
	model := flag.String("model", "", "override the model identifier from OLLAMA_MODEL")
	ref := flag.String("ref", "", "reference instant for relative dates, format "+domain.TimeLayout)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *model != "" {
		cfg.OllamaModel = *model
	}

	reference := time.Time{}
	if *ref != "" {
		reference, err = time.Parse(domain.TimeLayout, *ref)
		if err != nil {
			fmt.Fprintf(os.Stderr, "-ref must use format %s\n", domain.TimeLayout)
			os.Exit(1)
		}
	}

	logger := observability.NewLogger("warn", "text")
	metrics := observability.NewMetricsForTesting()

	var modeler extract.Modeler
	if cfg.ModelEnabled() {
		client := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.ModelTimeout, logger, metrics)
		completer := ollama.NewCachedCompleter(client, cfg.CacheSize, metrics)
		modeler = extract.NewModelExtractor(completer, extract.ModelConfig{
			Confidence:         cfg.ModelConfidence,
			DegradedConfidence: cfg.ModelConfidenceDegraded,
		}, logger)
	}
	orch := extract.NewOrchestrator(modeler, extract.NewPatternExtractor(), logger, metrics)
	batch := extract.NewBatchCoordinator(orch, cfg.BatchWorkers, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var code int
	switch {
	case *selftest:
		code = runSelfTest(ctx, orch)
	case *query != "":
		code = runQuery(ctx, orch, *query, reference)
	case *file != "":
		code = runBatchFile(ctx, batch, *file, reference)
	default:
		code = runInteractive(ctx, orch, reference)
	}
	os.Exit(code)
}

func runQuery(ctx context.Context, orch *extract.Orchestrator, text string, ref time.Time) int {
	rec, err := orch.Extract(ctx, domain.RawIncident{Text: text, Reference: ref})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	printRecord(rec)
	return 0
}

func runBatchFile(ctx context.Context, coord *extract.BatchCoordinator, path string, ref time.Time) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		return 1
	}

	var items []domain.RawIncident
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, domain.RawIncident{Text: line, Reference: ref})
	}

	result := coord.Process(ctx, items)
	for _, o := range result.Outcomes {
		fmt.Printf("--- incident %d: %s\n", o.Index+1, o.Input.Text)
		if o.Err != nil {
			fmt.Printf("error: %v\n", o.Err)
			continue
		}
		printRecord(o.Record)
	}

	fmt.Printf("\n%d incidents: %d succeeded (%d via pattern fallback), %d failed\n",
		len(result.Outcomes), result.Succeeded(), result.FellBack(), result.Failed())
	if result.Failed() > 0 {
		return 1
	}
	return 0
}

// runSelfTest replays a fixed set of known inputs and reports which
// extraction method and confidence served each one. Run it with OLLAMA_URL
// unset to verify fallback behavior.
func runSelfTest(ctx context.Context, orch *extract.Orchestrator) int {
	cases := make([]domain.RawIncident, 0, len(domain.Examples())+2)
	for _, ex := range domain.Examples() {
		cases = append(cases, domain.RawIncident{Text: ex.Input, Reference: domain.ExampleReference()})
	}
	// Inputs that must not produce a record.
	cases = append(cases,
		domain.RawIncident{Text: "Hello world", Reference: domain.ExampleReference()},
		domain.RawIncident{Text: "   ", Reference: domain.ExampleReference()},
	)

	fmt.Println("=== Incident Parser Self-Test ===")
	fmt.Printf("model path: %v\n\n", orch.ModelEnabled())

	failed := 0
	for i, in := range cases {
		label := in.Text
		if strings.TrimSpace(label) == "" {
			label = "(whitespace only)"
		}
		fmt.Printf("[%d] %s\n", i+1, label)

		rec, err := orch.Extract(ctx, in)
		if err != nil {
			fmt.Printf("    -> failure: %v\n\n", err)
			if strings.TrimSpace(in.Text) != "" {
				failed++
			}
			continue
		}
		fmt.Printf("    -> method=%s confidence=%.2f time=%q type=%q\n\n",
			rec.ExtractionMethod, rec.Confidence, rec.OccurrenceTime, rec.IncidentType)
	}

	if failed > 0 {
		fmt.Printf("self-test FAILED: %d unexpected failures\n", failed)
		return 1
	}
	fmt.Println("self-test complete")
	return 0
}

func runInteractive(ctx context.Context, orch *extract.Orchestrator, ref time.Time) int {
	fmt.Println("Incident parser. Enter a description, or quit/exit/sair to leave.")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nincident> ")
		if !scanner.Scan() {
			fmt.Println()
			return 0
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit", "bye", "sair":
			return 0
		case "":
			continue
		}

		rec, err := orch.Extract(ctx, domain.RawIncident{Text: line, Reference: ref})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printRecord(rec)
	}
}

func printRecord(rec domain.IncidentRecord) {
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode record: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
