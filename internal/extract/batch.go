package extract

import (
	"context"
	"log/slog"
	"sync"

	"github.com/stark-ops/incident-parser/internal/domain"
	"github.com/stark-ops/incident-parser/internal/observability"
)

// BatchCoordinator applies the orchestrator to a sequence of incidents with
// a bounded number of concurrent workers. Items are independent: one item's
// failure never aborts the batch, and output order always matches input
// order regardless of completion order.
type BatchCoordinator struct {
	orch    *Orchestrator
	workers int
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewBatchCoordinator(orch *Orchestrator, workers int, logger *slog.Logger, metrics *observability.Metrics) *BatchCoordinator {
	if workers < 1 {
		workers = 1
	}
	return &BatchCoordinator{
		orch:    orch,
		workers: workers,
		logger:  logger,
		metrics: metrics,
	}
}

// Process extracts every item and returns one outcome per input, in input
// order. Cancelling ctx abandons not-yet-started items cleanly: they are
// marked with the context error while already-completed results are kept.
func (b *BatchCoordinator) Process(ctx context.Context, items []domain.RawIncident) domain.BatchResult {
	b.metrics.BatchSize.Observe(float64(len(items)))

	outcomes := make([]domain.Outcome, len(items))
	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup

	for i, item := range items {
		if ctx.Err() != nil {
			outcomes[i] = domain.Outcome{Index: i, Input: item, Err: ctx.Err()}
			continue
		}

		wg.Add(1)
		go func(i int, item domain.RawIncident) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rec, err := b.orch.Extract(ctx, item)
			if err != nil {
				b.logger.Warn("batch item failed", "index", i, "error", err)
			}
			// Each goroutine writes only its own slot; no shared counters.
			outcomes[i] = domain.Outcome{Index: i, Input: item, Record: rec, Err: err}
		}(i, item)
	}

	wg.Wait()
	return domain.BatchResult{Outcomes: outcomes}
}
