// Package worker runs bounded-concurrency batch analysis.
package worker

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/pipeline"
)

// BatchItem pairs one result with the index of the input ticket it belongs
// to, so callers can re-associate out-of-order completions.
type BatchItem struct {
	BatchIndex int                    `json:"batch_index"`
	TicketID   string                 `json:"ticket_id,omitempty"`
	Result     *domain.AnalysisResult `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Runner is the single-ticket analysis entry point the batch fans out to.
type Runner interface {
	Analyze(ctx context.Context, input pipeline.TicketInput) (*domain.AnalysisResult, error)
}

// BatchProcessor fans a list of tickets out over a bounded worker group.
// Per-ticket failures are captured in the item, not returned from Process;
// only context cancellation aborts the whole batch.
type BatchProcessor struct {
	runner      Runner
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor builds a processor with the given fan-out limit.
func NewBatchProcessor(runner Runner, concurrency int, logger *zap.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &BatchProcessor{runner: runner, concurrency: concurrency, logger: logger}
}

// Process analyzes every ticket and returns items in input order.
func (p *BatchProcessor) Process(ctx context.Context, inputs []pipeline.TicketInput) ([]BatchItem, error) {
	items := make([]BatchItem, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := p.runner.Analyze(gctx, input)
			item := BatchItem{BatchIndex: i}
			if err != nil {
				p.logger.Warn("batch item failed", zap.Int("batch_index", i), zap.Error(err))
				item.Error = err.Error()
			} else {
				item.TicketID = result.TicketID
				item.Result = result
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
