package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// classifyStage derives the ticket complexity flags, selects the advisory
// model, and classifies the ticket. A classifier failure degrades to a
// low-confidence General Support classification rather than aborting the run.
func (o *Orchestrator) classifyStage(ctx context.Context, state *domain.TicketState) {
	start := time.Now()
	text := state.Text()

	state.TicketLength = len(text)
	state.IsSimple = state.TicketLength < 100
	state.SelectedModel = o.selectModel(state)

	categories := domain.Categories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}

	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout())
	defer cancel()

	res, err := o.classifier.Classify(stageCtx, text, names)
	if err != nil {
		o.logger.Warn("classification failed, using degraded default",
			zap.String("ticket_id", state.TicketID), zap.Error(err))
		state.Classification = &domain.Classification{
			Category:    domain.CategoryGeneralSupport,
			Subcategory: "Needs Review",
			Confidence:  0.5,
			Reasoning:   fmt.Sprintf("Classification error: %v", err),
		}
		o.recordStage(state, domain.StageMetric{
			Agent:            AgentClassifier,
			ProcessingTimeMS: msSince(start),
			Detail:           map[string]any{"model_used": state.SelectedModel},
		}, "classification_error")
		return
	}

	category := domain.CategoryGeneralSupport
	for _, c := range categories {
		if string(c) == res.Category {
			category = c
			break
		}
	}
	subcategory := ResolveSubcategory(category, text)
	reasoning := res.Reasoning
	if reasoning == "" {
		reasoning = fmt.Sprintf("Classified as %s/%s based on keyword analysis", category, subcategory)
	}
	state.Classification = &domain.Classification{
		Category:    category,
		Subcategory: subcategory,
		Confidence:  res.Confidence,
		Reasoning:   reasoning,
	}

	elapsed := msSince(start)
	o.tracker.Record(AgentClassifier, state.TicketID, string(category), res.Confidence,
		map[string]any{"processing_time_ms": elapsed, "model": state.SelectedModel})
	o.recordStage(state, domain.StageMetric{
		Agent:            AgentClassifier,
		ProcessingTimeMS: elapsed,
		Detail:           map[string]any{"model_used": state.SelectedModel},
	}, "classification_completed")
}

// ClassifyOnly runs just the classification stage for one ticket, outside a
// full pipeline run. Shares the stage's degradation behavior.
func (o *Orchestrator) ClassifyOnly(ctx context.Context, input TicketInput) (*domain.Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := &domain.TicketState{
		TicketID:    uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Requester:   input.Requester,
	}
	o.classifyStage(ctx, state)
	return state.Classification, nil
}

// selectModel picks the cheaper model for short tickets. Advisory metadata
// only; routing never reads it.
func (o *Orchestrator) selectModel(state *domain.TicketState) string {
	if state.IsSimple {
		return o.models.FastModel
	}
	return o.models.Model
}
