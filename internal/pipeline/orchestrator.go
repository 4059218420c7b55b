// Package pipeline implements the multi-stage ticket analysis workflow:
// classification, adaptive priority prediction, knowledge-base solution
// recommendation, and a confidence-gated quality review that routes
// low-quality runs to human review.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/capability"
	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/observability"
)

// TicketInput is the validated request a pipeline run starts from.
type TicketInput struct {
	Title             string
	Description       string
	Requester         *domain.RequesterInfo
	AdditionalContext map[string]string
}

// Orchestrator drives the stage sequence and owns the branch decisions.
// Stages degrade locally; only a failure in the orchestration logic itself
// abandons the run to the keyword-only fallback path.
type Orchestrator struct {
	classifier capability.Classifier
	retriever  capability.Retriever
	tracker    *PerformanceTracker
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.PipelineConfig
	models     config.ClassifierConfig
	reviewBase string
}

// NewOrchestrator wires the pipeline against its capabilities.
func NewOrchestrator(
	classifier capability.Classifier,
	retriever capability.Retriever,
	tracker *PerformanceTracker,
	metrics *observability.Metrics,
	logger *zap.Logger,
	cfg config.PipelineConfig,
	models config.ClassifierConfig,
	reviewBase string,
) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		retriever:  retriever,
		tracker:    tracker,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		models:     models,
		reviewBase: reviewBase,
	}
}

// Tracker exposes the prediction log for feedback and reporting.
func (o *Orchestrator) Tracker() *PerformanceTracker {
	return o.tracker
}

// Run executes the full analysis pipeline for one ticket. Context
// cancellation between stages aborts the run with ctx.Err(); a panic in the
// orchestration logic falls back to the keyword-only path instead of
// propagating.
func (o *Orchestrator) Run(ctx context.Context, input TicketInput) (result *domain.AnalysisResult, err error) {
	ticketID := uuid.NewString()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline orchestration failed, using fallback analysis",
				zap.String("ticket_id", ticketID), zap.Any("panic", r))
			result = o.fallbackAnalysis(ctx, ticketID, input)
			err = nil
		}
		if result != nil {
			o.metrics.RecordAnalysis(string(result.Status))
		}
	}()

	state := &domain.TicketState{
		TicketID:          ticketID,
		Title:             input.Title,
		Description:       input.Description,
		Requester:         input.Requester,
		AdditionalContext: input.AdditionalContext,
		Status:            domain.StatusProcessing,
	}

	o.logger.Info("starting ticket analysis",
		zap.String("ticket_id", ticketID), zap.Int("title_len", len(input.Title)))

	o.classifyStage(ctx, state)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if o.shouldSkipPriority(state) {
		o.logger.Info("high confidence simple ticket, skipping priority stage",
			zap.String("ticket_id", ticketID))
		state.ProcessingSteps = append(state.ProcessingSteps, "skipped_priority_due_to_confidence")
	} else {
		o.prioritizeStage(state)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.recommendStage(ctx, state)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.qaStage(state)

	return o.assemble(state, time.Since(start)), nil
}

// shouldSkipPriority is the adaptive routing test after classification.
func (o *Orchestrator) shouldSkipPriority(state *domain.TicketState) bool {
	return state.Classification != nil &&
		state.Classification.Confidence > 0.95 &&
		state.IsSimple
}

// prioritizeStage runs the deterministic priority heuristic.
func (o *Orchestrator) prioritizeStage(state *domain.TicketState) {
	start := time.Now()

	var requester domain.RequesterInfo
	if state.Requester != nil {
		requester = *state.Requester
	}
	pred := PredictPriority(state.Text(), requester)
	state.PriorityPrediction = &pred

	elapsed := msSince(start)
	o.tracker.Record(AgentPriorityPredictor, state.TicketID, string(pred.Priority), pred.Confidence,
		map[string]any{"processing_time_ms": elapsed})
	o.recordStage(state, domain.StageMetric{
		Agent:            AgentPriorityPredictor,
		ProcessingTimeMS: elapsed,
	}, "priority_prediction_completed")
}

// recommendStage retrieves solutions, degrading to runbook steps on any
// retrieval failure so the solution list is never empty.
func (o *Orchestrator) recommendStage(ctx context.Context, state *domain.TicketState) {
	start := time.Now()

	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout())
	defer cancel()

	solutions, err := o.recommendSolutions(stageCtx, state)
	step := "solution_recommendation_completed"
	if err != nil {
		o.logger.Warn("solution retrieval failed, using runbook steps",
			zap.String("ticket_id", state.TicketID), zap.Error(err))
		var cat domain.TicketCategory
		if state.Classification != nil {
			cat = state.Classification.Category
		}
		solutions = []domain.Solution{runbookSolution(cat, state.Text())}
		step = "solutions_error"
	}
	state.RecommendedSolutions = solutions

	o.recordStage(state, domain.StageMetric{
		Agent:            AgentSolutionRecommender,
		ProcessingTimeMS: msSince(start),
		Detail:           map[string]any{"kb_results_count": len(solutions)},
	}, step)
}

// qaStage scores the combined outputs and applies the human-review gate.
func (o *Orchestrator) qaStage(state *domain.TicketState) {
	start := time.Now()

	review, issues := ReviewQuality(state.Classification, state.PriorityPrediction, state.RecommendedSolutions)
	state.QAReview = &review

	if review.QualityScore < approvalThreshold {
		state.NeedsHumanReview = true
		state.Status = domain.StatusNeedsReview
		state.DraftAnalysis = &domain.DraftAnalysis{
			Classification:       state.Classification,
			PriorityPrediction:   state.PriorityPrediction,
			RecommendedSolutions: state.RecommendedSolutions,
			QAIssues:             issues,
		}
		state.ReviewURL = fmt.Sprintf("%s/%s", o.reviewBase, state.TicketID)
		o.logger.Warn("ticket flagged for human review",
			zap.String("ticket_id", state.TicketID), zap.Float64("quality_score", review.QualityScore))
	} else {
		state.Status = domain.StatusCompleted
	}

	elapsed := msSince(start)
	o.tracker.Record(AgentQAReviewer, state.TicketID, string(review.Status), review.QualityScore,
		map[string]any{"processing_time_ms": elapsed})
	o.recordStage(state, domain.StageMetric{
		Agent:            AgentQAReviewer,
		ProcessingTimeMS: elapsed,
		Detail:           map[string]any{"quality_score": review.QualityScore},
	}, "qa_review_completed")
}

// assemble builds the externally visible result from the final state.
func (o *Orchestrator) assemble(state *domain.TicketState, elapsed time.Duration) *domain.AnalysisResult {
	agents := make([]string, 0, 4)
	kbCount := 0
	topSimilarity := 0.0
	for _, m := range state.AgentMetrics {
		agents = append(agents, m.Agent)
	}
	for _, s := range state.RecommendedSolutions {
		if s.Source != "heuristic" {
			kbCount++
		}
		if s.SimilarityScore > topSimilarity {
			topSimilarity = s.SimilarityScore
		}
	}

	lowConfidence, summary, actions := summarizeSolutions(state.RecommendedSolutions)

	return &domain.AnalysisResult{
		TicketID:             state.TicketID,
		Classification:       state.Classification,
		PriorityPrediction:   state.PriorityPrediction,
		RecommendedSolutions: state.RecommendedSolutions,
		SolutionSummary:      summary,
		ActionItems:          actions,
		LowConfidence:        lowConfidence,
		QAReview:             state.QAReview,
		Status:               state.Status,
		NeedsHumanReview:     state.NeedsHumanReview,
		DraftAnalysis:        state.DraftAnalysis,
		ReviewURL:            state.ReviewURL,
		ProcessingTimeMS:     float64(elapsed.Milliseconds()),
		Metadata: domain.AnalysisMetadata{
			Workflow:                "staged",
			AgentsExecuted:          agents,
			TotalDocumentsRetrieved: kbCount,
			TopSimilarityScore:      topSimilarity,
			AgentMetrics:            state.AgentMetrics,
			ProcessingSteps:         state.ProcessingSteps,
			ModelUsed:               state.SelectedModel,
		},
	}
}

func (o *Orchestrator) recordStage(state *domain.TicketState, metric domain.StageMetric, step string) {
	state.AgentMetrics = append(state.AgentMetrics, metric)
	state.ProcessingSteps = append(state.ProcessingSteps, step)
	o.metrics.RecordStage(metric.Agent, metric.ProcessingTimeMS)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
