package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// fallbackPriorityKeywords is evaluated tier by tier, first hit wins.
var fallbackPriorityKeywords = []struct {
	level    domain.PriorityLevel
	hours    float64
	keywords []string
}{
	{domain.PriorityCritical, 2, []string{"server down", "system crash", "security breach"}},
	{domain.PriorityHigh, 8, []string{"error", "not working", "urgent"}},
	{domain.PriorityMedium, 24, []string{"issue", "problem", "help"}},
	{domain.PriorityLow, 72, []string{"question", "request", "how to"}},
}

// fallbackAnalysis is the keyword-only path used when the staged workflow
// itself fails. It performs no model calls and must never panic; retrieval
// is attempted best effort and any failure degrades to runbook steps.
func (o *Orchestrator) fallbackAnalysis(ctx context.Context, ticketID string, input TicketInput) *domain.AnalysisResult {
	start := time.Now()
	text := input.Title + " " + input.Description
	lower := strings.ToLower(text)

	classification := &domain.Classification{
		Category:    domain.CategoryGeneralSupport,
		Subcategory: "Unknown",
		Confidence:  0.7,
		Reasoning:   "Fallback classification",
	}

	priority := &domain.PriorityPrediction{
		Priority:                 domain.PriorityMedium,
		EstimatedResolutionHours: 24,
		Confidence:               0.8,
		Factors:                  []string{"Keyword-based analysis"},
	}
	for _, tier := range fallbackPriorityKeywords {
		if containsAny(lower, tier.keywords) {
			priority.Priority = tier.level
			priority.EstimatedResolutionHours = tier.hours
			break
		}
	}

	var solutions []domain.Solution
	if o.retriever != nil && ctx.Err() == nil {
		searchCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout())
		results, err := o.retriever.Search(searchCtx, text, "", 3, o.cfg.WideMinSimilarity)
		cancel()
		if err != nil {
			o.logger.Warn("fallback retrieval failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
		for _, r := range results {
			solutions = append(solutions, solutionFromSearch(r))
		}
	}
	if len(solutions) == 0 {
		solutions = []domain.Solution{runbookSolution(domain.CategoryGeneralSupport, text)}
	}

	lowConfidence, summary, actions := summarizeSolutions(solutions)

	return &domain.AnalysisResult{
		TicketID:             ticketID,
		Classification:       classification,
		PriorityPrediction:   priority,
		RecommendedSolutions: solutions,
		SolutionSummary:      summary,
		ActionItems:          actions,
		LowConfidence:        lowConfidence,
		QAReview: &domain.QAReview{
			QualityScore: 0.7,
			Completeness: "Basic analysis completed",
			Status:       domain.QAFallback,
		},
		Status:           domain.StatusCompleted,
		ProcessingTimeMS: float64(time.Since(start).Milliseconds()),
		Metadata: domain.AnalysisMetadata{
			Workflow:        "fallback",
			AgentsExecuted:  []string{},
			ProcessingSteps: []string{"fallback_analysis"},
		},
	}
}
