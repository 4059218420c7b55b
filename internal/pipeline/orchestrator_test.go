package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/capability"
	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/observability"
)

type stubClassifier struct {
	result capability.ClassifierResult
	err    error
}

func (s *stubClassifier) Classify(context.Context, string, []string) (capability.ClassifierResult, error) {
	return s.result, s.err
}

type stubRetriever struct {
	results []capability.SearchResult
	err     error
	calls   int
}

func (s *stubRetriever) Search(_ context.Context, _, _ string, _ int, _ float64) ([]capability.SearchResult, error) {
	s.calls++
	return s.results, s.err
}

func newTestOrchestrator(classifier capability.Classifier, retriever capability.Retriever) *Orchestrator {
	return NewOrchestrator(
		classifier,
		retriever,
		NewPerformanceTracker(),
		observability.NewMetrics(),
		zap.NewNop(),
		config.PipelineConfig{
			StageTimeoutSeconds: 5,
			MaxSolutions:        5,
			MinSimilarity:       0.65,
			WideMinSimilarity:   0.35,
		},
		config.ClassifierConfig{Model: "standard-model", FastModel: "fast-model"},
		"/api/v1/review",
	)
}

func kbResult(id string, score float64) capability.SearchResult {
	return capability.SearchResult{
		ID:             id,
		Title:          "KB " + id,
		ContentSnippet: "1. First step\n2. Second step",
		Score:          score,
		Source:         "knowledge_base",
	}
}

func TestRunFullPipeline(t *testing.T) {
	classifier := &stubClassifier{result: capability.ClassifierResult{Category: "Email Issues", Confidence: 0.9, Reasoning: "match"}}
	retriever := &stubRetriever{results: []capability.SearchResult{kbResult("kb-1", 0.8), kbResult("kb-2", 0.7)}}
	o := newTestOrchestrator(classifier, retriever)

	result, err := o.Run(context.Background(), TicketInput{
		Title:       "Outlook down",
		Description: strings.Repeat("Email client refuses to start after the last update. ", 4),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.TicketID)

	require.NotNil(t, result.Classification)
	assert.Equal(t, domain.CategoryEmailIssues, result.Classification.Category)
	assert.Equal(t, "Outlook", result.Classification.Subcategory)

	require.NotNil(t, result.PriorityPrediction)
	assert.Equal(t, domain.PriorityCritical, result.PriorityPrediction.Priority)

	assert.NotEmpty(t, result.RecommendedSolutions)

	// The heuristic priority confidence of 0.7 does not clear the strict
	// quality gate, so a full run still routes to review.
	require.NotNil(t, result.QAReview)
	assert.InDelta(t, 0.7, result.QAReview.QualityScore, 1e-9)
	assert.Equal(t, domain.StatusNeedsReview, result.Status)
	assert.True(t, result.NeedsHumanReview)
	require.NotNil(t, result.DraftAnalysis)
	assert.Equal(t, "/api/v1/review/"+result.TicketID, result.ReviewURL)

	assert.Equal(t, []string{
		"classification_completed",
		"priority_prediction_completed",
		"solution_recommendation_completed",
		"qa_review_completed",
	}, result.Metadata.ProcessingSteps)
	assert.Equal(t, "staged", result.Metadata.Workflow)
	assert.Equal(t, "standard-model", result.Metadata.ModelUsed)
	assert.Equal(t, 2, result.Metadata.TotalDocumentsRetrieved)
	assert.InDelta(t, 0.8, result.Metadata.TopSimilarityScore, 1e-9)
	assert.Len(t, result.Metadata.AgentMetrics, 4)
}

func TestRunSkipPriorityBranch(t *testing.T) {
	classifier := &stubClassifier{result: capability.ClassifierResult{Category: "Email Issues", Confidence: 0.96}}
	retriever := &stubRetriever{results: []capability.SearchResult{kbResult("kb-1", 0.8)}}
	o := newTestOrchestrator(classifier, retriever)

	// Short ticket: is_simple holds.
	result, err := o.Run(context.Background(), TicketInput{Title: "Mail sync", Description: "iphone mail stuck"})
	require.NoError(t, err)

	assert.Nil(t, result.PriorityPrediction)
	assert.Contains(t, result.Metadata.ProcessingSteps, "skipped_priority_due_to_confidence")
	assert.Equal(t, "fast-model", result.Metadata.ModelUsed)

	// The missing priority caps the quality score below the gate.
	require.NotNil(t, result.QAReview)
	assert.InDelta(t, 0.7, result.QAReview.QualityScore, 1e-9)
	assert.Equal(t, domain.StatusNeedsReview, result.Status)
}

func TestRunNoSkipWhenTicketLong(t *testing.T) {
	classifier := &stubClassifier{result: capability.ClassifierResult{Category: "Email Issues", Confidence: 0.96}}
	retriever := &stubRetriever{results: []capability.SearchResult{kbResult("kb-1", 0.8)}}
	o := newTestOrchestrator(classifier, retriever)

	result, err := o.Run(context.Background(), TicketInput{
		Title:       "Mail sync",
		Description: strings.Repeat("long description ", 10),
	})
	require.NoError(t, err)
	assert.NotNil(t, result.PriorityPrediction)
	assert.NotContains(t, result.Metadata.ProcessingSteps, "skipped_priority_due_to_confidence")
}

func TestRunHITLBranch(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("model unavailable")}
	retriever := &stubRetriever{results: []capability.SearchResult{kbResult("kb-1", 0.8)}}
	o := newTestOrchestrator(classifier, retriever)

	result, err := o.Run(context.Background(), TicketInput{
		Title:       "Weird problem",
		Description: strings.Repeat("hard to describe ", 10),
	})
	require.NoError(t, err)

	// Degraded classification at 0.5 fails the gate even with priority and
	// solutions in place.
	require.NotNil(t, result.Classification)
	assert.Equal(t, domain.CategoryGeneralSupport, result.Classification.Category)
	assert.InDelta(t, 0.5, result.Classification.Confidence, 1e-9)
	assert.Contains(t, result.Metadata.ProcessingSteps, "classification_error")

	assert.Equal(t, domain.StatusNeedsReview, result.Status)
	assert.True(t, result.NeedsHumanReview)
	require.NotNil(t, result.DraftAnalysis)
	assert.Contains(t, result.DraftAnalysis.QAIssues, "Low classification confidence")
	assert.Equal(t, "/api/v1/review/"+result.TicketID, result.ReviewURL)
}

func TestRunRetrievalFailureUsesRunbook(t *testing.T) {
	classifier := &stubClassifier{result: capability.ClassifierResult{Category: "Network Issues", Confidence: 0.9}}
	retriever := &stubRetriever{err: errors.New("store offline")}
	o := newTestOrchestrator(classifier, retriever)

	result, err := o.Run(context.Background(), TicketInput{
		Title:       "WiFi drops",
		Description: strings.Repeat("wireless drops constantly in the west wing ", 4),
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.RecommendedSolutions)
	assert.Equal(t, "heuristic", result.RecommendedSolutions[0].Source)
	assert.Equal(t, "WiFi Connection Troubleshooting", result.RecommendedSolutions[0].Title)
	assert.Contains(t, result.Metadata.ProcessingSteps, "solutions_error")
}

func TestRunEmptyRetrievalWidensThenRunbook(t *testing.T) {
	classifier := &stubClassifier{result: capability.ClassifierResult{Category: "Database Issues", Confidence: 0.9}}
	retriever := &stubRetriever{results: nil}
	o := newTestOrchestrator(classifier, retriever)

	result, err := o.Run(context.Background(), TicketInput{
		Title:       "Obscure database trouble",
		Description: strings.Repeat("nothing in the knowledge base matches this ", 4),
	})
	require.NoError(t, err)

	// Both tiers queried, then the runbook guaranteed a solution.
	assert.Equal(t, 2, retriever.calls)
	require.NotEmpty(t, result.RecommendedSolutions)
	assert.Equal(t, "heuristic", result.RecommendedSolutions[0].Source)
}

func TestRunCancelledContext(t *testing.T) {
	classifier := &stubClassifier{result: capability.ClassifierResult{Category: "Email Issues", Confidence: 0.9}}
	retriever := &stubRetriever{}
	o := newTestOrchestrator(classifier, retriever)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, TicketInput{Title: "a", Description: "b"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyOnly(t *testing.T) {
	classifier := &stubClassifier{result: capability.ClassifierResult{Category: "Printer Problems", Confidence: 0.85}}
	o := newTestOrchestrator(classifier, &stubRetriever{})

	classification, err := o.ClassifyOnly(context.Background(), TicketInput{Title: "Printer", Description: "printer jam"})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryPrinterProblems, classification.Category)
	assert.NotEmpty(t, classification.Subcategory)
}

func TestFallbackAnalysis(t *testing.T) {
	o := newTestOrchestrator(&stubClassifier{}, &stubRetriever{})

	result := o.fallbackAnalysis(context.Background(), "tid-1", TicketInput{
		Title:       "server down",
		Description: "nobody can reach the file server",
	})

	assert.Equal(t, "tid-1", result.TicketID)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Equal(t, domain.CategoryGeneralSupport, result.Classification.Category)
	assert.Equal(t, domain.PriorityCritical, result.PriorityPrediction.Priority)
	assert.NotEmpty(t, result.RecommendedSolutions)
	assert.Equal(t, domain.QAFallback, result.QAReview.Status)
	assert.Equal(t, "fallback", result.Metadata.Workflow)
}

func TestFallbackAnalysisKeywordTiers(t *testing.T) {
	o := newTestOrchestrator(&stubClassifier{}, &stubRetriever{})

	cases := []struct {
		text     string
		expected domain.PriorityLevel
	}{
		{"security breach reported", domain.PriorityCritical},
		{"printer not working", domain.PriorityHigh},
		{"weird issue with fonts", domain.PriorityMedium},
		{"how to book a room", domain.PriorityLow},
		{"everything is fine, checking in", domain.PriorityMedium},
	}
	for _, tc := range cases {
		result := o.fallbackAnalysis(context.Background(), "tid", TicketInput{Title: tc.text, Description: "x"})
		assert.Equal(t, tc.expected, result.PriorityPrediction.Priority, tc.text)
	}
}

func TestTrackerRecordsDuringRun(t *testing.T) {
	classifier := &stubClassifier{result: capability.ClassifierResult{Category: "Email Issues", Confidence: 0.9}}
	retriever := &stubRetriever{results: []capability.SearchResult{kbResult("kb-1", 0.8)}}
	o := newTestOrchestrator(classifier, retriever)

	result, err := o.Run(context.Background(), TicketInput{
		Title:       "Mail",
		Description: strings.Repeat("cannot send email from outlook ", 5),
	})
	require.NoError(t, err)

	stats := o.Tracker().AllStats()
	assert.Equal(t, 3, stats.TotalPredictions)

	record, err := o.Tracker().AttachFeedback(result.TicketID, AgentClassifier, "Email Issues", "agent")
	require.NoError(t, err)
	assert.True(t, record.Correct)
}
