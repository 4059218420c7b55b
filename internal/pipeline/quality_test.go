package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func solutionsOfLen(n int) []domain.Solution {
	out := make([]domain.Solution, n)
	for i := range out {
		out[i] = domain.Solution{SolutionID: "s", Title: "t", Steps: []string{"step"}}
	}
	return out
}

func TestReviewQualityApproved(t *testing.T) {
	review, issues := ReviewQuality(
		&domain.Classification{Confidence: 0.9},
		&domain.PriorityPrediction{Confidence: 0.8},
		solutionsOfLen(2),
	)
	assert.InDelta(t, 1.0, review.QualityScore, 1e-9)
	assert.Equal(t, domain.QAApproved, review.Status)
	assert.Equal(t, "complete", review.Completeness)
	assert.Empty(t, review.Improvements)
	assert.Empty(t, issues)
}

func TestReviewQualityLowClassificationConfidence(t *testing.T) {
	review, issues := ReviewQuality(
		&domain.Classification{Confidence: 0.5},
		&domain.PriorityPrediction{Confidence: 0.8},
		solutionsOfLen(2),
	)
	assert.InDelta(t, 0.7, review.QualityScore, 1e-9)
	assert.Equal(t, domain.QANeedsRevision, review.Status)
	assert.Contains(t, issues, "Low classification confidence")
	assert.Contains(t, review.Completeness, "Low classification confidence")
	assert.Contains(t, review.Improvements, "Consider manual review of low-confidence predictions")
}

func TestReviewQualitySkippedPriorityCapsScore(t *testing.T) {
	// A skipped priority stage contributes nothing, so even a perfect
	// classification with solutions tops out below the approval threshold.
	review, issues := ReviewQuality(
		&domain.Classification{Confidence: 0.97},
		nil,
		solutionsOfLen(3),
	)
	assert.InDelta(t, 0.7, review.QualityScore, 1e-9)
	assert.Equal(t, domain.QANeedsRevision, review.Status)
	assert.Contains(t, issues, "Low priority prediction confidence")
}

func TestReviewQualityNoSolutionsPartialCredit(t *testing.T) {
	review, issues := ReviewQuality(
		&domain.Classification{Confidence: 0.9},
		&domain.PriorityPrediction{Confidence: 0.8},
		nil,
	)
	assert.InDelta(t, 0.8, review.QualityScore, 1e-9)
	assert.Equal(t, domain.QAApproved, review.Status)
	assert.Contains(t, issues, "No solutions provided")
}

func TestReviewQualityFewSolutionsImprovement(t *testing.T) {
	review, _ := ReviewQuality(
		&domain.Classification{Confidence: 0.5},
		&domain.PriorityPrediction{Confidence: 0.5},
		solutionsOfLen(1),
	)
	assert.InDelta(t, 0.4, review.QualityScore, 1e-9)
	assert.Contains(t, review.Improvements, "Add more solution alternatives")
}

func TestReviewQualityWorstCase(t *testing.T) {
	review, issues := ReviewQuality(nil, nil, nil)
	assert.InDelta(t, 0.2, review.QualityScore, 1e-9)
	assert.Equal(t, domain.QANeedsRevision, review.Status)
	assert.Len(t, issues, 3)
}
