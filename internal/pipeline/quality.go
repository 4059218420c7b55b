package pipeline

import (
	"strings"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// approvalThreshold is the quality score at or above which an analysis is
// released without human review.
const approvalThreshold = 0.75

// ReviewQuality scores the combined stage outputs. Classification and
// priority each contribute 0.3 when their confidence clears 0.7; a skipped
// priority stage contributes nothing, so skip-priority runs top out at 0.7
// and route to human review. Solutions contribute 0.4 when present, 0.2
// partial credit otherwise.
func ReviewQuality(classification *domain.Classification, priority *domain.PriorityPrediction, solutions []domain.Solution) (domain.QAReview, []string) {
	var (
		score  float64
		issues []string
	)

	if classification != nil && classification.Confidence > 0.7 {
		score += 0.3
	} else {
		issues = append(issues, "Low classification confidence")
	}

	if priority != nil && priority.Confidence > 0.7 {
		score += 0.3
	} else {
		issues = append(issues, "Low priority prediction confidence")
	}

	if len(solutions) >= 1 {
		score += 0.4
	} else {
		issues = append(issues, "No solutions provided")
		score += 0.2
	}

	completeness := "complete"
	if len(issues) > 0 {
		completeness = "issues: " + strings.Join(issues, ", ")
	}

	var improvements []string
	status := domain.QAApproved
	if score < approvalThreshold {
		status = domain.QANeedsRevision
		improvements = append(improvements, "Consider manual review of low-confidence predictions")
		if len(solutions) < 2 {
			improvements = append(improvements, "Add more solution alternatives")
		}
	}

	return domain.QAReview{
		QualityScore: score,
		Completeness: completeness,
		Improvements: improvements,
		Status:       status,
	}, issues
}
