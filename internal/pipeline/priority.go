package pipeline

import (
	"strings"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

var (
	criticalTerms = []string{"down", "outage", "not reachable", "cannot connect", "security breach", "data loss", "ransomware"}
	highTerms     = []string{"payroll", "finance", "vip", "executive", "ceo", "director"}
	mediumTerms   = []string{"slow", "performance", "minor", "workaround", "intermittent"}
	securityTerms = []string{"security", "breach", "phishing", "malware", "virus", "compromised"}
)

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// PredictPriority assigns a priority level from ticket text and requester
// context. Purely deterministic; no model dependency.
func PredictPriority(text string, requester domain.RequesterInfo) domain.PriorityPrediction {
	lower := strings.ToLower(text)
	dept := strings.ToLower(requester.Department)

	pred := domain.PriorityPrediction{Confidence: 0.7}

	switch {
	case containsAny(lower, criticalTerms):
		pred.Priority = domain.PriorityCritical
		pred.EstimatedResolutionHours = 2
		pred.Factors = append(pred.Factors, "Service outage or security incident")
		pred.Reasoning = "Critical priority due to service outage or security incident requiring immediate attention"
	case containsAny(lower, highTerms) || dept == "finance" || dept == "executive":
		pred.Priority = domain.PriorityHigh
		pred.EstimatedResolutionHours = 8
		pred.Factors = append(pred.Factors, "High-impact user or system")
		pred.Reasoning = "High priority due to business-critical user or financial system impact"
	case containsAny(lower, mediumTerms):
		pred.Priority = domain.PriorityMedium
		pred.EstimatedResolutionHours = 24
		pred.Factors = append(pred.Factors, "Workaround available or minor impact")
		pred.Reasoning = "Medium priority - issue has workaround or affects single user"
	default:
		pred.Priority = domain.PriorityLow
		pred.EstimatedResolutionHours = 72
		pred.Factors = append(pred.Factors, "General inquiry or cosmetic issue")
		pred.Reasoning = "Low priority - general inquiry or minor cosmetic issue"
	}

	// Security language escalates anything below High.
	if containsAny(lower, securityTerms) && pred.Priority != domain.PriorityCritical && pred.Priority != domain.PriorityHigh {
		pred.Priority = domain.PriorityHigh
		pred.EstimatedResolutionHours = 8
		pred.Factors = append(pred.Factors, "Security-related language")
	}

	// Sensitive departments never sit at the bottom of the queue.
	if (dept == "hr" || dept == "legal") && pred.Priority == domain.PriorityLow {
		pred.Priority = domain.PriorityMedium
		pred.EstimatedResolutionHours = 24
		pred.Factors = append(pred.Factors, "Sensitive department")
	}

	if requester.VIP && pred.Priority == domain.PriorityLow {
		pred.Priority = domain.PriorityMedium
		pred.EstimatedResolutionHours = 24
		pred.Factors = append(pred.Factors, "VIP requester")
	}

	return pred
}
