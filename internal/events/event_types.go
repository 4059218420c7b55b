package events

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAnalysisCompleted   EventType = "analysis_completed"
	EventAnalysisNeedsReview EventType = "analysis_needs_review"
	EventFeedbackReceived    EventType = "feedback_received"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AnalysisCompletedPayload payload.
type AnalysisCompletedPayload struct {
	Category     domain.TicketCategory `json:"category"`
	Priority     domain.PriorityLevel  `json:"priority,omitempty"`
	QualityScore float64               `json:"quality_score"`
	Workflow     string                `json:"workflow"`
}

// AnalysisNeedsReviewPayload payload.
type AnalysisNeedsReviewPayload struct {
	QualityScore float64  `json:"quality_score"`
	Issues       []string `json:"issues"`
	ReviewURL    string   `json:"review_url"`
}

// FeedbackReceivedPayload payload.
type FeedbackReceivedPayload struct {
	Stage   string `json:"stage"`
	Actual  string `json:"actual"`
	Source  string `json:"source"`
	Correct bool   `json:"correct"`
}
