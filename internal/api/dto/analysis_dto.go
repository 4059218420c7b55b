package dto

import (
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/worker"
)

// AnalyzeTicketRequest payload.
type AnalyzeTicketRequest struct {
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	Requester         *domain.RequesterInfo `json:"requester_info,omitempty"`
	AdditionalContext map[string]string     `json:"additional_context,omitempty"`
}

// BulkAnalyzeRequest payload.
type BulkAnalyzeRequest struct {
	Tickets []AnalyzeTicketRequest `json:"tickets"`
}

// BulkAnalyzeResponse carries out-of-order batch results.
type BulkAnalyzeResponse struct {
	TaskID  string             `json:"task_id"`
	Count   int                `json:"count"`
	Results []worker.BatchItem `json:"results"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	TicketID string `json:"ticket_id"`
	Stage    string `json:"stage"`
	Actual   string `json:"actual"`
	Source   string `json:"source,omitempty"`
}

// AddDocumentRequest payload.
type AddDocumentRequest struct {
	ID                   string   `json:"id,omitempty"`
	Title                string   `json:"title"`
	Content              string   `json:"content"`
	Category             string   `json:"category,omitempty"`
	Source               string   `json:"source,omitempty"`
	Steps                []string `json:"steps,omitempty"`
	EstimatedTimeMinutes int      `json:"estimated_time_minutes,omitempty"`
	SuccessRate          float64  `json:"success_rate,omitempty"`
}
