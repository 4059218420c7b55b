package domain

// TicketState is the single mutable record threaded through a pipeline run.
// Stages only ever set their own output field and append to the bookkeeping
// lists; nothing is removed once written.
type TicketState struct {
	TicketID          string            `json:"ticket_id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Requester         *RequesterInfo    `json:"requester_info,omitempty"`
	AdditionalContext map[string]string `json:"additional_context,omitempty"`

	// Derived flags, set only by the classification stage.
	TicketLength  int    `json:"ticket_length"`
	IsSimple      bool   `json:"is_simple"`
	SelectedModel string `json:"selected_model"`

	Classification       *Classification     `json:"classification,omitempty"`
	PriorityPrediction   *PriorityPrediction `json:"priority_prediction,omitempty"`
	RecommendedSolutions []Solution          `json:"recommended_solutions,omitempty"`
	QAReview             *QAReview           `json:"qa_review,omitempty"`

	AgentMetrics    []StageMetric `json:"agent_metrics"`
	ProcessingSteps []string      `json:"processing_steps"`

	Status           AnalysisStatus `json:"status"`
	NeedsHumanReview bool           `json:"needs_human_review"`
	DraftAnalysis    *DraftAnalysis `json:"draft_analysis,omitempty"`
	ReviewURL        string         `json:"review_url,omitempty"`
}

// Text returns the combined free text the stages analyze.
func (s *TicketState) Text() string {
	return s.Title + " " + s.Description
}
