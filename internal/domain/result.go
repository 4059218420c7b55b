package domain

// AnalysisMetadata aggregates run-level bookkeeping exposed with every result.
type AnalysisMetadata struct {
	Workflow                string        `json:"workflow"`
	AgentsExecuted          []string      `json:"agents_executed"`
	TotalDocumentsRetrieved int           `json:"total_documents_retrieved"`
	TopSimilarityScore      float64       `json:"top_similarity_score"`
	AgentMetrics            []StageMetric `json:"agent_metrics"`
	ProcessingSteps         []string      `json:"processing_steps"`
	ModelUsed               string        `json:"model_used,omitempty"`
}

// AnalysisResult is the complete, externally observable outcome of one run.
type AnalysisResult struct {
	TicketID             string              `json:"ticket_id"`
	Classification       *Classification     `json:"classification"`
	PriorityPrediction   *PriorityPrediction `json:"priority_prediction,omitempty"`
	RecommendedSolutions []Solution          `json:"recommended_solutions"`
	SolutionSummary      string              `json:"solution_summary"`
	ActionItems          []ActionItem        `json:"action_items"`
	LowConfidence        bool                `json:"low_confidence"`
	QAReview             *QAReview           `json:"qa_review"`
	Status               AnalysisStatus      `json:"status"`
	NeedsHumanReview     bool                `json:"needs_human_review"`
	DraftAnalysis        *DraftAnalysis      `json:"draft_analysis,omitempty"`
	ReviewURL            string              `json:"review_url,omitempty"`
	ProcessingTimeMS     float64             `json:"processing_time_ms"`
	Metadata             AnalysisMetadata    `json:"analysis_metadata"`
}
