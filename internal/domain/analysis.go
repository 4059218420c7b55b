package domain

// TicketCategory enumerates the fixed classification vocabulary.
type TicketCategory string

const (
	CategoryNetworkIssues     TicketCategory = "Network Issues"
	CategorySoftwareProblems  TicketCategory = "Software Problems"
	CategoryHardwareFailures  TicketCategory = "Hardware Failures"
	CategorySecurityIncidents TicketCategory = "Security Incidents"
	CategoryAccountAccess     TicketCategory = "Account Access"
	CategoryEmailIssues       TicketCategory = "Email Issues"
	CategoryPrinterProblems   TicketCategory = "Printer Problems"
	CategoryApplicationErrors TicketCategory = "Application Errors"
	CategorySystemPerformance TicketCategory = "System Performance"
	CategoryMobileSupport     TicketCategory = "Mobile Device Support"
	CategoryDatabaseIssues    TicketCategory = "Database Issues"
	CategoryBackupRecovery    TicketCategory = "Backup & Recovery"
	CategoryGeneralSupport    TicketCategory = "General Support"
)

// Categories lists the classification vocabulary in its canonical order.
func Categories() []TicketCategory {
	return []TicketCategory{
		CategoryNetworkIssues,
		CategorySoftwareProblems,
		CategoryHardwareFailures,
		CategorySecurityIncidents,
		CategoryAccountAccess,
		CategoryEmailIssues,
		CategoryPrinterProblems,
		CategoryApplicationErrors,
		CategorySystemPerformance,
		CategoryMobileSupport,
		CategoryDatabaseIssues,
		CategoryBackupRecovery,
		CategoryGeneralSupport,
	}
}

// PriorityLevel enumerates SLA urgency.
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "Critical"
	PriorityHigh     PriorityLevel = "High"
	PriorityMedium   PriorityLevel = "Medium"
	PriorityLow      PriorityLevel = "Low"
)

// AnalysisStatus enumerates pipeline run states.
type AnalysisStatus string

const (
	StatusProcessing  AnalysisStatus = "processing"
	StatusNeedsReview AnalysisStatus = "needs_review"
	StatusCompleted   AnalysisStatus = "completed"
)

// QAStatus enumerates quality gate outcomes.
type QAStatus string

const (
	QAApproved      QAStatus = "approved"
	QANeedsRevision QAStatus = "needs_revision"
	QAFallback      QAStatus = "fallback"
)

// RequesterInfo carries optional structured requester context.
type RequesterInfo struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	Location   string `json:"location,omitempty"`
	VIP        bool   `json:"vip,omitempty"`
}

// Classification is the classify stage output.
type Classification struct {
	Category    TicketCategory `json:"category"`
	Subcategory string         `json:"subcategory"`
	Confidence  float64        `json:"confidence"`
	Reasoning   string         `json:"reasoning"`
}

// PriorityPrediction is the prioritize stage output.
type PriorityPrediction struct {
	Priority                 PriorityLevel `json:"priority"`
	EstimatedResolutionHours float64       `json:"estimated_resolution_hours"`
	Confidence               float64       `json:"confidence"`
	Factors                  []string      `json:"factors"`
	Reasoning                string        `json:"reasoning"`
}

// Solution is one candidate remediation drawn from the knowledge base or a runbook.
type Solution struct {
	SolutionID           string   `json:"solution_id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Steps                []string `json:"steps"`
	SimilarityScore      float64  `json:"similarity_score"`
	EstimatedTimeMinutes int      `json:"estimated_time_minutes"`
	SuccessRate          float64  `json:"success_rate"`
	Source               string   `json:"source"`
}

// ActionItem is a prioritized first step distilled from a recommended solution.
type ActionItem struct {
	Action  string `json:"action"`
	Urgency string `json:"urgency"`
}

// QAReview is the quality gate output.
type QAReview struct {
	QualityScore float64  `json:"quality_score"`
	Completeness string   `json:"completeness"`
	Improvements []string `json:"improvements"`
	Status       QAStatus `json:"status"`
}

// StageMetric is one per-stage timing/bookkeeping entry, never mutated after creation.
type StageMetric struct {
	Agent            string         `json:"agent"`
	ProcessingTimeMS float64        `json:"processing_time_ms"`
	Detail           map[string]any `json:"detail,omitempty"`
}

// DraftAnalysis snapshots stage outputs for human review when the quality gate fails.
type DraftAnalysis struct {
	Classification       *Classification     `json:"classification"`
	PriorityPrediction   *PriorityPrediction `json:"priority_prediction,omitempty"`
	RecommendedSolutions []Solution          `json:"recommended_solutions"`
	QAIssues             []string            `json:"qa_issues"`
}
