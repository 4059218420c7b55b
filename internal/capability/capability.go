// Package capability defines the external collaborator contracts the
// pipeline depends on: text classification and knowledge-base retrieval.
// Implementations are process-lifecycle singletons shared across runs.
package capability

import "context"

// ClassifierResult is the outcome of one classification call.
type ClassifierResult struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classifier maps free text plus a category vocabulary to a single category.
// Implementations must tolerate an unmatched model response by defaulting to
// the first supplied category rather than failing.
type Classifier interface {
	Classify(ctx context.Context, text string, categories []string) (ClassifierResult, error)
}

// SearchResult is one ranked knowledge-base hit.
type SearchResult struct {
	ID                   string            `json:"doc_id"`
	Title                string            `json:"title"`
	ContentSnippet       string            `json:"content_snippet"`
	Category             string            `json:"category"`
	Score                float64           `json:"score"`
	Source               string            `json:"source"`
	Steps                []string          `json:"steps,omitempty"`
	EstimatedTimeMinutes int               `json:"estimated_time_minutes,omitempty"`
	SuccessRate          float64           `json:"success_rate,omitempty"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

// Retriever performs similarity search over the knowledge base. A query that
// matches nothing returns an empty slice, not an error. Category may be empty
// to search without a filter.
type Retriever interface {
	Search(ctx context.Context, query, category string, limit int, minSimilarity float64) ([]SearchResult, error)
}
