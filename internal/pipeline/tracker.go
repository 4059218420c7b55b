package pipeline

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// Agent names used for prediction records and stage metrics.
const (
	AgentClassifier        = "classifier"
	AgentPriorityPredictor = "priority_predictor"
	AgentSolutionRecommender = "solution_recommender"
	AgentQAReviewer        = "qa_reviewer"
)

// ErrNoPendingPrediction reports that every prediction for the given
// (ticket, stage) pair already has feedback attached.
var ErrNoPendingPrediction = errors.New("no prediction awaiting feedback")

// PredictionRecord is one logged stage prediction, later reconciled against
// ground truth.
type PredictionRecord struct {
	Stage       string         `json:"stage"`
	TicketID    string         `json:"ticket_id"`
	Predicted   string         `json:"predicted"`
	Confidence  float64        `json:"confidence"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Actual      string         `json:"actual,omitempty"`
	Source      string         `json:"feedback_source,omitempty"`
	FeedbackAt  *time.Time     `json:"feedback_timestamp,omitempty"`
	HasFeedback bool           `json:"has_feedback"`
	Correct     bool           `json:"correct"`
}

// StageStats is the running accuracy aggregate for one stage.
type StageStats struct {
	Total         int     `json:"total"`
	Correct       int     `json:"correct"`
	Accuracy      float64 `json:"accuracy"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// OverallStats summarizes tracking across all stages.
type OverallStats struct {
	Stages                  map[string]StageStats `json:"stages"`
	TotalPredictions        int                   `json:"total_predictions"`
	PredictionsWithFeedback int                   `json:"predictions_with_feedback"`
}

// PerformanceTracker records stage predictions and reconciles them with
// later ground-truth feedback. It is an unbounded append/update log; safe
// for concurrent use by simultaneous pipeline runs.
type PerformanceTracker struct {
	mu          sync.Mutex
	predictions []*PredictionRecord
	stats       map[string]*StageStats
}

// NewPerformanceTracker builds an empty tracker.
func NewPerformanceTracker() *PerformanceTracker {
	return &PerformanceTracker{stats: make(map[string]*StageStats)}
}

// Record appends a prediction for later feedback reconciliation.
func (t *PerformanceTracker) Record(stage, ticketID, predicted string, confidence float64, metadata map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.predictions = append(t.predictions, &PredictionRecord{
		Stage:      stage,
		TicketID:   ticketID,
		Predicted:  predicted,
		Confidence: confidence,
		Timestamp:  time.Now().UTC(),
		Metadata:   metadata,
	})
}

// AttachFeedback marks the most recent prediction for (ticketID, stage) that
// has no feedback yet, then updates the stage aggregate. Re-submitting after
// every prediction for the pair has feedback is a no-op reporting
// ErrNoPendingPrediction, so aggregates never double-count.
func (t *PerformanceTracker) AttachFeedback(ticketID, stage, actual, source string) (*PredictionRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.predictions) - 1; i >= 0; i-- {
		pred := t.predictions[i]
		if pred.TicketID != ticketID || pred.Stage != stage || pred.HasFeedback {
			continue
		}

		now := time.Now().UTC()
		pred.Actual = actual
		pred.Source = source
		pred.FeedbackAt = &now
		pred.HasFeedback = true
		pred.Correct = strings.EqualFold(pred.Predicted, actual)

		stats, ok := t.stats[stage]
		if !ok {
			stats = &StageStats{}
			t.stats[stage] = stats
		}
		// AvgConfidence is the running mean over fed-back predictions.
		stats.AvgConfidence = (stats.AvgConfidence*float64(stats.Total) + pred.Confidence) / float64(stats.Total+1)
		stats.Total++
		if pred.Correct {
			stats.Correct++
		}
		stats.Accuracy = float64(stats.Correct) / float64(stats.Total)

		return pred, nil
	}
	return nil, ErrNoPendingPrediction
}

// Stats returns the aggregate for one stage; zero-valued when the stage has
// no feedback yet.
func (t *PerformanceTracker) Stats(stage string) StageStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stats, ok := t.stats[stage]; ok {
		return *stats
	}
	return StageStats{}
}

// AllStats returns aggregates for every stage plus log totals.
func (t *PerformanceTracker) AllStats() OverallStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stages := make(map[string]StageStats, len(t.stats))
	for stage, stats := range t.stats {
		stages[stage] = *stats
	}
	withFeedback := 0
	for _, pred := range t.predictions {
		if pred.HasFeedback {
			withFeedback++
		}
	}
	return OverallStats{
		Stages:                  stages,
		TotalPredictions:        len(t.predictions),
		PredictionsWithFeedback: withFeedback,
	}
}
