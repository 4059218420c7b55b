package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/auth"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/pipeline"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

const (
	maxTitleLen       = 500
	maxDescriptionLen = 5000
)

// feedbackStages are the stages that accept ground-truth feedback.
var feedbackStages = map[string]bool{
	pipeline.AgentClassifier:        true,
	pipeline.AgentPriorityPredictor: true,
	pipeline.AgentQAReviewer:        true,
}

// AnalysisService coordinates pipeline runs with persistence, caching,
// review tokens, and event publication.
type AnalysisService struct {
	orchestrator *pipeline.Orchestrator
	analyses     repository.AnalysisRepository
	predictions  repository.PredictionRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	dispatcher   events.Dispatcher
	tokens       *auth.ReviewTokenManager
	logger       *zap.Logger
}

// AnalysisDependencies bundles collaborators for the analysis service.
type AnalysisDependencies struct {
	Orchestrator   *pipeline.Orchestrator
	AnalysisRepo   repository.AnalysisRepository
	PredictionRepo repository.PredictionRepository
	Cache          *redis.Client
	CacheTTL       time.Duration
	Dispatcher     events.Dispatcher
	Tokens         *auth.ReviewTokenManager
}

// FeedbackInput describes one ground-truth submission.
type FeedbackInput struct {
	TicketID string
	Stage    string
	Actual   string
	Source   string
}

// PerformanceReport combines prediction accuracy with stage timings.
type PerformanceReport struct {
	Overall       pipeline.OverallStats `json:"overall"`
	StageAverages map[string]float64    `json:"stage_avg_processing_ms,omitempty"`
}

// NewAnalysisService constructs the service.
func NewAnalysisService(deps AnalysisDependencies, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		orchestrator: deps.Orchestrator,
		analyses:     deps.AnalysisRepo,
		predictions:  deps.PredictionRepo,
		cache:        deps.Cache,
		cacheTTL:     deps.CacheTTL,
		dispatcher:   deps.Dispatcher,
		tokens:       deps.Tokens,
		logger:       logger,
	}
}

// ValidateInput enforces the boundary contract before any pipeline work.
func ValidateInput(input pipeline.TicketInput) error {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return util.NewValidationError("title is required", nil)
	}
	if description == "" {
		return util.NewValidationError("description is required", nil)
	}
	if len(title) > maxTitleLen {
		return util.NewValidationError("title too long", map[string]any{"max": maxTitleLen})
	}
	if len(description) > maxDescriptionLen {
		return util.NewValidationError("description too long", map[string]any{"max": maxDescriptionLen})
	}
	return nil
}

// Analyze runs the full pipeline for one ticket and handles everything
// around the run: review token signing, persistence, caching, events.
func (s *AnalysisService) Analyze(ctx context.Context, input pipeline.TicketInput) (*domain.AnalysisResult, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	result, err := s.orchestrator.Run(ctx, input)
	if err != nil {
		return nil, err
	}

	if result.NeedsHumanReview && s.tokens != nil {
		token, _, err := s.tokens.Sign(result.TicketID)
		if err != nil {
			s.logger.Warn("review token signing failed", zap.String("ticket_id", result.TicketID), zap.Error(err))
		} else {
			result.ReviewURL = fmt.Sprintf("%s?token=%s", result.ReviewURL, token)
		}
	}

	s.persist(ctx, input.Title, result)
	s.cacheResult(ctx, result)
	s.publish(ctx, result)

	return result, nil
}

// ClassifyTicket runs the classification stage only.
func (s *AnalysisService) ClassifyTicket(ctx context.Context, input pipeline.TicketInput) (*domain.Classification, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}
	return s.orchestrator.ClassifyOnly(ctx, input)
}

// PredictPriority runs the priority heuristic only.
func (s *AnalysisService) PredictPriority(ctx context.Context, input pipeline.TicketInput) (*domain.PriorityPrediction, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}
	var requester domain.RequesterInfo
	if input.Requester != nil {
		requester = *input.Requester
	}
	pred := pipeline.PredictPriority(input.Title+" "+input.Description, requester)
	return &pred, nil
}

// GetAnalysis serves one stored analysis, cache first.
func (s *AnalysisService) GetAnalysis(ctx context.Context, ticketID string) (*domain.AnalysisResult, error) {
	if ticketID == "" {
		return nil, util.NewValidationError("ticket id is required", nil)
	}
	if cached := s.fromCache(ctx, ticketID); cached != nil {
		return cached, nil
	}

	result, err := s.analyses.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, repository.ErrNoDatabase) {
			return nil, util.NewNotFound("analysis", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	return result, nil
}

// History lists recent analyses.
func (s *AnalysisService) History(ctx context.Context, limit, offset int) ([]repository.AnalysisSummary, error) {
	summaries, err := s.analyses.ListRecent(ctx, limit, offset)
	if err != nil {
		if errors.Is(err, repository.ErrNoDatabase) {
			return []repository.AnalysisSummary{}, nil
		}
		return nil, err
	}
	if summaries == nil {
		summaries = []repository.AnalysisSummary{}
	}
	return summaries, nil
}

// SubmitFeedback reconciles a prediction with ground truth.
func (s *AnalysisService) SubmitFeedback(ctx context.Context, input FeedbackInput) (*pipeline.PredictionRecord, error) {
	if input.TicketID == "" {
		return nil, util.NewValidationError("ticket_id is required", nil)
	}
	if !feedbackStages[input.Stage] {
		return nil, util.NewValidationError("unknown stage", map[string]any{"stage": input.Stage})
	}
	if strings.TrimSpace(input.Actual) == "" {
		return nil, util.NewValidationError("actual value is required", nil)
	}
	source := input.Source
	if source == "" {
		source = "api"
	}

	record, err := s.orchestrator.Tracker().AttachFeedback(input.TicketID, input.Stage, input.Actual, source)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoPendingPrediction) {
			return nil, util.NewConflict("no prediction awaiting feedback", map[string]any{
				"ticket_id": input.TicketID,
				"stage":     input.Stage,
			})
		}
		return nil, err
	}

	if err := s.predictions.AttachFeedback(ctx, input.TicketID, input.Stage, input.Actual, source); err != nil &&
		!errors.Is(err, repository.ErrNoDatabase) && !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Warn("prediction feedback persistence failed",
			zap.String("ticket_id", input.TicketID), zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventFeedbackReceived,
		TicketID:  input.TicketID,
		Timestamp: time.Now().UTC(),
		Payload: events.FeedbackReceivedPayload{
			Stage:   input.Stage,
			Actual:  input.Actual,
			Source:  source,
			Correct: record.Correct,
		},
	})
	return record, nil
}

// Performance reports prediction accuracy and stage timing aggregates.
func (s *AnalysisService) Performance(stageAverages map[string]float64) PerformanceReport {
	return PerformanceReport{
		Overall:       s.orchestrator.Tracker().AllStats(),
		StageAverages: stageAverages,
	}
}

// DraftForReview serves the draft analysis behind a review link after
// verifying the token was issued for this ticket.
func (s *AnalysisService) DraftForReview(ctx context.Context, ticketID, token string) (*domain.AnalysisResult, error) {
	if token == "" {
		return nil, util.NewUnauthorized("review token is required")
	}
	if err := s.tokens.Verify(token, ticketID); err != nil {
		return nil, util.NewUnauthorized("invalid review token")
	}

	result, err := s.GetAnalysis(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !result.NeedsHumanReview {
		return nil, util.NewConflict("analysis does not need review", map[string]any{"ticket_id": ticketID})
	}
	return result, nil
}

func (s *AnalysisService) persist(ctx context.Context, title string, result *domain.AnalysisResult) {
	if err := s.analyses.Save(ctx, title, result); err != nil {
		if !errors.Is(err, repository.ErrNoDatabase) {
			s.logger.Warn("analysis persistence failed", zap.String("ticket_id", result.TicketID), zap.Error(err))
		}
		return
	}
	if result.Classification != nil {
		s.logPrediction(ctx, pipeline.AgentClassifier, result.TicketID,
			string(result.Classification.Category), result.Classification.Confidence)
	}
	if result.PriorityPrediction != nil {
		s.logPrediction(ctx, pipeline.AgentPriorityPredictor, result.TicketID,
			string(result.PriorityPrediction.Priority), result.PriorityPrediction.Confidence)
	}
	if result.QAReview != nil {
		s.logPrediction(ctx, pipeline.AgentQAReviewer, result.TicketID,
			string(result.QAReview.Status), result.QAReview.QualityScore)
	}
}

func (s *AnalysisService) logPrediction(ctx context.Context, stage, ticketID, predicted string, confidence float64) {
	if err := s.predictions.LogPrediction(ctx, stage, ticketID, predicted, confidence); err != nil &&
		!errors.Is(err, repository.ErrNoDatabase) {
		s.logger.Warn("prediction log persistence failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

func (s *AnalysisService) cacheResult(ctx context.Context, result *domain.AnalysisResult) {
	if s.cache == nil || result.Status != domain.StatusCompleted {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(result.TicketID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("result cache write failed", zap.String("ticket_id", result.TicketID), zap.Error(err))
	}
}

func (s *AnalysisService) fromCache(ctx context.Context, ticketID string) *domain.AnalysisResult {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.Get(ctx, cacheKey(ticketID)).Bytes()
	if err != nil {
		return nil
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil
	}
	return &result
}

func (s *AnalysisService) publish(ctx context.Context, result *domain.AnalysisResult) {
	var (
		category     domain.TicketCategory
		priority     domain.PriorityLevel
		qualityScore float64
	)
	if result.Classification != nil {
		category = result.Classification.Category
	}
	if result.PriorityPrediction != nil {
		priority = result.PriorityPrediction.Priority
	}
	if result.QAReview != nil {
		qualityScore = result.QAReview.QualityScore
	}

	if result.NeedsHumanReview {
		var issues []string
		if result.DraftAnalysis != nil {
			issues = result.DraftAnalysis.QAIssues
		}
		s.publishEvent(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAnalysisNeedsReview,
			TicketID:  result.TicketID,
			Timestamp: time.Now().UTC(),
			Payload: events.AnalysisNeedsReviewPayload{
				QualityScore: qualityScore,
				Issues:       issues,
				ReviewURL:    result.ReviewURL,
			},
		})
		return
	}

	s.publishEvent(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAnalysisCompleted,
		TicketID:  result.TicketID,
		Timestamp: time.Now().UTC(),
		Payload: events.AnalysisCompletedPayload{
			Category:     category,
			Priority:     priority,
			QualityScore: qualityScore,
			Workflow:     result.Metadata.Workflow,
		},
	})
}

func (s *AnalysisService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func cacheKey(ticketID string) string {
	return "analysis:" + ticketID
}
