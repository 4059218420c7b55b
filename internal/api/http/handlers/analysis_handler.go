package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/pipeline"
	"github.com/spec-kit/ticket-triage/internal/service"
	"github.com/spec-kit/ticket-triage/internal/worker"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util"
)

const maxBulkTickets = 50

// AnalysisHandler manages ticket analysis endpoints.
type AnalysisHandler struct {
	service *service.AnalysisService
	batch   *worker.BatchProcessor
	metrics *observability.Metrics
}

// NewAnalysisHandler constructs handler.
func NewAnalysisHandler(analysisService *service.AnalysisService, batch *worker.BatchProcessor, metrics *observability.Metrics) *AnalysisHandler {
	return &AnalysisHandler{service: analysisService, batch: batch, metrics: metrics}
}

func toInput(req dto.AnalyzeTicketRequest) pipeline.TicketInput {
	return pipeline.TicketInput{
		Title:             req.Title,
		Description:       req.Description,
		Requester:         req.Requester,
		AdditionalContext: req.AdditionalContext,
	}
}

// Analyze POST /tickets/analyze.
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Analyze(c.UserContext(), toInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Classify POST /tickets/classify.
func (h *AnalysisHandler) Classify(c *fiber.Ctx) error {
	var req dto.AnalyzeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	classification, err := h.service.ClassifyTicket(c.UserContext(), toInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": classification})
}

// PredictPriority POST /tickets/predict-priority.
func (h *AnalysisHandler) PredictPriority(c *fiber.Ctx) error {
	var req dto.AnalyzeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	prediction, err := h.service.PredictPriority(c.UserContext(), toInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": prediction})
}

// Bulk POST /tickets/bulk.
func (h *AnalysisHandler) Bulk(c *fiber.Ctx) error {
	var req dto.BulkAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Tickets) == 0 {
		return apperrors.NewValidationError("tickets list is empty", nil)
	}
	if len(req.Tickets) > maxBulkTickets {
		return apperrors.NewValidationError("too many tickets", map[string]any{"max": maxBulkTickets})
	}

	inputs := make([]pipeline.TicketInput, len(req.Tickets))
	for i, t := range req.Tickets {
		if err := service.ValidateInput(toInput(t)); err != nil {
			return err
		}
		inputs[i] = toInput(t)
	}

	items, err := h.batch.Process(c.UserContext(), inputs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BulkAnalyzeResponse{
		TaskID:  uuid.NewString(),
		Count:   len(items),
		Results: items,
	}})
}

// History GET /tickets/history.
func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	summaries, err := h.service.History(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaries})
}

// Get GET /tickets/:id.
func (h *AnalysisHandler) Get(c *fiber.Ctx) error {
	result, err := h.service.GetAnalysis(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Feedback POST /agents/feedback.
func (h *AnalysisHandler) Feedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.service.SubmitFeedback(c.UserContext(), service.FeedbackInput{
		TicketID: req.TicketID,
		Stage:    req.Stage,
		Actual:   req.Actual,
		Source:   req.Source,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

// Performance GET /agents/performance.
func (h *AnalysisHandler) Performance(c *fiber.Ctx) error {
	report := h.service.Performance(h.metrics.StageAverages())
	if stage := c.Query("stage"); stage != "" {
		stats, ok := report.Overall.Stages[stage]
		if !ok {
			return apperrors.NewNotFound("stage", map[string]any{"stage": stage})
		}
		return c.JSON(fiber.Map{"data": fiber.Map{"stage": stage, "stats": stats}})
	}
	return c.JSON(fiber.Map{"data": report})
}

// Review GET /review/:id.
func (h *AnalysisHandler) Review(c *fiber.Ctx) error {
	result, err := h.service.DraftForReview(c.UserContext(), c.Params("id"), c.Query("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"ticket_id":      result.TicketID,
		"status":         result.Status,
		"draft_analysis": result.DraftAnalysis,
		"qa_review":      result.QAReview,
	}})
}
