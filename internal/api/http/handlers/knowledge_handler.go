package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/knowledge"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util"
)

// KnowledgeHandler manages knowledge base endpoints.
type KnowledgeHandler struct {
	store *knowledge.Store
}

// NewKnowledgeHandler constructs handler.
func NewKnowledgeHandler(store *knowledge.Store) *KnowledgeHandler {
	return &KnowledgeHandler{store: store}
}

// AddDocument POST /knowledge/documents.
func (h *KnowledgeHandler) AddDocument(c *fiber.Ctx) error {
	var req dto.AddDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("title and content required", nil)
	}

	id, err := h.store.Add(c.UserContext(), knowledge.Document{
		ID:                   req.ID,
		Title:                req.Title,
		Content:              req.Content,
		Category:             req.Category,
		Source:               req.Source,
		Steps:                req.Steps,
		EstimatedTimeMinutes: req.EstimatedTimeMinutes,
		SuccessRate:          req.SuccessRate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"doc_id": id,
		"count":  h.store.Count(),
	}})
}

// Search GET /knowledge/search.
func (h *KnowledgeHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return apperrors.NewValidationError("query parameter q is required", nil)
	}
	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	minSimilarity, _ := strconv.ParseFloat(c.Query("min_similarity", "0.3"), 64)

	results, err := h.store.Search(c.UserContext(), query, c.Query("category"), limit, minSimilarity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": results})
}
