// Package knowledge implements the retrieval capability on an embedded
// chromem-go vector database with cosine similarity and metadata filters.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/capability"
	"github.com/spec-kit/ticket-triage/internal/config"
)

const collectionName = "it_knowledge_base"

const snippetLimit = 500

// Document is one knowledge-base entry as supplied by callers.
type Document struct {
	ID                   string
	Title                string
	Content              string
	Category             string
	Source               string
	Steps                []string
	EstimatedTimeMinutes int
	SuccessRate          float64
}

// Store is the chromem-backed knowledge base. It implements
// capability.Retriever.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	logger     *zap.Logger
}

// NewStore opens (or creates) the knowledge collection. A persist path makes
// the store durable across restarts; without one it is in-memory only.
func NewStore(cfg config.KnowledgeConfig, embed chromem.EmbeddingFunc, logger *zap.Logger) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.PersistPath != "" {
		db, err = chromem.NewPersistentDB(cfg.PersistPath, true)
		if err != nil {
			return nil, fmt.Errorf("open persistent knowledge db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Store{db: db, collection: collection, logger: logger}, nil
}

// Add inserts a document, generating an ID when the caller supplies none.
func (s *Store) Add(ctx context.Context, doc Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Source == "" {
		doc.Source = "knowledge_base"
	}

	metadata := map[string]string{
		"title":    doc.Title,
		"category": doc.Category,
		"source":   doc.Source,
	}
	if len(doc.Steps) > 0 {
		encoded, err := json.Marshal(doc.Steps)
		if err != nil {
			return "", fmt.Errorf("encode steps: %w", err)
		}
		metadata["steps"] = string(encoded)
	}
	if doc.EstimatedTimeMinutes > 0 {
		metadata["estimated_time_minutes"] = strconv.Itoa(doc.EstimatedTimeMinutes)
	}
	if doc.SuccessRate > 0 {
		metadata["success_rate"] = strconv.FormatFloat(doc.SuccessRate, 'f', 2, 64)
	}

	err := s.collection.AddDocuments(ctx, []chromem.Document{{
		ID:       doc.ID,
		Content:  doc.Content,
		Metadata: metadata,
	}}, 1)
	if err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}
	return doc.ID, nil
}

// Search runs a similarity query, optionally filtered by category, and drops
// hits below minSimilarity. No matches yields an empty slice.
func (s *Store) Search(ctx context.Context, query, category string, limit int, minSimilarity float64) ([]capability.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	var where map[string]string
	if category != "" {
		where = map[string]string{"category": category}
	}

	results, err := s.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("knowledge query: %w", err)
	}

	out := make([]capability.SearchResult, 0, len(results))
	for _, r := range results {
		score := float64(r.Similarity)
		if score < minSimilarity {
			continue
		}
		out = append(out, resultFromChromem(r, score))
	}
	return out, nil
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	return s.collection.Count()
}

func resultFromChromem(r chromem.Result, score float64) capability.SearchResult {
	snippet := r.Content
	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit] + "..."
	}

	var steps []string
	if raw := r.Metadata["steps"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &steps); err != nil {
			steps = []string{raw}
		}
	}
	estimated, _ := strconv.Atoi(r.Metadata["estimated_time_minutes"])
	successRate, _ := strconv.ParseFloat(r.Metadata["success_rate"], 64)

	return capability.SearchResult{
		ID:                   r.ID,
		Title:                r.Metadata["title"],
		ContentSnippet:       snippet,
		Category:             r.Metadata["category"],
		Score:                score,
		Source:               r.Metadata["source"],
		Steps:                steps,
		EstimatedTimeMinutes: estimated,
		SuccessRate:          successRate,
		Metadata:             r.Metadata,
	}
}
