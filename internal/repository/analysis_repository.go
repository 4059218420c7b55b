package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// ErrNoDatabase reports that the service is running without Postgres and
// the requested operation needs one.
var ErrNoDatabase = errors.New("no database configured")

// AnalysisSummary is the list projection of a stored analysis.
type AnalysisSummary struct {
	TicketID     string                `json:"ticket_id"`
	Title        string                `json:"title"`
	Category     domain.TicketCategory `json:"category"`
	Priority     domain.PriorityLevel  `json:"priority,omitempty"`
	Status       domain.AnalysisStatus `json:"status"`
	QualityScore float64               `json:"quality_score"`
	CreatedAt    time.Time             `json:"created_at"`
}

// AnalysisRepository encapsulates analysis persistence.
type AnalysisRepository interface {
	Save(ctx context.Context, title string, result *domain.AnalysisResult) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.AnalysisResult, error)
	ListRecent(ctx context.Context, limit, offset int) ([]AnalysisSummary, error)
	UpdateStatus(ctx context.Context, ticketID string, status domain.AnalysisStatus) error
}

type analysisRepository struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository instantiates repository. A nil pool is allowed and
// turns every operation into ErrNoDatabase.
func NewAnalysisRepository(pool *pgxpool.Pool) AnalysisRepository {
	return &analysisRepository{pool: pool}
}

func (r *analysisRepository) Save(ctx context.Context, title string, result *domain.AnalysisResult) error {
	if r.pool == nil {
		return ErrNoDatabase
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	var (
		category = ""
		priority = ""
		quality  = 0.0
	)
	if result.Classification != nil {
		category = string(result.Classification.Category)
	}
	if result.PriorityPrediction != nil {
		priority = string(result.PriorityPrediction.Priority)
	}
	if result.QAReview != nil {
		quality = result.QAReview.QualityScore
	}

	const query = `
        INSERT INTO analyses (ticket_id, title, category, priority, status, quality_score, result)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (ticket_id) DO UPDATE SET
            status=EXCLUDED.status, quality_score=EXCLUDED.quality_score,
            result=EXCLUDED.result, updated_at=NOW()`
	_, err = r.pool.Exec(ctx, query,
		result.TicketID, title, category, priority, string(result.Status), quality, payload)
	return err
}

func (r *analysisRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.AnalysisResult, error) {
	if r.pool == nil {
		return nil, ErrNoDatabase
	}
	const query = `SELECT result FROM analyses WHERE ticket_id=$1`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&payload); err != nil {
		return nil, err
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *analysisRepository) ListRecent(ctx context.Context, limit, offset int) ([]AnalysisSummary, error) {
	if r.pool == nil {
		return nil, ErrNoDatabase
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT ticket_id, title, category, priority, status, quality_score, created_at
        FROM analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (r *analysisRepository) UpdateStatus(ctx context.Context, ticketID string, status domain.AnalysisStatus) error {
	if r.pool == nil {
		return ErrNoDatabase
	}
	const query = `UPDATE analyses SET status=$1, updated_at=NOW() WHERE ticket_id=$2`
	cmd, err := r.pool.Exec(ctx, query, string(status), ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanSummaries(rows pgx.Rows) ([]AnalysisSummary, error) {
	var result []AnalysisSummary
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(
			&s.TicketID,
			&s.Title,
			&s.Category,
			&s.Priority,
			&s.Status,
			&s.QualityScore,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
