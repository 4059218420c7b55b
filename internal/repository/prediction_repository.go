package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PredictionRepository persists the stage prediction log so accuracy
// reporting survives restarts. It mirrors the in-memory tracker and shares
// its attach semantics: feedback lands on the most recent prediction for
// the pair that has none yet.
type PredictionRepository interface {
	LogPrediction(ctx context.Context, stage, ticketID, predicted string, confidence float64) error
	AttachFeedback(ctx context.Context, ticketID, stage, actual, source string) error
}

type predictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository instantiates repository. A nil pool is allowed
// and turns every operation into ErrNoDatabase.
func NewPredictionRepository(pool *pgxpool.Pool) PredictionRepository {
	return &predictionRepository{pool: pool}
}

func (r *predictionRepository) LogPrediction(ctx context.Context, stage, ticketID, predicted string, confidence float64) error {
	if r.pool == nil {
		return ErrNoDatabase
	}
	const query = `
        INSERT INTO predictions (stage, ticket_id, predicted, confidence)
        VALUES ($1,$2,$3,$4)`
	_, err := r.pool.Exec(ctx, query, stage, ticketID, predicted, confidence)
	return err
}

func (r *predictionRepository) AttachFeedback(ctx context.Context, ticketID, stage, actual, source string) error {
	if r.pool == nil {
		return ErrNoDatabase
	}
	const query = `
        UPDATE predictions
        SET actual=$1, feedback_source=$2, correct=(LOWER(predicted)=LOWER($1)), feedback_at=NOW()
        WHERE id = (
            SELECT id FROM predictions
            WHERE ticket_id=$3 AND stage=$4 AND actual IS NULL
            ORDER BY created_at DESC LIMIT 1
        )`
	cmd, err := r.pool.Exec(ctx, query, actual, source, ticketID, stage)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
