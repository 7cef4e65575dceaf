package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/overseer/internal/domain"
)

// RunRepository persists terminal workflow runs. Runs are written once at
// terminal state and never resumed, so there is no update path.
type RunRepository interface {
	Save(ctx context.Context, run *domain.WorkflowRun) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.WorkflowRun, error)
}

type runRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository instantiates the repository.
func NewRunRepository(pool *pgxpool.Pool) RunRepository {
	return &runRepository{pool: pool}
}

func (r *runRepository) Save(ctx context.Context, run *domain.WorkflowRun) error {
	artifacts, err := json.Marshal(run)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO workflow_runs (id, ticket_id, status, failure_reason, artifacts, started_at, finished_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = r.pool.Exec(ctx, query,
		run.ID,
		run.TicketID,
		run.Status,
		run.FailureReason,
		artifacts,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}

func (r *runRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.WorkflowRun, error) {
	const query = `
        SELECT artifacts FROM workflow_runs
        WHERE ticket_id=$1 ORDER BY finished_at DESC LIMIT 1`
	var artifacts []byte
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&artifacts); err != nil {
		return nil, err
	}
	var run domain.WorkflowRun
	if err := json.Unmarshal(artifacts, &run); err != nil {
		return nil, err
	}
	return &run, nil
}
