package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/overseer/internal/domain"
)

// AuditRepository persists per-run audit trails. Append is fire-and-forget
// from the orchestrator's point of view: a failure here is logged by the
// caller, never propagated into the workflow result.
type AuditRepository interface {
	Append(ctx context.Context, runID, ticketID string, entries []domain.AuditEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, runID, ticketID string, entries []domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_entries (run_id, ticket_id, seq, stage, outcome, attempt_count, note, started_at, finished_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	for seq, entry := range entries {
		if _, err := r.pool.Exec(ctx, query,
			runID,
			ticketID,
			seq,
			entry.Stage,
			entry.Outcome,
			entry.AttemptCount,
			entry.Note,
			entry.StartedAt,
			entry.FinishedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT stage, outcome, attempt_count, note, started_at, finished_at
        FROM audit_entries WHERE ticket_id=$1 ORDER BY started_at ASC, seq ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.Stage,
			&entry.Outcome,
			&entry.AttemptCount,
			&entry.Note,
			&entry.StartedAt,
			&entry.FinishedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
