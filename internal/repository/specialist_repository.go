package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/overseer/internal/domain"
)

// SpecialistRepository is the read-only specialist directory. Records are
// seeded by migration and managed outside this service.
type SpecialistRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Specialist, error)
	ListBySpecialization(ctx context.Context, category domain.TicketCategory) ([]domain.Specialist, error)
	List(ctx context.Context) ([]domain.Specialist, error)
}

type specialistRepository struct {
	pool *pgxpool.Pool
}

// NewSpecialistRepository instantiates the repository.
func NewSpecialistRepository(pool *pgxpool.Pool) SpecialistRepository {
	return &specialistRepository{pool: pool}
}

const specialistColumns = `
        id, name, email, specialization, tier_level, building,
        active_tickets, active_flag, created_at, updated_at`

func (r *specialistRepository) GetByID(ctx context.Context, id string) (*domain.Specialist, error) {
	const query = `SELECT` + specialistColumns + ` FROM specialists WHERE id=$1`
	var sp domain.Specialist
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sp.ID,
		&sp.Name,
		&sp.Email,
		&sp.Specialization,
		&sp.TierLevel,
		&sp.Building,
		&sp.ActiveTickets,
		&sp.Active,
		&sp.CreatedAt,
		&sp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *specialistRepository) ListBySpecialization(ctx context.Context, category domain.TicketCategory) ([]domain.Specialist, error) {
	const query = `SELECT` + specialistColumns + ` FROM specialists WHERE specialization=$1 ORDER BY id`
	return r.list(ctx, query, category)
}

func (r *specialistRepository) List(ctx context.Context) ([]domain.Specialist, error) {
	const query = `SELECT` + specialistColumns + ` FROM specialists ORDER BY id`
	return r.list(ctx, query)
}

func (r *specialistRepository) list(ctx context.Context, query string, args ...any) ([]domain.Specialist, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Specialist
	for rows.Next() {
		var sp domain.Specialist
		if err := rows.Scan(
			&sp.ID,
			&sp.Name,
			&sp.Email,
			&sp.Specialization,
			&sp.TierLevel,
			&sp.Building,
			&sp.ActiveTickets,
			&sp.Active,
			&sp.CreatedAt,
			&sp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sp)
	}
	return result, rows.Err()
}
