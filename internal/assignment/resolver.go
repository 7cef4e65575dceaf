// Package assignment routes classified tickets to human specialists.
package assignment

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/overseer/internal/domain"
)

// tierMatchBonus rewards specialists whose tier meets or exceeds the
// ticket's required expertise level. It must outweigh realistic workloads
// so a matching senior is not starved by a few open tickets.
const tierMatchBonus = 10

// Directory is the read-only specialist lookup collaborator.
type Directory interface {
	ListBySpecialization(ctx context.Context, category domain.TicketCategory) ([]domain.Specialist, error)
}

// Resolver scores specialists against a classification and picks a primary
// and, when warranted, a secondary assignee.
type Resolver struct {
	directory Directory
	logger    *zap.Logger
}

// NewResolver builds the resolver.
func NewResolver(directory Directory, logger *zap.Logger) *Resolver {
	return &Resolver{directory: directory, logger: logger}
}

type scoredSpecialist struct {
	specialist domain.Specialist
	score      int
}

// Assign returns zero, one, or two assignments. An empty result is not an
// error: the ticket stays unassigned pending human triage.
func (r *Resolver) Assign(ctx context.Context, classification domain.Classification) ([]domain.Assignment, error) {
	candidates, err := r.directory.ListBySpecialization(ctx, classification.Category)
	if err != nil {
		return nil, err
	}
	if len(active(candidates)) == 0 && classification.Category != domain.CategoryGeneral {
		// generalist fallback when no exact specialization exists
		candidates, err = r.directory.ListBySpecialization(ctx, domain.CategoryGeneral)
		if err != nil {
			return nil, err
		}
	}

	scored := make([]scoredSpecialist, 0, len(candidates))
	for _, sp := range active(candidates) {
		scored = append(scored, scoredSpecialist{
			specialist: sp,
			score:      score(sp, classification.ExpertiseLevel),
		})
	}
	if len(scored) == 0 {
		r.logger.Warn("no eligible specialist",
			zap.String("category", string(classification.Category)))
		return nil, nil
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].specialist.ActiveTickets != scored[j].specialist.ActiveTickets {
			return scored[i].specialist.ActiveTickets < scored[j].specialist.ActiveTickets
		}
		return scored[i].specialist.ID < scored[j].specialist.ID
	})

	now := time.Now().UTC()
	assignments := []domain.Assignment{toAssignment(scored[0].specialist, domain.AssignmentRolePrimary, now)}

	if len(scored) > 1 && scored[1].score > 0 {
		assignments = append(assignments, toAssignment(scored[1].specialist, domain.AssignmentRoleSecondary, now))
	}
	return assignments, nil
}

// score is tier_match_bonus minus current workload.
func score(sp domain.Specialist, required domain.ExpertiseLevel) int {
	s := -sp.ActiveTickets
	if domain.TierRank(sp.TierLevel) >= domain.TierRank(required) {
		s += tierMatchBonus
	}
	return s
}

func active(specialists []domain.Specialist) []domain.Specialist {
	result := make([]domain.Specialist, 0, len(specialists))
	for _, sp := range specialists {
		if sp.Active {
			result = append(result, sp)
		}
	}
	return result
}

func toAssignment(sp domain.Specialist, role domain.AssignmentRole, at time.Time) domain.Assignment {
	return domain.Assignment{
		SpecialistID:   sp.ID,
		SpecialistName: sp.Name,
		Specialization: sp.Specialization,
		Role:           role,
		AssignedAt:     at,
	}
}
