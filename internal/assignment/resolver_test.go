package assignment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/overseer/internal/domain"
)

type fakeDirectory struct {
	specialists map[domain.TicketCategory][]domain.Specialist
	err         error
}

func (d *fakeDirectory) ListBySpecialization(_ context.Context, category domain.TicketCategory) ([]domain.Specialist, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.specialists[category], nil
}

func specialist(id, name string, category domain.TicketCategory, tier domain.ExpertiseLevel, workload int) domain.Specialist {
	return domain.Specialist{
		ID:             id,
		Name:           name,
		Specialization: category,
		TierLevel:      tier,
		ActiveTickets:  workload,
		Active:         true,
	}
}

func hardwareTicket(tier domain.ExpertiseLevel) domain.Classification {
	return domain.Classification{
		Category:       domain.CategoryHardware,
		Urgency:        domain.UrgencyMedium,
		ExpertiseLevel: tier,
	}
}

func TestAssign_PrefersTierMatchOverWorkload(t *testing.T) {
	directory := &fakeDirectory{specialists: map[domain.TicketCategory][]domain.Specialist{
		domain.CategoryHardware: {
			specialist("s-1", "Underqualified Idle", domain.CategoryHardware, domain.ExpertiseTier1, 0),
			specialist("s-2", "Qualified Busy", domain.CategoryHardware, domain.ExpertiseTier2, 4),
		},
	}}
	resolver := NewResolver(directory, zap.NewNop())

	assignments, err := resolver.Assign(context.Background(), hardwareTicket(domain.ExpertiseTier2))
	require.NoError(t, err)
	require.NotEmpty(t, assignments)
	assert.Equal(t, "s-2", assignments[0].SpecialistID)
	assert.Equal(t, domain.AssignmentRolePrimary, assignments[0].Role)
}

func TestAssign_TieBreaksOnWorkloadThenID(t *testing.T) {
	directory := &fakeDirectory{specialists: map[domain.TicketCategory][]domain.Specialist{
		domain.CategoryHardware: {
			specialist("s-b", "Beta", domain.CategoryHardware, domain.ExpertiseTier2, 2),
			specialist("s-a", "Alpha", domain.CategoryHardware, domain.ExpertiseTier2, 2),
			specialist("s-c", "Gamma", domain.CategoryHardware, domain.ExpertiseTier2, 1),
		},
	}}
	resolver := NewResolver(directory, zap.NewNop())

	assignments, err := resolver.Assign(context.Background(), hardwareTicket(domain.ExpertiseTier2))
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "s-c", assignments[0].SpecialistID)
	// equal score and workload falls back to lexicographic id
	assert.Equal(t, "s-a", assignments[1].SpecialistID)
	assert.Equal(t, domain.AssignmentRoleSecondary, assignments[1].Role)
}

func TestAssign_GeneralistFallback(t *testing.T) {
	directory := &fakeDirectory{specialists: map[domain.TicketCategory][]domain.Specialist{
		domain.CategoryGeneral: {
			specialist("g-1", "Generalist", domain.CategoryGeneral, domain.ExpertiseTier1, 0),
		},
	}}
	resolver := NewResolver(directory, zap.NewNop())

	assignments, err := resolver.Assign(context.Background(), hardwareTicket(domain.ExpertiseTier1))
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "g-1", assignments[0].SpecialistID)
}

func TestAssign_EmptyDirectoryIsNotAnError(t *testing.T) {
	resolver := NewResolver(&fakeDirectory{specialists: map[domain.TicketCategory][]domain.Specialist{}}, zap.NewNop())

	assignments, err := resolver.Assign(context.Background(), hardwareTicket(domain.ExpertiseTier2))
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestAssign_InactiveSpecialistsIgnored(t *testing.T) {
	inactive := specialist("s-1", "On Leave", domain.CategoryHardware, domain.ExpertiseTier3, 0)
	inactive.Active = false
	directory := &fakeDirectory{specialists: map[domain.TicketCategory][]domain.Specialist{
		domain.CategoryHardware: {inactive},
	}}
	resolver := NewResolver(directory, zap.NewNop())

	assignments, err := resolver.Assign(context.Background(), hardwareTicket(domain.ExpertiseTier2))
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestAssign_NoSecondaryWhenScoreNotPositive(t *testing.T) {
	directory := &fakeDirectory{specialists: map[domain.TicketCategory][]domain.Specialist{
		domain.CategoryHardware: {
			specialist("s-1", "Qualified", domain.CategoryHardware, domain.ExpertiseTier2, 0),
			specialist("s-2", "Swamped Junior", domain.CategoryHardware, domain.ExpertiseTier1, 3),
		},
	}}
	resolver := NewResolver(directory, zap.NewNop())

	assignments, err := resolver.Assign(context.Background(), hardwareTicket(domain.ExpertiseTier2))
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "s-1", assignments[0].SpecialistID)
}

func TestAssign_DirectoryErrorPropagates(t *testing.T) {
	resolver := NewResolver(&fakeDirectory{err: errors.New("directory down")}, zap.NewNop())

	_, err := resolver.Assign(context.Background(), hardwareTicket(domain.ExpertiseTier2))
	assert.Error(t, err)
}
