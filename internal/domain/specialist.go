package domain

import "time"

// Specialist models a human support agent eligible for ticket assignment.
// The directory owning these records is a read-only collaborator; the
// orchestrator never mutates them.
type Specialist struct {
	ID             string
	Name           string
	Email          string
	Specialization TicketCategory
	TierLevel      ExpertiseLevel
	Building       string
	ActiveTickets  int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AssignmentRole distinguishes the primary assignee from the backup.
type AssignmentRole string

const (
	AssignmentRolePrimary   AssignmentRole = "primary"
	AssignmentRoleSecondary AssignmentRole = "secondary"
)

// Assignment is a weak reference to a specialist selected for a ticket.
type Assignment struct {
	SpecialistID   string         `json:"specialist_id"`
	SpecialistName string         `json:"specialist_name"`
	Specialization TicketCategory `json:"specialization"`
	Role           AssignmentRole `json:"role"`
	AssignedAt     time.Time      `json:"assigned_at"`
}
