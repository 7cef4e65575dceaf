package events

import (
	"time"

	"github.com/spec-kit/overseer/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted    EventType = "ticket_submitted"
	EventTicketAutoResolved EventType = "ticket_auto_resolved"
	EventTicketEscalated    EventType = "ticket_escalated"
	EventTicketAssigned     EventType = "ticket_assigned"
	EventRunFailed          EventType = "run_failed"
)

// Event represents a domain event emitted by the orchestrator.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	RunID     string      `json:"run_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	UserEmail string `json:"user_email"`
	Subject   string `json:"subject"`
}

// TicketAutoResolvedPayload payload.
type TicketAutoResolvedPayload struct {
	Category   domain.TicketCategory     `json:"category"`
	Urgency    domain.Urgency            `json:"urgency"`
	Confidence domain.SolutionConfidence `json:"confidence"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	Reason   string                `json:"reason"`
	Category domain.TicketCategory `json:"category"`
	Urgency  domain.Urgency        `json:"urgency"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	Assignments []domain.Assignment `json:"assignments"`
}

// RunFailedPayload payload.
type RunFailedPayload struct {
	Stage  domain.StageName `json:"stage"`
	Reason string           `json:"reason"`
}
