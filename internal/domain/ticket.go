package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen             TicketStatus = "OPEN"
	TicketStatusResolvedPending  TicketStatus = "RESOLVED_PENDING"
	TicketStatusAwaitingApproval TicketStatus = "AWAITING_APPROVAL"
	TicketStatusResolved         TicketStatus = "RESOLVED"
	TicketStatusClosed           TicketStatus = "CLOSED"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	ExternalKey string
	UserEmail   string
	Subject     string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}

// NewExternalKey generates a short human-facing ticket key.
func NewExternalKey() string {
	return "TKT-" + strings.ToUpper(uuid.NewString()[:8])
}

// TicketSubmission is the immutable raw input for one workflow run.
type TicketSubmission struct {
	UserEmail   string `json:"user_email"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// IntakeResult is the normalized submission produced by the intake stage.
type IntakeResult struct {
	UserEmail   string `json:"user_email"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	UrgencyHint string `json:"urgency_hint,omitempty"`
}
