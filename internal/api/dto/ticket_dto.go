package dto

import (
	"time"

	"github.com/spec-kit/overseer/internal/domain"
)

// SubmitTicketRequest payload.
type SubmitTicketRequest struct {
	UserEmail   string `json:"user_email"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string              `json:"id"`
	ExternalKey string              `json:"external_key"`
	UserEmail   string              `json:"user_email"`
	Subject     string              `json:"subject"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// WorkflowRunResponse surfaces the terminal run with whichever artifacts its
// stages produced before reaching a terminal state.
type WorkflowRunResponse struct {
	RunID          string                   `json:"run_id"`
	Status         domain.RunStatus         `json:"status"`
	FailureReason  string                   `json:"failure_reason,omitempty"`
	Classification *domain.Classification   `json:"classification,omitempty"`
	Diagnosis      *domain.Diagnosis        `json:"diagnosis,omitempty"`
	RetrievedDocs  []domain.RetrievedDoc    `json:"retrieved_docs,omitempty"`
	Solution       *domain.Solution         `json:"solution,omitempty"`
	Verdict        *domain.GuardrailVerdict `json:"verdict,omitempty"`
	Assignments    []domain.Assignment      `json:"assignments,omitempty"`
	Audit          []AuditEntryResponse     `json:"audit"`
	StartedAt      time.Time                `json:"started_at"`
	FinishedAt     time.Time                `json:"finished_at"`
}

// SubmitTicketResponse pairs the created ticket with its terminal run.
type SubmitTicketResponse struct {
	Ticket TicketSummary       `json:"ticket"`
	Run    WorkflowRunResponse `json:"run"`
}

// AuditEntryResponse represents one stage record of the audit trail.
type AuditEntryResponse struct {
	Stage        domain.StageName    `json:"stage"`
	Outcome      domain.AuditOutcome `json:"outcome"`
	AttemptCount int                 `json:"attempt_count"`
	Note         string              `json:"note,omitempty"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   time.Time           `json:"finished_at"`
}
