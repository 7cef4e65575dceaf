package domain

import "time"

// RunStatus enumerates terminal states for a workflow run.
type RunStatus string

const (
	RunStatusAutoResolved RunStatus = "AUTO_RESOLVED"
	RunStatusEscalated    RunStatus = "ESCALATED"
	RunStatusFailed       RunStatus = "FAILED"
)

// TicketStatusFor maps a terminal run status onto the ticket lifecycle.
func TicketStatusFor(status RunStatus) TicketStatus {
	switch status {
	case RunStatusAutoResolved:
		return TicketStatusResolvedPending
	case RunStatusEscalated:
		return TicketStatusAwaitingApproval
	}
	return TicketStatusOpen
}

// WorkflowRun aggregates one pass of the pipeline over a single ticket.
// Each artifact is nil until its stage completes validation; the run is
// mutated exclusively by the orchestrator and never resumed once terminal.
type WorkflowRun struct {
	ID             string            `json:"id"`
	TicketID       string            `json:"ticket_id"`
	Intake         *IntakeResult     `json:"intake,omitempty"`
	Classification *Classification   `json:"classification,omitempty"`
	Diagnosis      *Diagnosis        `json:"diagnosis,omitempty"`
	RetrievedDocs  []RetrievedDoc    `json:"retrieved_docs,omitempty"`
	Solution       *Solution         `json:"solution,omitempty"`
	Verdict        *GuardrailVerdict `json:"verdict,omitempty"`
	Assignments    []Assignment      `json:"assignments,omitempty"`
	Status         RunStatus         `json:"status"`
	FailureReason  string            `json:"failure_reason,omitempty"`
	Audit          []AuditEntry      `json:"audit"`
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
}

// AppendAudit records a stage outcome on the run's append-only trail.
func (r *WorkflowRun) AppendAudit(entry AuditEntry) {
	r.Audit = append(r.Audit, entry)
}
