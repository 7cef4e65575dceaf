package domain

import "time"

// StageName identifies one discrete step of the fixed pipeline.
type StageName string

const (
	StageIntake    StageName = "INTAKE"
	StageClassify  StageName = "CLASSIFY"
	StageDiagnose  StageName = "DIAGNOSE"
	StageRetrieve  StageName = "RETRIEVE"
	StageSolve     StageName = "SOLVE"
	StageGuardrail StageName = "GUARDRAIL"
	StageAssign    StageName = "ASSIGN"
)

// AuditOutcome records how a stage concluded.
type AuditOutcome string

const (
	AuditOutcomeOK      AuditOutcome = "ok"
	AuditOutcomeRetried AuditOutcome = "retried"
	AuditOutcomeFailed  AuditOutcome = "failed"
)

// AuditEntry is one append-only record of a stage execution. Entries are
// total-ordered by stage sequence within a run.
type AuditEntry struct {
	Stage        StageName    `json:"stage"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	Outcome      AuditOutcome `json:"outcome"`
	AttemptCount int          `json:"attempt_count"`
	Note         string       `json:"note,omitempty"`
}
