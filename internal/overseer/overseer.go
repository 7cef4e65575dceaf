// Package overseer drives the fixed ticket-resolution pipeline: intake,
// classification, diagnosis, retrieval, solution synthesis, the guardrail
// gate, and specialist assignment. The orchestrator owns all control flow;
// agents never talk to each other or retry themselves.
package overseer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/overseer/internal/agent"
	"github.com/spec-kit/overseer/internal/assignment"
	"github.com/spec-kit/overseer/internal/config"
	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/events"
	"github.com/spec-kit/overseer/internal/guardrail"
	"github.com/spec-kit/overseer/internal/observability"
	"github.com/spec-kit/overseer/internal/repository"
	"github.com/spec-kit/overseer/internal/store"
	"github.com/spec-kit/overseer/pkg/util"
)

// SimilaritySource is the resolution-memory collaborator. A degraded source
// is tolerated: the run continues with empty context.
type SimilaritySource interface {
	Lookup(ctx context.Context, fingerprint string) ([]domain.SimilarResolution, error)
	Record(ctx context.Context, rec domain.ResolutionRecord) error
}

// DocumentSource is the knowledge-base collaborator, equally non-fatal.
type DocumentSource interface {
	Search(ctx context.Context, query string, topK int) ([]domain.DocHit, error)
}

// Dependencies wires the orchestrator's collaborators.
type Dependencies struct {
	Intake     agent.StageAgent
	Classifier agent.StageAgent
	Diagnostic agent.StageAgent
	Retrieval  agent.StageAgent
	Solution   agent.StageAgent

	Guardrail *guardrail.Evaluator
	Resolver  *assignment.Resolver

	Similarity SimilaritySource
	Documents  DocumentSource

	Tickets repository.TicketRepository
	Runs    repository.RunRepository
	Audits  repository.AuditRepository

	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Config     config.OverseerConfig
}

// Result pairs a terminal run with its per-run metrics accumulator.
type Result struct {
	Ticket  *domain.Ticket
	Run     *domain.WorkflowRun
	Metrics *observability.RunMetrics
}

// Overseer executes one workflow run per submission. It is safe for
// concurrent use; each Submit call owns its run state exclusively.
type Overseer struct {
	agents     []agent.StageAgent
	guardrail  *guardrail.Evaluator
	resolver   *assignment.Resolver
	similarity SimilaritySource
	documents  DocumentSource
	tickets    repository.TicketRepository
	runs       repository.RunRepository
	audits     repository.AuditRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.OverseerConfig
}

// New assembles the orchestrator from its dependencies.
func New(deps Dependencies) *Overseer {
	return &Overseer{
		agents: []agent.StageAgent{
			deps.Intake,
			deps.Classifier,
			deps.Diagnostic,
			deps.Retrieval,
			deps.Solution,
		},
		guardrail:  deps.Guardrail,
		resolver:   deps.Resolver,
		similarity: deps.Similarity,
		documents:  deps.Documents,
		tickets:    deps.Tickets,
		runs:       deps.Runs,
		audits:     deps.Audits,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		cfg:        deps.Config,
	}
}

// Submit validates a raw submission, creates the ticket record, and runs the
// pipeline to a terminal state. An error return means the run never started;
// once a ticket exists every outcome, including FAILED, comes back as a
// Result with nil error.
func (o *Overseer) Submit(ctx context.Context, submission domain.TicketSubmission) (*Result, error) {
	if err := validateSubmission(submission); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ExternalKey: domain.NewExternalKey(),
		UserEmail:   submission.UserEmail,
		Subject:     submission.Subject,
		Description: submission.Description,
		Status:      domain.TicketStatusOpen,
	}
	if err := o.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	o.publish(ctx, events.EventTicketSubmitted, ticket.ID, "", events.TicketSubmittedPayload{
		UserEmail: ticket.UserEmail,
		Subject:   ticket.Subject,
	})

	run := &domain.WorkflowRun{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		StartedAt: time.Now().UTC(),
	}
	wc := &agent.WorkflowContext{
		TicketID:   ticket.ID,
		Submission: submission,
		Metrics:    observability.NewRunMetrics(),
	}

	o.runPipeline(ctx, run, wc)
	o.finalize(ctx, ticket, run, wc)

	return &Result{Ticket: ticket, Run: run, Metrics: wc.Metrics}, nil
}

// runPipeline advances the run through the reasoning stages, then the
// guardrail gate and specialist assignment. It always leaves the run in a
// terminal status.
func (o *Overseer) runPipeline(ctx context.Context, run *domain.WorkflowRun, wc *agent.WorkflowContext) {
	for _, ag := range o.agents {
		if ctx.Err() != nil {
			now := time.Now().UTC()
			run.AppendAudit(domain.AuditEntry{
				Stage:      ag.Name(),
				StartedAt:  now,
				FinishedAt: now,
				Outcome:    domain.AuditOutcomeFailed,
				Note:       "cancelled",
			})
			o.failRun(run, ag.Name(), ctx.Err())
			return
		}

		output, entry, err := o.executeStage(ctx, ag, wc)
		run.AppendAudit(entry)
		if err != nil {
			o.failRun(run, ag.Name(), err)
			return
		}
		applyOutput(run, wc, output)

		// Collaborator context is fetched once the category is known, so
		// diagnosis and retrieval see it on their first attempt.
		if ag.Name() == domain.StageClassify {
			o.prefetchLookups(ctx, wc)
		}
	}

	o.runGuardrail(run, wc)
	o.runAssignment(ctx, run, wc)
}

// executeStage runs one agent under the retry policy: at most 1+RetryCap
// attempts, a fixed delay between them, and a single audit entry carrying
// the attempt count. Retries never cross a stage boundary.
func (o *Overseer) executeStage(ctx context.Context, ag agent.StageAgent, wc *agent.WorkflowContext) (agent.StageOutput, domain.AuditEntry, error) {
	entry := domain.AuditEntry{
		Stage:     ag.Name(),
		StartedAt: time.Now().UTC(),
	}
	maxAttempts := 1 + o.cfg.RetryCap
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		entry.AttemptCount = attempt

		attemptStart := time.Now()
		output, err := ag.Execute(ctx, wc)
		wc.Metrics.RecordAttempt(string(ag.Name()), time.Since(attemptStart))

		if err == nil {
			entry.FinishedAt = time.Now().UTC()
			entry.Outcome = domain.AuditOutcomeOK
			if attempt > 1 {
				entry.Outcome = domain.AuditOutcomeRetried
				entry.Note = fmt.Sprintf("succeeded on attempt %d: %v", attempt, lastErr)
			}
			return output, entry, nil
		}

		lastErr = err
		o.logger.Warn("stage attempt failed",
			zap.String("stage", string(ag.Name())),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < maxAttempts {
			if err := o.waitRetryDelay(ctx); err != nil {
				lastErr = err
				break
			}
		}
	}

	exhausted := &agent.ExhaustedError{Stage: ag.Name(), Attempts: entry.AttemptCount, Last: lastErr}
	entry.FinishedAt = time.Now().UTC()
	entry.Outcome = domain.AuditOutcomeFailed
	entry.Note = exhausted.Error()
	return nil, entry, exhausted
}

// waitRetryDelay sleeps the fixed retry delay, returning early when the run
// context is cancelled.
func (o *Overseer) waitRetryDelay(ctx context.Context) error {
	delay := o.cfg.RetryDelay()
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// prefetchLookups joins both collaborator lookups under one bounded timeout.
// Either lookup degrading substitutes empty context and the run continues.
func (o *Overseer) prefetchLookups(ctx context.Context, wc *agent.WorkflowContext) {
	lookupCtx, cancel := context.WithTimeout(ctx, o.cfg.LookupTimeout())
	defer cancel()

	fingerprint := store.Fingerprint(wc.Classification.Category, wc.Submission.Subject)
	query := strings.TrimSpace(wc.Submission.Subject + "\n" + wc.Submission.Description)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		resolutions, err := o.similarity.Lookup(lookupCtx, fingerprint)
		if err != nil {
			o.logger.Warn("similarity lookup degraded",
				zap.String("ticket_id", wc.TicketID),
				zap.String("fingerprint", fingerprint),
				zap.Error(err))
			wc.Metrics.RecordDegradedLookup()
			return
		}
		wc.SimilarResolutions = resolutions
	}()

	go func() {
		defer wg.Done()
		docs, err := o.documents.Search(lookupCtx, query, 0)
		if err != nil {
			o.logger.Warn("document search degraded",
				zap.String("ticket_id", wc.TicketID),
				zap.Error(err))
			wc.Metrics.RecordDegradedLookup()
			return
		}
		wc.CandidateDocs = docs
	}()

	wg.Wait()
}

// runGuardrail applies the deterministic gate. It never retries and never
// fails: the verdict is a business outcome, not an error.
func (o *Overseer) runGuardrail(run *domain.WorkflowRun, wc *agent.WorkflowContext) {
	started := time.Now().UTC()
	verdict := o.guardrail.Evaluate(*run.Solution, *wc.Classification)
	run.Verdict = &verdict

	if verdict.Decision == domain.GuardrailApprove {
		run.Status = domain.RunStatusAutoResolved
	} else {
		run.Status = domain.RunStatusEscalated
	}

	run.AppendAudit(domain.AuditEntry{
		Stage:        domain.StageGuardrail,
		StartedAt:    started,
		FinishedAt:   time.Now().UTC(),
		Outcome:      domain.AuditOutcomeOK,
		AttemptCount: 1,
		Note:         fmt.Sprintf("%s: %s", verdict.Decision, verdict.Reason),
	})
}

// runAssignment picks specialists for the ticket. Both guardrail outcomes
// reach this stage: a human must be findable even for an auto-resolved
// ticket. A directory failure leaves the ticket unassigned, never FAILED.
func (o *Overseer) runAssignment(ctx context.Context, run *domain.WorkflowRun, wc *agent.WorkflowContext) {
	entry := domain.AuditEntry{
		Stage:        domain.StageAssign,
		StartedAt:    time.Now().UTC(),
		Outcome:      domain.AuditOutcomeOK,
		AttemptCount: 1,
	}
	defer func() {
		entry.FinishedAt = time.Now().UTC()
		run.AppendAudit(entry)
	}()

	assignments, err := o.resolver.Assign(ctx, *wc.Classification)
	if err != nil {
		o.logger.Error("specialist directory unavailable",
			zap.String("ticket_id", run.TicketID),
			zap.Error(err))
		entry.Outcome = domain.AuditOutcomeFailed
		entry.Note = fmt.Sprintf("directory unavailable: %v", err)
		return
	}

	run.Assignments = assignments
	if len(assignments) == 0 {
		entry.Note = "no eligible specialist; pending human triage"
		return
	}
	entry.Note = fmt.Sprintf("primary %s", assignments[0].SpecialistName)
}

// failRun marks the run terminal FAILED. Artifacts validated before the
// failing stage remain on the run for the partial audit trail.
func (o *Overseer) failRun(run *domain.WorkflowRun, stage domain.StageName, err error) {
	run.Status = domain.RunStatusFailed
	run.FailureReason = fmt.Sprintf("%s: %v", stage, err)
	o.logger.Error("workflow run failed",
		zap.String("ticket_id", run.TicketID),
		zap.String("stage", string(stage)),
		zap.Error(err))
}

// finalize persists the terminal run, moves the ticket, records resolution
// memory, and publishes events. Persistence here is best-effort: the caller
// still gets the in-memory result when a write fails, and writes survive a
// cancelled request context.
func (o *Overseer) finalize(ctx context.Context, ticket *domain.Ticket, run *domain.WorkflowRun, wc *agent.WorkflowContext) {
	run.FinishedAt = time.Now().UTC()
	persistCtx := context.WithoutCancel(ctx)

	status := domain.TicketStatusFor(run.Status)
	if err := o.tickets.UpdateStatus(persistCtx, ticket.ID, status); err != nil {
		o.logger.Error("ticket status update failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
	} else {
		ticket.Status = status
	}

	if err := o.runs.Save(persistCtx, run); err != nil {
		o.logger.Error("run persistence failed",
			zap.String("run_id", run.ID),
			zap.Error(err))
	}
	if err := o.audits.Append(persistCtx, run.ID, run.TicketID, run.Audit); err != nil {
		o.logger.Error("audit persistence failed",
			zap.String("run_id", run.ID),
			zap.Error(err))
	}

	if run.Status == domain.RunStatusAutoResolved {
		o.recordResolution(persistCtx, run, wc)
	}

	o.publishTerminal(persistCtx, run, wc)
}

// recordResolution writes the approved solution back to resolution memory so
// future runs can reuse it. Failures are logged and swallowed.
func (o *Overseer) recordResolution(ctx context.Context, run *domain.WorkflowRun, wc *agent.WorkflowContext) {
	rec := domain.ResolutionRecord{
		TicketID:    run.TicketID,
		Fingerprint: store.Fingerprint(wc.Classification.Category, wc.Submission.Subject),
		Category:    wc.Classification.Category,
		Solution:    run.Solution.Solution,
		Success:     true,
	}
	if err := o.similarity.Record(ctx, rec); err != nil {
		o.logger.Warn("resolution write-back failed",
			zap.String("ticket_id", run.TicketID),
			zap.Error(err))
	}
}

func (o *Overseer) publishTerminal(ctx context.Context, run *domain.WorkflowRun, wc *agent.WorkflowContext) {
	switch run.Status {
	case domain.RunStatusAutoResolved:
		o.publish(ctx, events.EventTicketAutoResolved, run.TicketID, run.ID, events.TicketAutoResolvedPayload{
			Category:   wc.Classification.Category,
			Urgency:    wc.Classification.Urgency,
			Confidence: run.Solution.Confidence,
		})
	case domain.RunStatusEscalated:
		o.publish(ctx, events.EventTicketEscalated, run.TicketID, run.ID, events.TicketEscalatedPayload{
			Reason:   run.Verdict.Reason,
			Category: wc.Classification.Category,
			Urgency:  wc.Classification.Urgency,
		})
	case domain.RunStatusFailed:
		stage := domain.StageIntake
		if n := len(run.Audit); n > 0 {
			stage = run.Audit[n-1].Stage
		}
		o.publish(ctx, events.EventRunFailed, run.TicketID, run.ID, events.RunFailedPayload{
			Stage:  stage,
			Reason: run.FailureReason,
		})
	}

	if len(run.Assignments) > 0 {
		o.publish(ctx, events.EventTicketAssigned, run.TicketID, run.ID, events.TicketAssignedPayload{
			Assignments: run.Assignments,
		})
	}
}

func (o *Overseer) publish(ctx context.Context, eventType events.EventType, ticketID, runID string, payload interface{}) {
	if o.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := o.dispatcher.Publish(ctx, event); err != nil {
		o.logger.Warn("event publish failed",
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}

// applyOutput copies a validated stage output onto both the run record and
// the shared workflow context consumed by downstream stages.
func applyOutput(run *domain.WorkflowRun, wc *agent.WorkflowContext, output agent.StageOutput) {
	switch out := output.(type) {
	case agent.IntakeOutput:
		result := out.Result
		run.Intake = &result
		wc.Intake = &result
	case agent.ClassifierOutput:
		result := out.Result
		run.Classification = &result
		wc.Classification = &result
	case agent.DiagnosticOutput:
		result := out.Result
		run.Diagnosis = &result
		wc.Diagnosis = &result
	case agent.RetrievalOutput:
		run.RetrievedDocs = out.Docs
		wc.RetrievedDocs = out.Docs
	case agent.SolutionOutput:
		result := out.Result
		run.Solution = &result
	}
}

func validateSubmission(submission domain.TicketSubmission) error {
	if strings.TrimSpace(submission.Subject) == "" {
		return util.NewValidationError("subject is required", map[string]any{"field": "subject"})
	}
	if strings.TrimSpace(submission.Description) == "" {
		return util.NewValidationError("description is required", map[string]any{"field": "description"})
	}
	if _, err := mail.ParseAddress(submission.UserEmail); err != nil {
		return util.NewValidationError("user_email is not a valid address", map[string]any{"field": "user_email"})
	}
	return nil
}
