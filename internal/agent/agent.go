package agent

import (
	"context"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/observability"
	"github.com/spec-kit/overseer/internal/reasoning"
)

// Per-stage temperatures. Classification wants determinism; solution
// generation trades some of it for breadth.
const (
	intakeTemperature     = 0.2
	classifierTemperature = 0.0
	diagnosticTemperature = 0.4
	retrievalTemperature  = 0.3
	solutionTemperature   = 0.7
)

// WorkflowContext threads one run's accumulated artifacts through the
// pipeline. The orchestrator owns it exclusively; agents read upstream
// fields and never write their own output here.
type WorkflowContext struct {
	TicketID   string
	Submission domain.TicketSubmission

	Intake         *domain.IntakeResult
	Classification *domain.Classification
	Diagnosis      *domain.Diagnosis

	// RetrievedDocs is the retrieval stage's validated selection. The
	// solution stage reads these, never the raw index candidates.
	RetrievedDocs []domain.RetrievedDoc

	// Collaborator context prefetched by the orchestrator with a bounded
	// join. Either may be empty when a lookup degraded.
	SimilarResolutions []domain.SimilarResolution
	CandidateDocs      []domain.DocHit

	Metrics *observability.RunMetrics
}

// StageOutput is the closed union of stage results. Exactly one variant
// exists per pipeline stage.
type StageOutput interface {
	stageOutput()
}

// IntakeOutput carries the normalized submission.
type IntakeOutput struct{ Result domain.IntakeResult }

// ClassifierOutput carries the validated classification.
type ClassifierOutput struct{ Result domain.Classification }

// DiagnosticOutput carries the validated diagnosis.
type DiagnosticOutput struct{ Result domain.Diagnosis }

// RetrievalOutput carries the relevance-ordered document references.
type RetrievalOutput struct{ Docs []domain.RetrievedDoc }

// SolutionOutput carries the validated solution.
type SolutionOutput struct{ Result domain.Solution }

func (IntakeOutput) stageOutput()     {}
func (ClassifierOutput) stageOutput() {}
func (DiagnosticOutput) stageOutput() {}
func (RetrievalOutput) stageOutput()  {}
func (SolutionOutput) stageOutput()   {}

// StageAgent performs one reasoning step of the pipeline. Each Execute
// attempt issues exactly one reasoning-service call and returns either a
// validated output or a *StageError.
type StageAgent interface {
	Name() domain.StageName
	Execute(ctx context.Context, wc *WorkflowContext) (StageOutput, error)
}

// base bundles what every agent variant needs to talk to the reasoning
// service.
type base struct {
	client    reasoning.Client
	maxTokens int
}

// complete issues the stage's single reasoning call, mapping transport
// failures to ServiceUnavailable and recording token usage on the run's
// metrics accumulator.
func (b base) complete(ctx context.Context, wc *WorkflowContext, stage domain.StageName, system, user string, temperature float64) (string, error) {
	resp, err := b.client.Complete(ctx, reasoning.Request{
		System:      system,
		User:        user,
		Temperature: temperature,
		MaxTokens:   b.maxTokens,
	})
	if err != nil {
		return "", NewServiceUnavailable(stage, err)
	}
	if wc.Metrics != nil {
		wc.Metrics.AddTokens(string(stage), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	return resp.Content, nil
}
