package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/reasoning"
)

const diagnosticSystemPrompt = `You are a diagnostic agent for IT support. Analyze the classified ticket and return ONLY valid JSON.

Provide a technical diagnosis based on the category:
- hardware: physical connections, drivers, device health
- software: versions, configs, conflicts, dependencies
- network: connectivity layers, DNS, routing, ports
- access: credentials, permissions, group memberships

Prior resolutions for similar tickets may be included; treat them as hints, not ground truth.

Return this exact JSON structure:
{
    "diagnosis": "concise technical explanation of the problem",
    "potential_causes": ["specific", "technical", "root", "causes"],
    "recommended_tests": ["diagnostic steps ordered simple to complex"]
}`

// DiagnosticAgent produces a root-cause diagnosis, enriched by similar past
// resolutions when the similarity store had any.
type DiagnosticAgent struct {
	base
}

// NewDiagnosticAgent builds the diagnostic stage variant.
func NewDiagnosticAgent(client reasoning.Client, maxTokens int) *DiagnosticAgent {
	return &DiagnosticAgent{base{client: client, maxTokens: maxTokens}}
}

// Name implements StageAgent.
func (a *DiagnosticAgent) Name() domain.StageName {
	return domain.StageDiagnose
}

type diagnosticInput struct {
	Subject         string                     `json:"subject"`
	Description     string                     `json:"description"`
	Classification  *domain.Classification     `json:"classification"`
	PastResolutions []domain.SimilarResolution `json:"past_resolutions,omitempty"`
}

// Execute implements StageAgent.
func (a *DiagnosticAgent) Execute(ctx context.Context, wc *WorkflowContext) (StageOutput, error) {
	input, err := json.Marshal(diagnosticInput{
		Subject:         wc.Intake.Subject,
		Description:     wc.Intake.Description,
		Classification:  wc.Classification,
		PastResolutions: wc.SimilarResolutions,
	})
	if err != nil {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("marshal diagnostic input: %w", err))
	}

	content, err := a.complete(ctx, wc, a.Name(), diagnosticSystemPrompt, "Classified Ticket Data: "+string(input), diagnosticTemperature)
	if err != nil {
		return nil, err
	}

	extracted := reasoning.ExtractJSON(content)
	if extracted == "" {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("no JSON object in response"))
	}

	var result domain.Diagnosis
	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		return nil, NewMalformedOutput(a.Name(), err)
	}
	result.Diagnosis = strings.TrimSpace(result.Diagnosis)

	// weak references only; the store entries expire on their own schedule
	for _, res := range wc.SimilarResolutions {
		result.SimilarPastTickets = append(result.SimilarPastTickets, res.TicketID)
	}

	if err := Validate(a.Name(), result, DiagnosticRules); err != nil {
		return nil, err
	}
	return DiagnosticOutput{Result: result}, nil
}

// DiagnosticRules are the semantic checks for diagnostic output.
var DiagnosticRules = []Rule[domain.Diagnosis]{
	{Field: "diagnosis", Check: func(d domain.Diagnosis) string {
		if d.Diagnosis == "" {
			return "must not be empty"
		}
		return ""
	}},
	{Field: "potential_causes", Check: func(d domain.Diagnosis) string {
		if len(d.PotentialCauses) < 1 {
			return "must contain at least one cause"
		}
		return ""
	}},
	{Field: "recommended_tests", Check: func(d domain.Diagnosis) string {
		if len(d.RecommendedTests) < 1 {
			return "must contain at least one test"
		}
		return ""
	}},
}
