package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/reasoning"
)

const intakeSystemPrompt = `You are an intake agent for IT support. Analyze the raw ticket and return ONLY valid JSON (no markdown, no backticks).

Clean up the subject line, improve and clarify the description with any relevant details from the input, and extract an urgency hint if the text signals one.

Return this exact JSON structure:
{
    "subject": "cleaned subject",
    "description": "improved description",
    "urgency_hint": "critical|high|medium|low or empty string when unclear"
}`

// IntakeAgent normalizes a raw submission into a structured intake result.
type IntakeAgent struct {
	base
}

// NewIntakeAgent builds the intake stage variant.
func NewIntakeAgent(client reasoning.Client, maxTokens int) *IntakeAgent {
	return &IntakeAgent{base{client: client, maxTokens: maxTokens}}
}

// Name implements StageAgent.
func (a *IntakeAgent) Name() domain.StageName {
	return domain.StageIntake
}

type intakePayload struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	UrgencyHint string `json:"urgency_hint"`
}

// Execute implements StageAgent.
func (a *IntakeAgent) Execute(ctx context.Context, wc *WorkflowContext) (StageOutput, error) {
	input, err := json.Marshal(wc.Submission)
	if err != nil {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("marshal submission: %w", err))
	}

	content, err := a.complete(ctx, wc, a.Name(), intakeSystemPrompt, "Ticket Data: "+string(input), intakeTemperature)
	if err != nil {
		return nil, err
	}

	var parsed intakePayload
	extracted := reasoning.ExtractJSON(content)
	if extracted == "" {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("no JSON object in response"))
	}
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return nil, NewMalformedOutput(a.Name(), err)
	}

	result := domain.IntakeResult{
		// requester identity is never rewritten by the model
		UserEmail:   wc.Submission.UserEmail,
		Subject:     strings.TrimSpace(parsed.Subject),
		Description: strings.TrimSpace(parsed.Description),
		UrgencyHint: strings.ToLower(strings.TrimSpace(parsed.UrgencyHint)),
	}

	if err := Validate(a.Name(), result, intakeRules); err != nil {
		return nil, err
	}
	return IntakeOutput{Result: result}, nil
}

var intakeRules = []Rule[domain.IntakeResult]{
	{Field: "subject", Check: func(r domain.IntakeResult) string {
		if r.Subject == "" {
			return "must not be empty"
		}
		return ""
	}},
	{Field: "description", Check: func(r domain.IntakeResult) string {
		if r.Description == "" {
			return "must not be empty"
		}
		return ""
	}},
	{Field: "urgency_hint", Check: func(r domain.IntakeResult) string {
		if r.UrgencyHint == "" {
			return ""
		}
		if !domain.ValidUrgency(domain.Urgency(r.UrgencyHint)) {
			return "must be one of critical, high, medium, low or empty"
		}
		return ""
	}},
}
