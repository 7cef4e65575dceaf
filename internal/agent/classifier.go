package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/reasoning"
)

const classifierMinReasoningLen = 10

const classifierSystemPrompt = `You are a classification agent for IT support. Analyze the normalized ticket and return ONLY valid JSON.

Classify into:
- category: hardware, software, network, access, or general
- urgency: critical, high, medium, or low (honor the urgency_hint when plausible)
- expertise_level: tier1 (routine), tier2 (experienced), tier3 (senior engineer)

Return this exact JSON structure:
{
    "category": "one of the categories",
    "urgency": "one of the urgency levels",
    "expertise_level": "tier1|tier2|tier3",
    "reasoning": "short justification for the classification"
}`

// ClassifierAgent maps a normalized ticket onto category, urgency, and the
// required support tier. It runs at temperature zero; identical tickets
// should classify identically.
type ClassifierAgent struct {
	base
}

// NewClassifierAgent builds the classifier stage variant.
func NewClassifierAgent(client reasoning.Client, maxTokens int) *ClassifierAgent {
	return &ClassifierAgent{base{client: client, maxTokens: maxTokens}}
}

// Name implements StageAgent.
func (a *ClassifierAgent) Name() domain.StageName {
	return domain.StageClassify
}

// Execute implements StageAgent.
func (a *ClassifierAgent) Execute(ctx context.Context, wc *WorkflowContext) (StageOutput, error) {
	input, err := json.Marshal(wc.Intake)
	if err != nil {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("marshal intake: %w", err))
	}

	content, err := a.complete(ctx, wc, a.Name(), classifierSystemPrompt, "Ticket Data: "+string(input), classifierTemperature)
	if err != nil {
		return nil, err
	}

	extracted := reasoning.ExtractJSON(content)
	if extracted == "" {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("no JSON object in response"))
	}

	var result domain.Classification
	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		return nil, NewMalformedOutput(a.Name(), err)
	}

	result.Category = domain.TicketCategory(strings.ToLower(string(result.Category)))
	result.Urgency = domain.Urgency(strings.ToLower(string(result.Urgency)))
	result.ExpertiseLevel = domain.ExpertiseLevel(strings.ToLower(string(result.ExpertiseLevel)))
	result.Reasoning = strings.TrimSpace(result.Reasoning)

	if err := Validate(a.Name(), result, ClassifierRules); err != nil {
		return nil, err
	}
	return ClassifierOutput{Result: result}, nil
}

// ClassifierRules are the semantic checks for classifier output.
var ClassifierRules = []Rule[domain.Classification]{
	{Field: "category", Check: func(c domain.Classification) string {
		if !domain.ValidCategory(c.Category) {
			return "unknown category " + string(c.Category)
		}
		return ""
	}},
	{Field: "urgency", Check: func(c domain.Classification) string {
		if !domain.ValidUrgency(c.Urgency) {
			return "must be one of critical, high, medium, low"
		}
		return ""
	}},
	{Field: "expertise_level", Check: func(c domain.Classification) string {
		if !domain.ValidExpertiseLevel(c.ExpertiseLevel) {
			return "must be one of tier1, tier2, tier3"
		}
		return ""
	}},
	{Field: "reasoning", Check: func(c domain.Classification) string {
		if len(c.Reasoning) < classifierMinReasoningLen {
			return fmt.Sprintf("must be at least %d characters", classifierMinReasoningLen)
		}
		return ""
	}},
}
