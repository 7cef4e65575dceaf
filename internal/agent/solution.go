package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/reasoning"
)

const solutionSystemPrompt = `You are a solution agent for IT support. Based on the diagnosis, retrieved documentation, and prior resolutions, provide a comprehensive remediation plan. Return ONLY valid JSON.

Report your confidence honestly: use "low" when the diagnosis is uncertain or the fix is risky.

Return this exact JSON structure:
{
    "solution": "detailed solution steps",
    "tools_needed": ["tools", "or", "resources"],
    "estimated_time": "time to resolve the issue",
    "confidence": "low|medium|high"
}`

// SolutionAgent synthesizes the remediation plan from everything upstream.
type SolutionAgent struct {
	base
}

// NewSolutionAgent builds the solution stage variant.
func NewSolutionAgent(client reasoning.Client, maxTokens int) *SolutionAgent {
	return &SolutionAgent{base{client: client, maxTokens: maxTokens}}
}

// Name implements StageAgent.
func (a *SolutionAgent) Name() domain.StageName {
	return domain.StageSolve
}

type solutionInput struct {
	Subject         string                     `json:"subject"`
	Classification  *domain.Classification     `json:"classification"`
	Diagnosis       *domain.Diagnosis          `json:"diagnosis"`
	Documentation   []domain.DocHit            `json:"documentation,omitempty"`
	PastResolutions []domain.SimilarResolution `json:"past_resolutions,omitempty"`
}

// Execute implements StageAgent.
func (a *SolutionAgent) Execute(ctx context.Context, wc *WorkflowContext) (StageOutput, error) {
	input, err := json.Marshal(solutionInput{
		Subject:         wc.Intake.Subject,
		Classification:  wc.Classification,
		Diagnosis:       wc.Diagnosis,
		Documentation:   selectedDocumentation(wc),
		PastResolutions: wc.SimilarResolutions,
	})
	if err != nil {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("marshal solution input: %w", err))
	}

	content, err := a.complete(ctx, wc, a.Name(), solutionSystemPrompt, "Solution Input: "+string(input), solutionTemperature)
	if err != nil {
		return nil, err
	}

	extracted := reasoning.ExtractJSON(content)
	if extracted == "" {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("no JSON object in response"))
	}

	var result domain.Solution
	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		return nil, NewMalformedOutput(a.Name(), err)
	}
	result.Solution = strings.TrimSpace(result.Solution)
	result.EstimatedTime = strings.TrimSpace(result.EstimatedTime)
	result.Confidence = domain.SolutionConfidence(strings.ToLower(string(result.Confidence)))

	if err := Validate(a.Name(), result, SolutionRules); err != nil {
		return nil, err
	}
	return SolutionOutput{Result: result}, nil
}

// selectedDocumentation resolves the retrieval stage's selection back to the
// full documents, in the retrieval stage's relevance order. Candidates the
// retrieval stage did not select never reach the solution prompt.
func selectedDocumentation(wc *WorkflowContext) []domain.DocHit {
	if len(wc.RetrievedDocs) == 0 {
		return nil
	}
	byID := make(map[string]domain.DocHit, len(wc.CandidateDocs))
	for _, doc := range wc.CandidateDocs {
		byID[doc.DocID] = doc
	}
	docs := make([]domain.DocHit, 0, len(wc.RetrievedDocs))
	for _, ref := range wc.RetrievedDocs {
		doc, ok := byID[ref.DocID]
		if !ok {
			doc = domain.DocHit{DocID: ref.DocID, Title: ref.Title}
		}
		doc.Score = ref.RelevanceScore
		docs = append(docs, doc)
	}
	return docs
}

// SolutionRules are the semantic checks for solution output.
var SolutionRules = []Rule[domain.Solution]{
	{Field: "solution", Check: func(s domain.Solution) string {
		if s.Solution == "" {
			return "must not be empty"
		}
		return ""
	}},
	{Field: "confidence", Check: func(s domain.Solution) string {
		if !domain.ValidConfidence(s.Confidence) {
			return "must be one of low, medium, high"
		}
		return ""
	}},
	{Field: "estimated_time", Check: func(s domain.Solution) string {
		if s.EstimatedTime == "" {
			return "must not be empty"
		}
		return ""
	}},
}
