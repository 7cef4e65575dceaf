package domain

// SolutionConfidence enumerates the solution stage's self-reported confidence.
type SolutionConfidence string

const (
	ConfidenceLow    SolutionConfidence = "low"
	ConfidenceMedium SolutionConfidence = "medium"
	ConfidenceHigh   SolutionConfidence = "high"
)

// ValidConfidence reports whether c is a known confidence level.
func ValidConfidence(c SolutionConfidence) bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// Solution is the validated output of the solution stage.
type Solution struct {
	Solution      string             `json:"solution"`
	ToolsNeeded   []string           `json:"tools_needed"`
	EstimatedTime string             `json:"estimated_time"`
	Confidence    SolutionConfidence `json:"confidence"`
}

// GuardrailDecision enumerates guardrail outcomes.
type GuardrailDecision string

const (
	GuardrailApprove  GuardrailDecision = "APPROVE"
	GuardrailEscalate GuardrailDecision = "ESCALATE"
)

// GuardrailVerdict records the guardrail gate's decision for a run.
type GuardrailVerdict struct {
	Decision GuardrailDecision `json:"decision"`
	Reason   string            `json:"reason"`
}
