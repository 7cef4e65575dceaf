// Package guardrail implements the safety gate between solution synthesis
// and automatic resolution. The policy is local and deterministic: a model
// call here could silently fail open, so none is made.
package guardrail

import (
	"fmt"
	"strings"

	"github.com/spec-kit/overseer/internal/domain"
)

// defaultRiskKeywords flag solution text describing irreversible or
// destructive actions. Matched case-insensitively.
var defaultRiskKeywords = []string{
	"delete all",
	"drop table",
	"factory reset",
	"format the drive",
	"format disk",
	"reimage",
	"reinstall the operating system",
	"rm -rf",
	"wipe",
	"revoke all access",
	"disable the firewall",
}

// Evaluator applies the escalation policy to a proposed solution.
type Evaluator struct {
	riskKeywords []string
}

// NewEvaluator builds an evaluator with the default risk-keyword policy.
func NewEvaluator() *Evaluator {
	return &Evaluator{riskKeywords: defaultRiskKeywords}
}

// NewEvaluatorWithKeywords builds an evaluator with a custom policy list.
func NewEvaluatorWithKeywords(keywords []string) *Evaluator {
	return &Evaluator{riskKeywords: keywords}
}

// Evaluate decides APPROVE or ESCALATE. Identical inputs always yield the
// identical verdict.
func (e *Evaluator) Evaluate(solution domain.Solution, classification domain.Classification) domain.GuardrailVerdict {
	if solution.Confidence == domain.ConfidenceLow {
		return domain.GuardrailVerdict{
			Decision: domain.GuardrailEscalate,
			Reason:   "solution confidence is low",
		}
	}

	if classification.Urgency == domain.UrgencyCritical && classification.ExpertiseLevel == domain.ExpertiseTier1 {
		return domain.GuardrailVerdict{
			Decision: domain.GuardrailEscalate,
			Reason:   "critical urgency paired with tier1 expertise requires human review",
		}
	}

	lowered := strings.ToLower(solution.Solution)
	for _, keyword := range e.riskKeywords {
		if strings.Contains(lowered, keyword) {
			return domain.GuardrailVerdict{
				Decision: domain.GuardrailEscalate,
				Reason:   fmt.Sprintf("solution mentions destructive action %q", keyword),
			}
		}
	}

	return domain.GuardrailVerdict{
		Decision: domain.GuardrailApprove,
		Reason:   "solution passed confidence and risk checks",
	}
}
