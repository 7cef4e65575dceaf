package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/overseer/internal/domain"
)

func approvableSolution() domain.Solution {
	return domain.Solution{
		Solution:      "Reseat the SATA cable and verify the drive in BIOS.",
		EstimatedTime: "30 minutes",
		Confidence:    domain.ConfidenceHigh,
	}
}

func routineClassification() domain.Classification {
	return domain.Classification{
		Category:       domain.CategoryHardware,
		Urgency:        domain.UrgencyMedium,
		ExpertiseLevel: domain.ExpertiseTier2,
	}
}

func TestEvaluate_ApprovesSafeSolution(t *testing.T) {
	verdict := NewEvaluator().Evaluate(approvableSolution(), routineClassification())
	assert.Equal(t, domain.GuardrailApprove, verdict.Decision)
	assert.NotEmpty(t, verdict.Reason)
}

func TestEvaluate_LowConfidenceAlwaysEscalates(t *testing.T) {
	evaluator := NewEvaluator()
	solution := approvableSolution()
	solution.Confidence = domain.ConfidenceLow

	urgencies := []domain.Urgency{domain.UrgencyCritical, domain.UrgencyHigh, domain.UrgencyMedium, domain.UrgencyLow}
	for _, category := range domain.KnownCategories {
		for _, urgency := range urgencies {
			classification := domain.Classification{
				Category:       category,
				Urgency:        urgency,
				ExpertiseLevel: domain.ExpertiseTier3,
			}
			verdict := evaluator.Evaluate(solution, classification)
			assert.Equal(t, domain.GuardrailEscalate, verdict.Decision,
				"category=%s urgency=%s", category, urgency)
		}
	}
}

func TestEvaluate_CriticalTier1Escalates(t *testing.T) {
	classification := routineClassification()
	classification.Urgency = domain.UrgencyCritical
	classification.ExpertiseLevel = domain.ExpertiseTier1

	verdict := NewEvaluator().Evaluate(approvableSolution(), classification)
	assert.Equal(t, domain.GuardrailEscalate, verdict.Decision)
}

func TestEvaluate_CriticalTier2Approves(t *testing.T) {
	classification := routineClassification()
	classification.Urgency = domain.UrgencyCritical
	classification.ExpertiseLevel = domain.ExpertiseTier2

	verdict := NewEvaluator().Evaluate(approvableSolution(), classification)
	assert.Equal(t, domain.GuardrailApprove, verdict.Decision)
}

func TestEvaluate_RiskKeywordEscalates(t *testing.T) {
	solution := approvableSolution()
	solution.Solution = "Back up the profile, then run RM -RF on the corrupted cache directory."

	verdict := NewEvaluator().Evaluate(solution, routineClassification())
	assert.Equal(t, domain.GuardrailEscalate, verdict.Decision)
	assert.Contains(t, verdict.Reason, "rm -rf")
}

func TestEvaluate_CustomKeywords(t *testing.T) {
	evaluator := NewEvaluatorWithKeywords([]string{"rotate the master key"})
	solution := approvableSolution()
	solution.Solution = "Rotate the master key for the vault."

	verdict := evaluator.Evaluate(solution, routineClassification())
	assert.Equal(t, domain.GuardrailEscalate, verdict.Decision)
}

func TestEvaluate_Deterministic(t *testing.T) {
	evaluator := NewEvaluator()
	solution := approvableSolution()
	classification := routineClassification()

	first := evaluator.Evaluate(solution, classification)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, evaluator.Evaluate(solution, classification))
	}
}
