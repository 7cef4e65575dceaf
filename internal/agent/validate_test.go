package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/overseer/internal/domain"
)

func TestValidate_IdempotentOnValidValue(t *testing.T) {
	classification := domain.Classification{
		Category:       domain.CategoryHardware,
		Urgency:        domain.UrgencyHigh,
		ExpertiseLevel: domain.ExpertiseTier2,
		Reasoning:      "Boot failure on physical hardware points at the drive or cabling.",
	}

	require.NoError(t, Validate(domain.StageClassify, classification, ClassifierRules))
	// rules are pure: a value that passed once passes again unchanged
	assert.NoError(t, Validate(domain.StageClassify, classification, ClassifierRules))
}

func TestValidate_ReportsFirstFailingRule(t *testing.T) {
	classification := domain.Classification{
		Category:       "printers",
		Urgency:        "urgent",
		ExpertiseLevel: domain.ExpertiseTier1,
		Reasoning:      "short",
	}

	err := Validate(domain.StageClassify, classification, ClassifierRules)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindValidationFailed, stageErr.Kind)
	assert.Equal(t, "category", stageErr.Field)
}
