package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/reasoning/testutil"
)

func diagnosedContext() *WorkflowContext {
	wc := classifiedContext()
	wc.Classification = &domain.Classification{
		Category:       domain.CategoryHardware,
		Urgency:        domain.UrgencyHigh,
		ExpertiseLevel: domain.ExpertiseTier2,
		Reasoning:      "boot failure points at hardware",
	}
	return wc
}

func TestDiagnosticAgent_ProducesDiagnosis(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"diagnosis": "Likely failed boot device", "potential_causes": ["dead SSD", "loose SATA cable"], "recommended_tests": ["check BIOS boot list", "reseat drive"]}`)}}
	ag := NewDiagnosticAgent(mock, 1024)

	out, err := ag.Execute(context.Background(), diagnosedContext())
	require.NoError(t, err)

	result := out.(DiagnosticOutput)
	assert.Equal(t, "Likely failed boot device", result.Result.Diagnosis)
	assert.Len(t, result.Result.PotentialCauses, 2)
	assert.Empty(t, result.Result.SimilarPastTickets)
}

func TestDiagnosticAgent_ReferencesSimilarResolutions(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"diagnosis": "Known boot-device failure pattern", "potential_causes": ["dead SSD"], "recommended_tests": ["check BIOS boot list"]}`)}}
	ag := NewDiagnosticAgent(mock, 1024)

	wc := diagnosedContext()
	wc.SimilarResolutions = []domain.SimilarResolution{
		{TicketID: "prev-1", Solution: "replaced SSD", Success: true, Score: 1.0},
		{TicketID: "prev-2", Solution: "reseated cable", Success: true, Score: 0.5},
	}

	out, err := ag.Execute(context.Background(), wc)
	require.NoError(t, err)

	result := out.(DiagnosticOutput)
	assert.Equal(t, []string{"prev-1", "prev-2"}, result.Result.SimilarPastTickets)
}

func TestDiagnosticAgent_RequiresCauses(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"diagnosis": "Something is wrong", "potential_causes": [], "recommended_tests": ["reboot"]}`)}}
	ag := NewDiagnosticAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), diagnosedContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindValidationFailed, stageErr.Kind)
	assert.Equal(t, "potential_causes", stageErr.Field)
}
