package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/observability"
	"github.com/spec-kit/overseer/internal/reasoning/testutil"
)

func classifiedContext() *WorkflowContext {
	return &WorkflowContext{
		TicketID: "t-1",
		Submission: domain.TicketSubmission{
			UserEmail:   "user@company.com",
			Subject:     "laptop will not boot",
			Description: "black screen since this morning",
		},
		Intake: &domain.IntakeResult{
			UserEmail:   "user@company.com",
			Subject:     "Laptop will not boot",
			Description: "Black screen on power-up since this morning.",
		},
		Metrics: observability.NewRunMetrics(),
	}
}

func TestClassifierAgent_ParsesAndNormalizes(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text("```json\n" +
		`{"category": "HARDWARE", "urgency": "High", "expertise_level": "Tier2", "reasoning": "boot failure points at hardware"}` +
		"\n```")}}
	ag := NewClassifierAgent(mock, 1024)

	out, err := ag.Execute(context.Background(), classifiedContext())
	require.NoError(t, err)

	result, ok := out.(ClassifierOutput)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryHardware, result.Result.Category)
	assert.Equal(t, domain.UrgencyHigh, result.Result.Urgency)
	assert.Equal(t, domain.ExpertiseTier2, result.Result.ExpertiseLevel)
}

func TestClassifierAgent_UnknownCategory(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"category": "printers", "urgency": "high", "expertise_level": "tier2", "reasoning": "printer jam reported"}`)}}
	ag := NewClassifierAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), classifiedContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindValidationFailed, stageErr.Kind)
	assert.Equal(t, "category", stageErr.Field)
}

func TestClassifierAgent_ShortReasoning(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"category": "hardware", "urgency": "high", "expertise_level": "tier2", "reasoning": "short"}`)}}
	ag := NewClassifierAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), classifiedContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindValidationFailed, stageErr.Kind)
	assert.Equal(t, "reasoning", stageErr.Field)
}

func TestClassifierAgent_MalformedResponse(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text("I cannot classify this ticket, sorry.")}}
	ag := NewClassifierAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), classifiedContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindMalformedOutput, stageErr.Kind)
	assert.Equal(t, domain.StageClassify, stageErr.Stage)
}

func TestClassifierAgent_ServiceFailure(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Fail(errors.New("connection refused"))}}
	ag := NewClassifierAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), classifiedContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindServiceUnavailable, stageErr.Kind)
}

func TestClassifierAgent_UsesZeroTemperature(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"category": "software", "urgency": "low", "expertise_level": "tier1", "reasoning": "routine software question"}`)}}
	ag := NewClassifierAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), classifiedContext())
	require.NoError(t, err)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Zero(t, reqs[0].Temperature)
}
