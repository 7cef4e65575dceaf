package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/observability"
	"github.com/spec-kit/overseer/internal/reasoning/testutil"
)

func submissionContext() *WorkflowContext {
	return &WorkflowContext{
		TicketID: "t-1",
		Submission: domain.TicketSubmission{
			UserEmail:   "user@company.com",
			Subject:     "wifi broke???",
			Description: "cant get online at my desk, urgent!!",
		},
		Metrics: observability.NewRunMetrics(),
	}
}

func TestIntakeAgent_NormalizesSubmission(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"subject": "Wi-Fi connectivity failure at desk", "description": "User cannot reach the network from their desk.", "urgency_hint": "High"}`)}}
	ag := NewIntakeAgent(mock, 1024)

	out, err := ag.Execute(context.Background(), submissionContext())
	require.NoError(t, err)

	result, ok := out.(IntakeOutput)
	require.True(t, ok)
	assert.Equal(t, "Wi-Fi connectivity failure at desk", result.Result.Subject)
	assert.Equal(t, "high", result.Result.UrgencyHint)
}

func TestIntakeAgent_NeverRewritesRequesterEmail(t *testing.T) {
	// the model echoing a different email must not leak through
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"user_email": "attacker@evil.com", "subject": "Wi-Fi down", "description": "No connectivity at desk.", "urgency_hint": ""}`)}}
	ag := NewIntakeAgent(mock, 1024)

	out, err := ag.Execute(context.Background(), submissionContext())
	require.NoError(t, err)

	result := out.(IntakeOutput)
	assert.Equal(t, "user@company.com", result.Result.UserEmail)
}

func TestIntakeAgent_EmptySubjectRejected(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"subject": "  ", "description": "No connectivity at desk.", "urgency_hint": ""}`)}}
	ag := NewIntakeAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), submissionContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindValidationFailed, stageErr.Kind)
	assert.Equal(t, "subject", stageErr.Field)
}

func TestIntakeAgent_InvalidUrgencyHintRejected(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"subject": "Wi-Fi down", "description": "No connectivity.", "urgency_hint": "asap"}`)}}
	ag := NewIntakeAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), submissionContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "urgency_hint", stageErr.Field)
}
