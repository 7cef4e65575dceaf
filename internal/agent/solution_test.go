package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/reasoning/testutil"
)

func TestSolutionAgent_ParsesSolution(t *testing.T) {
	// trailing comma and code fence exercise the JSON cleanup path
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text("```json\n" +
		`{
            "solution": "Reseat the SATA cable, then verify the drive appears in BIOS.",
            "tools_needed": ["screwdriver"],
            "estimated_time": "30 minutes",
            "confidence": "HIGH",
        }` + "\n```")}}
	ag := NewSolutionAgent(mock, 1024)

	out, err := ag.Execute(context.Background(), retrievalContext())
	require.NoError(t, err)

	result := out.(SolutionOutput)
	assert.Equal(t, domain.ConfidenceHigh, result.Result.Confidence)
	assert.Equal(t, "30 minutes", result.Result.EstimatedTime)
}

func TestSolutionAgent_PromptCarriesOnlyRetrievedDocs(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"solution": "Replace the SSD.", "tools_needed": [], "estimated_time": "1 hour", "confidence": "high"}`)}}
	ag := NewSolutionAgent(mock, 1024)

	wc := retrievalContext()
	wc.RetrievedDocs = []domain.RetrievedDoc{
		{DocID: "kb-2", Title: "SSD replacement guide", RelevanceScore: 0.95},
	}

	_, err := ag.Execute(context.Background(), wc)
	require.NoError(t, err)

	prompt := mock.Requests()[0].User
	assert.Contains(t, prompt, "kb-2")
	assert.NotContains(t, prompt, "kb-1")
}

func TestSolutionAgent_EmptySelectionOmitsDocumentation(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"solution": "Escalate to hardware support.", "tools_needed": [], "estimated_time": "1 hour", "confidence": "medium"}`)}}
	ag := NewSolutionAgent(mock, 1024)

	// raw candidates exist but nothing was selected; none of them may leak
	wc := retrievalContext()
	wc.RetrievedDocs = nil

	_, err := ag.Execute(context.Background(), wc)
	require.NoError(t, err)

	prompt := mock.Requests()[0].User
	assert.NotContains(t, prompt, "kb-1")
	assert.NotContains(t, prompt, "kb-2")
	assert.NotContains(t, prompt, "documentation")
}

func TestSolutionAgent_InvalidConfidenceRejected(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"solution": "Do the thing.", "tools_needed": [], "estimated_time": "1 hour", "confidence": "certain"}`)}}
	ag := NewSolutionAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), retrievalContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindValidationFailed, stageErr.Kind)
	assert.Equal(t, "confidence", stageErr.Field)
}

func TestSolutionAgent_MissingEstimateRejected(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"solution": "Do the thing.", "tools_needed": [], "estimated_time": "", "confidence": "medium"}`)}}
	ag := NewSolutionAgent(mock, 1024)

	_, err := ag.Execute(context.Background(), retrievalContext())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "estimated_time", stageErr.Field)
}
