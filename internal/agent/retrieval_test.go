package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/reasoning/testutil"
)

func retrievalContext() *WorkflowContext {
	wc := diagnosedContext()
	wc.Diagnosis = &domain.Diagnosis{
		Diagnosis:        "Likely failed boot device",
		PotentialCauses:  []string{"dead SSD"},
		RecommendedTests: []string{"check BIOS boot list"},
	}
	wc.CandidateDocs = []domain.DocHit{
		{DocID: "kb-1", Title: "Boot troubleshooting", Content: "...", Score: 0.9},
		{DocID: "kb-2", Title: "SSD replacement guide", Content: "...", Score: 0.8},
	}
	return wc
}

func TestRetrievalAgent_SkipsReasoningWithoutCandidates(t *testing.T) {
	mock := &testutil.MockClient{}
	ag := NewRetrievalAgent(mock, 1024)

	wc := retrievalContext()
	wc.CandidateDocs = nil

	out, err := ag.Execute(context.Background(), wc)
	require.NoError(t, err)
	assert.Empty(t, out.(RetrievalOutput).Docs)
	assert.Zero(t, mock.Calls())
}

func TestRetrievalAgent_RanksAndDropsHallucinations(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(
		`{"documents": [
            {"doc_id": "kb-2", "relevance_score": 0.95},
            {"doc_id": "kb-999", "relevance_score": 0.99},
            {"doc_id": "kb-1", "relevance_score": 0.4}
        ]}`)}}
	ag := NewRetrievalAgent(mock, 1024)

	out, err := ag.Execute(context.Background(), retrievalContext())
	require.NoError(t, err)

	docs := out.(RetrievalOutput).Docs
	require.Len(t, docs, 2)
	assert.Equal(t, "kb-2", docs[0].DocID)
	assert.Equal(t, "SSD replacement guide", docs[0].Title)
	assert.Equal(t, "kb-1", docs[1].DocID)
}

func TestRetrievalAgent_EmptySelectionIsValid(t *testing.T) {
	mock := &testutil.MockClient{Script: []testutil.Outcome{testutil.Text(`{"documents": []}`)}}
	ag := NewRetrievalAgent(mock, 1024)

	out, err := ag.Execute(context.Background(), retrievalContext())
	require.NoError(t, err)
	assert.Empty(t, out.(RetrievalOutput).Docs)
}
