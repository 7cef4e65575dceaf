package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spec-kit/overseer/internal/domain"
	"github.com/spec-kit/overseer/internal/reasoning"
)

const retrievalSystemPrompt = `You are a documentation retrieval agent for IT support. You receive a diagnosed ticket and candidate knowledge-base documents from a semantic index. Return ONLY valid JSON.

Select the documents genuinely useful for resolving this ticket and score their relevance between 0 and 1. Omit documents that are off-topic; an empty list is acceptable.

Return this exact JSON structure:
{
    "documents": [
        {"doc_id": "id from the candidates", "relevance_score": 0.0}
    ]
}`

// RetrievalAgent filters the document-index candidates down to the
// references worth citing in the solution, ordered by relevance.
type RetrievalAgent struct {
	base
}

// NewRetrievalAgent builds the retrieval stage variant.
func NewRetrievalAgent(client reasoning.Client, maxTokens int) *RetrievalAgent {
	return &RetrievalAgent{base{client: client, maxTokens: maxTokens}}
}

// Name implements StageAgent.
func (a *RetrievalAgent) Name() domain.StageName {
	return domain.StageRetrieve
}

type retrievalInput struct {
	Subject    string          `json:"subject"`
	Diagnosis  string          `json:"diagnosis"`
	Candidates []domain.DocHit `json:"candidates"`
}

type retrievalPayload struct {
	Documents []struct {
		DocID          string  `json:"doc_id"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"documents"`
}

// Execute implements StageAgent. With no candidates there is nothing to
// rank: the stage degrades to an empty document set without a reasoning
// call, per the partial-failure policy for collaborator lookups.
func (a *RetrievalAgent) Execute(ctx context.Context, wc *WorkflowContext) (StageOutput, error) {
	if len(wc.CandidateDocs) == 0 {
		return RetrievalOutput{}, nil
	}

	input, err := json.Marshal(retrievalInput{
		Subject:    wc.Intake.Subject,
		Diagnosis:  wc.Diagnosis.Diagnosis,
		Candidates: wc.CandidateDocs,
	})
	if err != nil {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("marshal retrieval input: %w", err))
	}

	content, err := a.complete(ctx, wc, a.Name(), retrievalSystemPrompt, "Retrieval Input: "+string(input), retrievalTemperature)
	if err != nil {
		return nil, err
	}

	extracted := reasoning.ExtractJSON(content)
	if extracted == "" {
		return nil, NewMalformedOutput(a.Name(), fmt.Errorf("no JSON object in response"))
	}

	var parsed retrievalPayload
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return nil, NewMalformedOutput(a.Name(), err)
	}

	titles := make(map[string]string, len(wc.CandidateDocs))
	for _, doc := range wc.CandidateDocs {
		titles[doc.DocID] = doc.Title
	}

	docs := make([]domain.RetrievedDoc, 0, len(parsed.Documents))
	for _, selected := range parsed.Documents {
		title, known := titles[selected.DocID]
		if !known {
			// hallucinated reference, drop it
			continue
		}
		docs = append(docs, domain.RetrievedDoc{
			DocID:          selected.DocID,
			Title:          title,
			RelevanceScore: selected.RelevanceScore,
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].RelevanceScore > docs[j].RelevanceScore
	})
	return RetrievalOutput{Docs: docs}, nil
}
