package domain

// Diagnosis is the validated output of the diagnostic stage. The
// SimilarPastTickets references are informational only; the referenced
// resolutions live in the similarity store and may expire independently.
type Diagnosis struct {
	Diagnosis          string   `json:"diagnosis"`
	PotentialCauses    []string `json:"potential_causes"`
	RecommendedTests   []string `json:"recommended_tests"`
	SimilarPastTickets []string `json:"similar_past_tickets,omitempty"`
}

// RetrievedDoc is one knowledge-base document selected by the retrieval
// stage, ordered by descending relevance.
type RetrievedDoc struct {
	DocID          string  `json:"doc_id"`
	Title          string  `json:"title"`
	RelevanceScore float64 `json:"relevance_score"`
}
