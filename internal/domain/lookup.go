package domain

import "time"

// SimilarResolution is one prior resolved ticket returned by the similarity
// store. Score reflects match strength, not resolution quality.
type SimilarResolution struct {
	TicketID   string    `json:"ticket_id"`
	Category   string    `json:"category"`
	Solution   string    `json:"solution"`
	Success    bool      `json:"success"`
	Score      float64   `json:"score"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// ResolutionRecord is written back to the similarity store after a run
// auto-resolves. Entries are keyed by fingerprint; last write wins.
type ResolutionRecord struct {
	TicketID    string
	Fingerprint string
	Category    TicketCategory
	Solution    string
	Success     bool
}

// DocHit is one candidate knowledge-base document from the document index.
type DocHit struct {
	DocID   string  `json:"doc_id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
