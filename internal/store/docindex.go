package store

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/spec-kit/overseer/internal/config"
	"github.com/spec-kit/overseer/internal/domain"
)

// DocumentIndex is an embedded nearest-neighbor index over knowledge-base
// documents, backed by chromem-go. Search is read-only and safe for
// concurrent callers; indexing happens out-of-band.
type DocumentIndex struct {
	collection *chromem.Collection
	topK       int
	logger     *zap.Logger
}

// NewDocumentIndex opens (or creates) the persistent index collection.
func NewDocumentIndex(cfg config.DocIndexConfig, embed chromem.EmbeddingFunc, logger *zap.Logger) (*DocumentIndex, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("open document index: %w", err)
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", cfg.Collection, err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	return &DocumentIndex{collection: collection, topK: topK, logger: logger}, nil
}

// Index adds or replaces knowledge-base documents.
func (d *DocumentIndex) Index(ctx context.Context, docs []domain.DocHit) error {
	if len(docs) == 0 {
		return nil
	}
	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:       doc.DocID,
			Content:  doc.Content,
			Metadata: map[string]string{"title": doc.Title},
		}
	}
	return d.collection.AddDocuments(ctx, chromemDocs, 1)
}

// Search returns up to topK documents nearest to the query, best first.
// An empty index yields an empty result rather than an error.
func (d *DocumentIndex) Search(ctx context.Context, query string, topK int) ([]domain.DocHit, error) {
	if topK <= 0 {
		topK = d.topK
	}
	count := d.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := d.collection.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query document index: %w", err)
	}

	hits := make([]domain.DocHit, len(results))
	for i, res := range results {
		hits[i] = domain.DocHit{
			DocID:   res.ID,
			Title:   res.Metadata["title"],
			Content: res.Content,
			Score:   float64(res.Similarity),
		}
	}
	return hits, nil
}
