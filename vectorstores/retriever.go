package vectorstores

import (
	"context"

	"github.com/sevigo/textwindow/schema"
)

// retrieverImpl implements schema.Retriever over a VectorStore.
type retrieverImpl struct {
	store   VectorStore
	numDocs int
}

func (r retrieverImpl) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	return r.store.SimilaritySearch(ctx, query, r.numDocs)
}

// ToRetriever creates a retriever from a vector store.
func ToRetriever(store VectorStore, numDocs int) schema.Retriever {
	return retrieverImpl{store: store, numDocs: numDocs}
}

// Index couples ingestion and retrieval over one store; it satisfies the
// optimizer's per-candidate index contract.
type Index struct {
	store VectorStore
	topK  int
}

func NewIndex(store VectorStore, topK int) *Index {
	if topK <= 0 {
		topK = 4
	}
	return &Index{store: store, topK: topK}
}

func (ix *Index) Index(ctx context.Context, chunks []schema.Chunk) error {
	_, err := ix.store.AddChunks(ctx, chunks)
	return err
}

func (ix *Index) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	return ix.store.SimilaritySearch(ctx, query, ix.topK)
}
