package store

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/entity"
	"github.com/askdocs/rag-backend/internal/repository"
)

// QueryEmbedder turns a query string into a vector for index lookup.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore is the document store client of the ask pipeline: it embeds the
// query and runs a top-k cosine-similarity search over the pgvector index.
type VectorStore struct {
	embedder QueryEmbedder
	repo     repository.DocumentRepository
	logger   *zap.Logger
}

func NewVectorStore(embedder QueryEmbedder, repo repository.DocumentRepository, logger *zap.Logger) *VectorStore {
	return &VectorStore{
		embedder: embedder,
		repo:     repo,
		logger:   logger,
	}
}

// SimilaritySearch returns the k stored chunks most similar to query, in the
// index's descending-similarity order. An empty result is not an error.
func (s *VectorStore) SimilaritySearch(ctx context.Context, query string, k int) ([]entity.RetrievedDocument, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	docs, err := s.repo.SearchSimilar(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search similar documents: %w", err)
	}

	ctxzap.Debug(ctx, "similarity search finished",
		zap.Int("k", k),
		zap.Int("match_count", len(docs)),
	)

	return docs, nil
}
