package ask

import (
	"context"

	"github.com/askdocs/rag-backend/internal/entity"
)

// DocumentStore is the similarity-search client consumed by the retrieve
// stage. Results come back in descending-similarity order; zero matches is a
// valid empty result, not an error.
type DocumentStore interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]entity.RetrievedDocument, error)
}

// AnswerGenerator is the language-model client consumed by the generate
// stage. Model identifier and sampling temperature are fixed inside the
// implementation.
type AnswerGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
