package store

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/entity"
)

// mock corpus in the same "Q: ...\nA: ..." shape the indexer produces
var mockCorpus = []string{
	"Q: What is Selenium?\nA: Selenium is a browser automation framework.",
	"Q: What is API testing?\nA: API testing verifies that application programming interfaces meet expectations for functionality, reliability and security.",
	"Q: What is regression testing?\nA: Regression testing re-runs existing tests to confirm that recent changes have not broken previously working behavior.",
	"Q: What is a test case?\nA: A test case is a set of conditions and expected results used to determine whether a feature works correctly.",
}

// MockStore serves canned Q&A chunks with naive keyword matching. Questions
// unrelated to the corpus get an empty result, which drives the fallback
// policy downstream.
type MockStore struct {
	logger *zap.Logger
}

func NewMockStore(logger *zap.Logger) *MockStore {
	return &MockStore{
		logger: logger,
	}
}

func (s *MockStore) SimilaritySearch(ctx context.Context, query string, k int) ([]entity.RetrievedDocument, error) {
	ctxzap.Info(ctx, "[MOCK] similarity search", zap.Int("k", k))

	var docs []entity.RetrievedDocument
	for _, chunk := range mockCorpus {
		if len(docs) >= k {
			break
		}
		if keywordMatch(query, chunk) {
			docs = append(docs, entity.RetrievedDocument{
				Content: chunk,
				Score:   0.9 - 0.1*float32(len(docs)),
			})
		}
	}

	ctxzap.Info(ctx, "[MOCK] similarity search finished", zap.Int("match_count", len(docs)))
	return docs, nil
}

var stopwords = map[string]bool{
	"what": true, "when": true, "where": true, "which": true,
	"does": true, "this": true, "that": true, "explain": true,
}

// keywordMatch checks whether any significant word of the query appears in
// the chunk. Crude, but deterministic and good enough for a fake index.
func keywordMatch(query, chunk string) bool {
	lowerChunk := strings.ToLower(chunk)
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, "?.,!\"'")
		if len(word) < 4 || stopwords[word] {
			continue
		}
		if strings.Contains(lowerChunk, word) {
			return true
		}
	}
	return false
}
