package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/entity"
	"github.com/askdocs/rag-backend/internal/repository"
)

// BatchEmbedder embeds a batch of texts, preserving input order.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Usecase loads a Q&A dataset into the vector index: one chunk per pair,
// formatted as "Q: <question>\nA: <answer>", embedded and upserted in
// batches. It runs offline; the server only depends on the resulting table.
type Usecase struct {
	repo      repository.DocumentRepository
	embedder  BatchEmbedder
	batchSize int
	logger    *zap.Logger
}

func NewUsecase(
	repo repository.DocumentRepository,
	embedder BatchEmbedder,
	batchSize int,
	logger *zap.Logger,
) *Usecase {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Usecase{
		repo:      repo,
		embedder:  embedder,
		batchSize: batchSize,
		logger:    logger,
	}
}

// FormatQAPair renders one dataset record into the indexed chunk shape.
func FormatQAPair(pair entity.QAPair) string {
	return fmt.Sprintf("Q: %s\nA: %s", pair.Question, pair.Answer)
}

// LoadDataset reads a JSON array of {question, answer} records.
func LoadDataset(path string) ([]entity.QAPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}

	var pairs []entity.QAPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse dataset JSON: %w", err)
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("dataset contains no records: %s", path)
	}

	return pairs, nil
}

// IndexDataset embeds and upserts all pairs, returning the number of chunks
// written. Chunk ids are derived from content, so re-running the job updates
// rows in place instead of duplicating them.
func (uc *Usecase) IndexDataset(ctx context.Context, pairs []entity.QAPair) (int, error) {
	ctxzap.Info(ctx, "indexing dataset", zap.Int("record_count", len(pairs)))

	docs := make([]entity.Document, 0, len(pairs))
	for _, pair := range pairs {
		content := FormatQAPair(pair)
		docs = append(docs, entity.Document{
			ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(content)).String(),
			Content: content,
		})
	}

	indexed := 0
	for start := 0; start < len(docs); start += uc.batchSize {
		end := min(start+uc.batchSize, len(docs))
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Content
		}

		embeddings, err := uc.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("embed batch starting at %d: %w", start, err)
		}

		if err := uc.repo.UpsertDocuments(ctx, batch, embeddings); err != nil {
			return indexed, fmt.Errorf("upsert batch starting at %d: %w", start, err)
		}

		indexed += len(batch)
		ctxzap.Debug(ctx, "batch indexed", zap.Int("indexed", indexed), zap.Int("total", len(docs)))
	}

	ctxzap.Info(ctx, "dataset indexed", zap.Int("chunk_count", indexed))
	return indexed, nil
}
