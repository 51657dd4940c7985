package repository

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/entity"
)

// DocumentRepository is the persistence interface of the vector index.
type DocumentRepository interface {
	UpsertDocuments(ctx context.Context, docs []entity.Document, embeddings [][]float32) error
	SearchSimilar(ctx context.Context, embedding []float32, k int) ([]entity.RetrievedDocument, error)
	CountDocuments(ctx context.Context) (int64, error)
}

// DocumentPostgres stores document chunks and their embeddings in a pgvector
// table and serves cosine-similarity search over them.
type DocumentPostgres struct {
	db        *pgxpool.Pool
	tableName string
}

func NewDocumentPostgres(db *pgxpool.Pool, tableName string) *DocumentPostgres {
	return &DocumentPostgres{
		db:        db,
		tableName: tableName,
	}
}

// UpsertDocuments writes docs and their embeddings in one transaction.
// docs[i] pairs with embeddings[i].
func (r *DocumentPostgres) UpsertDocuments(ctx context.Context, docs []entity.Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("got %d documents but %d embeddings", len(docs), len(embeddings))
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, content, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`,
		r.tableName)

	for i, doc := range docs {
		_, err := tx.Exec(ctx, stmt, doc.ID, doc.Content, pgvector.NewVector(embeddings[i]))
		if err != nil {
			ctxzap.Error(ctx, "failed to upsert document", zap.String("document_id", doc.ID), zap.Error(err))
			return fmt.Errorf("upsert document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// SearchSimilar returns the k chunks closest to the query embedding under
// cosine distance, most similar first. Zero matches is a valid empty result.
func (r *DocumentPostgres) SearchSimilar(ctx context.Context, embedding []float32, k int) ([]entity.RetrievedDocument, error) {
	query := fmt.Sprintf(`
		SELECT content, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		r.tableName)

	rows, err := r.db.Query(ctx, query, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("query similar documents: %w", err)
	}
	defer rows.Close()

	var docs []entity.RetrievedDocument
	for rows.Next() {
		var doc entity.RetrievedDocument
		if err := rows.Scan(&doc.Content, &doc.Score); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return docs, nil
}

// CountDocuments reports the index size, used by the indexer for logging.
func (r *DocumentPostgres) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.tableName)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}
