package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/builder"
	"github.com/askdocs/rag-backend/internal/usecase/ingest"
)

func main() {
	dataPath := flag.String("data", "qa_data.json", "Path to the Q&A dataset JSON file")
	// Remaining flags (-env) are parsed by config loading inside the builder.

	ingestUC, db, logger, err := builder.BuildIndexer()
	if err != nil {
		log.Fatal("Failed to build indexer:", err)
	}
	defer db.Close()
	defer logger.Sync()

	pairs, err := ingest.LoadDataset(*dataPath)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.String("path", *dataPath), zap.Error(err))
	}

	logger.Info("Dataset loaded",
		zap.String("path", *dataPath),
		zap.Int("record_count", len(pairs)),
	)

	indexed, err := ingestUC.IndexDataset(context.Background(), pairs)
	if err != nil {
		logger.Fatal("Indexing failed", zap.Int("indexed_before_failure", indexed), zap.Error(err))
	}

	logger.Info("Indexing finished", zap.Int("chunk_count", indexed))
}
