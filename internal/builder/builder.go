package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/api"
	askapi "github.com/askdocs/rag-backend/internal/api/ask"
	"github.com/askdocs/rag-backend/internal/config"
	"github.com/askdocs/rag-backend/internal/integration/embedder"
	"github.com/askdocs/rag-backend/internal/integration/llm"
	"github.com/askdocs/rag-backend/internal/repository"
	"github.com/askdocs/rag-backend/internal/store"
	"github.com/askdocs/rag-backend/internal/usecase/ask"
	"github.com/askdocs/rag-backend/internal/usecase/ingest"
)

// Build wires the question-answering server: every singleton (connectors,
// store, pipeline) is constructed once here and injected, never looked up
// ambiently.
func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	var db *pgxpool.Pool
	var documentStore ask.DocumentStore
	var answerGenerator ask.AnswerGenerator

	if cfg.EnableMocks {
		logger.Info("Using mock vector store and language model")
		documentStore = store.NewMockStore(logger)
		answerGenerator = llm.NewMockConnector(logger)
	} else {
		db, err = setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		documentRepo := repository.NewDocumentPostgres(db, cfg.RetrievalCfg.TableName)
		embedderConn := embedder.NewConnector(cfg.EmbedderCfg, logger)
		documentStore = store.NewVectorStore(embedderConn, documentRepo, logger)
		answerGenerator = llm.NewConnector(cfg.LLMCfg, logger)
	}
	logger.Info("Document store and answer generator initialized")

	askUC := ask.NewUsecase(documentStore, answerGenerator, cfg.RetrievalCfg.TopK, logger)
	logger.Info("Ask pipeline initialized", zap.Int("top_k", cfg.RetrievalCfg.TopK))

	askHandler := askapi.NewHandler(askUC)
	router := api.SetupRouter(askHandler, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildIndexer wires the offline ingestion job: migrations, embedder,
// document repository and the ingest usecase.
func BuildIndexer() (*ingest.Usecase, *pgxpool.Pool, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, nil, nil, fmt.Errorf("DATABASE_URL is required for indexing")
	}

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	documentRepo := repository.NewDocumentPostgres(db, cfg.RetrievalCfg.TableName)
	embedderConn := embedder.NewConnector(cfg.EmbedderCfg, logger)

	ingestUC := ingest.NewUsecase(documentRepo, embedderConn, cfg.EmbedderCfg.BatchSize, logger)
	logger.Info("Indexer built successfully")

	return ingestUC, db, logger, nil
}
