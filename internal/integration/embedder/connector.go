package embedder

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/config"
	"github.com/askdocs/rag-backend/internal/entity"
	"github.com/askdocs/rag-backend/internal/integration/common"
	pkghttp "github.com/askdocs/rag-backend/pkg/http"
)

const embeddingsEndpoint = "/embeddings"

// Connector talks to an OpenAI-compatible embeddings service. Query
// embeddings are cached so a repeated question hits the index with the same
// vector and the store lookup stays deterministic.
type Connector struct {
	config    config.EmbedderConfig
	connector *pkghttp.Connector
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbedderConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		cache:     gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:    logger,
	}
}

// EmbedQuery embeds a single query string, consulting the cache first.
func (c *Connector) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := c.cache.Get(text); ok {
		ctxzap.Debug(ctx, "query embedding served from cache")
		return cached.([]float32), nil
	}

	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(text, vectors[0])
	return vectors[0], nil
}

// EmbedBatch embeds texts in one request, preserving input order.
func (c *Connector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := &entity.EmbeddingRequest{
		Model: c.config.Model,
		Input: texts,
	}

	ctxzap.Debug(ctx, "requesting embeddings",
		zap.String("model", c.config.Model),
		zap.Int("text_count", len(texts)),
	)

	var resp entity.EmbeddingResponse
	err := retry.Do(func() error {
		resp = entity.EmbeddingResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, embeddingsEndpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
	)...)
	if err != nil {
		ctxzap.Error(ctx, "embeddings request failed", zap.Error(err))
		return nil, fmt.Errorf("embeddings request: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embeddings response index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	for i, vec := range vectors {
		if len(vec) != c.config.Dimensions {
			return nil, fmt.Errorf("embedding %d has dimension %d, want %d", i, len(vec), c.config.Dimensions)
		}
	}

	return vectors, nil
}

// isRetryable allows retries on network failures and 429/5xx responses only.
func isRetryable(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	return false
}
