package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/config"
	"github.com/askdocs/rag-backend/internal/entity"
	pkgRetry "github.com/askdocs/rag-backend/internal/pkg/retry"
)

func testEmbedderConfig(baseURL string) config.EmbedderConfig {
	return config.EmbedderConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:                   baseURL,
			APIKey:                "test-key",
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           5 * time.Second,
			KeepAlive:             5 * time.Second,
			IdleConnTimeout:       5 * time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
		},
		Model:      "text-embedding-3-small",
		Dimensions: 3,
		BatchSize:  64,
		CacheTTL:   time.Minute,
		Retry: pkgRetry.RetryConfig{
			Attempts: 2,
			Delay:    time.Millisecond,
			MaxDelay: 5 * time.Millisecond,
		},
	}
}

func embeddingServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/embeddings", r.URL.Path)

		var req entity.EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := entity.EmbeddingResponse{Model: req.Model}
		for i := range req.Input {
			resp.Data = append(resp.Data, entity.EmbeddingData{
				Index:     i,
				Embedding: []float32{float32(i), 1, 2},
			})
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	var calls atomic.Int32
	server := embeddingServer(t, &calls)
	defer server.Close()

	conn := NewConnector(testEmbedderConfig(server.URL), zap.NewNop())

	vectors, err := conn.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0, 1, 2}, vectors[0])
	assert.Equal(t, []float32{1, 1, 2}, vectors[1])
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	var calls atomic.Int32
	server := embeddingServer(t, &calls)
	defer server.Close()

	conn := NewConnector(testEmbedderConfig(server.URL), zap.NewNop())

	vectors, err := conn.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
	assert.Zero(t, calls.Load())
}

func TestEmbedQuery_Caches(t *testing.T) {
	var calls atomic.Int32
	server := embeddingServer(t, &calls)
	defer server.Close()

	conn := NewConnector(testEmbedderConfig(server.URL), zap.NewNop())

	first, err := conn.EmbedQuery(context.Background(), "What is Selenium?")
	require.NoError(t, err)

	second, err := conn.EmbedQuery(context.Background(), "What is Selenium?")
	require.NoError(t, err)

	// Identical question, identical vector, one upstream call.
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEmbedBatch_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.EmbeddingResponse{
			Data: []entity.EmbeddingData{{Index: 0, Embedding: []float32{1}}},
		})
	}))
	defer server.Close()

	conn := NewConnector(testEmbedderConfig(server.URL), zap.NewNop())

	_, err := conn.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.EmbeddingResponse{})
	}))
	defer server.Close()

	conn := NewConnector(testEmbedderConfig(server.URL), zap.NewNop())

	_, err := conn.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
}
