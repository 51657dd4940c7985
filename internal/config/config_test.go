package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ragdb")
	t.Setenv("LLM_SERVICE_URL", "https://api.openai.com/v1")
	t.Setenv("EMBEDDER_SERVICE_URL", "https://api.openai.com/v1")
}

func TestParse_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 4, cfg.RetrievalCfg.TopK)
	assert.Equal(t, "documents", cfg.RetrievalCfg.TableName)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLMCfg.Model)
	assert.Zero(t, cfg.LLMCfg.Temperature)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbedderCfg.Model)
	assert.Equal(t, 1536, cfg.EmbedderCfg.Dimensions)
	assert.False(t, cfg.EnableMocks)
}

func TestParse_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LLM_SERVICE_URL", "https://api.openai.com/v1")
	t.Setenv("EMBEDDER_SERVICE_URL", "https://api.openai.com/v1")

	_, err := parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestParse_MocksRelaxServiceURLs(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")

	cfg, err := parse()
	require.NoError(t, err)
	assert.True(t, cfg.EnableMocks)
}

func TestParse_InvalidTopK(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETRIEVAL_TOP_K", "0")

	_, err := parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RETRIEVAL_TOP_K")
}

func TestParse_InvalidTemperature(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_TEMPERATURE", "3.5")

	_, err := parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_TEMPERATURE")
}

func TestParse_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETRIEVAL_TOP_K", "8")
	t.Setenv("RETRIEVAL_TABLE_NAME", "qa_chunks")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_RETRY_ATTEMPTS", "5")

	cfg, err := parse()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.RetrievalCfg.TopK)
	assert.Equal(t, "qa_chunks", cfg.RetrievalCfg.TableName)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMCfg.Model)
	assert.Equal(t, uint(5), cfg.LLMCfg.Retry.Attempts)
}
