package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/config"
	"github.com/askdocs/rag-backend/internal/entity"
	"github.com/askdocs/rag-backend/internal/integration/common"
	pkghttp "github.com/askdocs/rag-backend/pkg/http"
)

const chatCompletionsEndpoint = "/chat/completions"

// Connector talks to an OpenAI-compatible chat completions service. Model and
// temperature are fixed at construction; the pipeline only supplies prompts.
type Connector struct {
	config    config.LLMConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete generates a completion for the given system and user prompts.
// Transient failures are retried here; callers never retry.
func (c *Connector) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := &entity.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []entity.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	ctxzap.Debug(ctx, "requesting chat completion",
		zap.String("model", c.config.Model),
		zap.Float64("temperature", c.config.Temperature),
	)

	var resp entity.ChatCompletionResponse
	err := retry.Do(func() error {
		resp = entity.ChatCompletionResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, chatCompletionsEndpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
	)...)
	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion request: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completion returned no content")
	}

	answer := resp.Choices[0].Message.Content
	ctxzap.Debug(ctx, "chat completion received",
		zap.Int("answer_length", len(answer)),
		zap.String("finish_reason", resp.Choices[0].FinishReason),
	)

	return answer, nil
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
