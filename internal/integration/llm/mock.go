package llm

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/entity"
)

// MockConnector is a deterministic stand-in for the chat completions service.
// It honors the prompt contract: answers get the fixed prefix, and an empty
// context yields the exact fallback sentence.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating chat completion")

	docContext := extractContext(systemPrompt)
	if docContext == "" {
		return entity.AnswerPrefix + " " + entity.FallbackAnswer, nil
	}

	// Answer with the "A:" line of the first retrieved chunk when the context
	// follows the indexed "Q: ...\nA: ..." shape, otherwise echo the chunk.
	answer := firstAnswerLine(docContext)
	ctxzap.Info(ctx, "[MOCK] chat completion generated", zap.Int("answer_length", len(answer)))

	return entity.AnswerPrefix + " " + answer, nil
}

func extractContext(systemPrompt string) string {
	_, after, found := strings.Cut(systemPrompt, "Context:")
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}

func firstAnswerLine(docContext string) string {
	for _, line := range strings.Split(docContext, "\n") {
		if rest, found := strings.CutPrefix(line, "A: "); found {
			return rest
		}
	}

	first, _, _ := strings.Cut(docContext, "\n\n")
	return strings.TrimSpace(first)
}
