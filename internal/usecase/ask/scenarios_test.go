package ask

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/entity"
	"github.com/askdocs/rag-backend/internal/integration/llm"
	"github.com/askdocs/rag-backend/internal/store"
)

// Runs the full pipeline against the mock store and mock model, the same
// wiring the builder produces with mocks enabled.
func newMockPipeline() *Usecase {
	logger := zap.NewNop()
	return NewUsecase(store.NewMockStore(logger), llm.NewMockConnector(logger), 4, logger)
}

func TestPipeline_GroundedQuestionGetsPrefixedAnswer(t *testing.T) {
	uc := newMockPipeline()

	state, err := uc.Run(context.Background(), "What is Selenium?")
	require.NoError(t, err)

	require.NotEmpty(t, state.Documents)
	assert.True(t, strings.HasPrefix(state.Answer, entity.AnswerPrefix))
	assert.Contains(t, state.Answer, "browser automation framework")
	assert.False(t, IsFallbackAnswer(state.Answer))
}

func TestPipeline_UnrelatedQuestionGetsFallback(t *testing.T) {
	uc := newMockPipeline()

	state, err := uc.Run(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	assert.Empty(t, state.Documents)
	assert.Equal(t, entity.AnswerPrefix+" "+entity.FallbackAnswer, state.Answer)
	assert.True(t, IsFallbackAnswer(state.Answer))
}
