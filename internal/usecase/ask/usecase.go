package ask

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/entity"
)

// Usecase is the two-stage ask pipeline: retrieve relevant chunks, then
// generate a grounded answer. It is built once at startup and is safe for
// concurrent use; all mutable state lives in the per-call PipelineState.
type Usecase struct {
	store     DocumentStore
	generator AnswerGenerator
	topK      int
	logger    *zap.Logger
}

func NewUsecase(
	store DocumentStore,
	generator AnswerGenerator,
	topK int,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		store:     store,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Run threads a fresh PipelineState through retrieve and generate, strictly
// in that order, and returns the final state. No branching, no retries: a
// stage failure aborts the run and partial state is discarded.
func (uc *Usecase) Run(ctx context.Context, question string) (*entity.PipelineState, error) {
	state := &entity.PipelineState{Question: question}

	if err := uc.retrieve(ctx, state); err != nil {
		return nil, err
	}

	if err := uc.generate(ctx, state); err != nil {
		return nil, err
	}

	return state, nil
}

// retrieve populates state.Documents with the top-k most similar chunks,
// preserving the store's ranking order.
func (uc *Usecase) retrieve(ctx context.Context, state *entity.PipelineState) error {
	docs, err := uc.store.SimilaritySearch(ctx, state.Question, uc.topK)
	if err != nil {
		return &entity.RetrievalError{Err: err}
	}

	state.Documents = docs

	ctxzap.Info(ctx, "documents retrieved", zap.Int("document_count", len(docs)))
	return nil
}

// generate assembles the context, builds the two-role prompt and writes the
// model's answer into state.Answer. An empty document set is valid input: the
// model then answers from an empty context per the fallback instruction.
func (uc *Usecase) generate(ctx context.Context, state *entity.PipelineState) error {
	docContext := FormatContext(state.Documents)

	answer, err := uc.generator.Complete(ctx, BuildSystemPrompt(docContext), BuildUserPrompt(state.Question))
	if err != nil {
		return &entity.GenerationError{Err: err}
	}
	if answer == "" {
		return &entity.GenerationError{Err: fmt.Errorf("model returned empty answer")}
	}

	state.Answer = answer

	// Observability signal only: the answer is returned unchanged either way.
	if IsFallbackAnswer(answer) {
		ctxzap.Info(ctx, "fallback answer triggered, no grounding found in the index")
	} else {
		ctxzap.Info(ctx, "answer generated from index context", zap.Int("answer_length", len(answer)))
	}

	return nil
}
