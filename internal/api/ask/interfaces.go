package ask

import (
	"context"

	"github.com/askdocs/rag-backend/internal/entity"
)

// AskUsecase runs the retrieve-then-generate pipeline for one question.
type AskUsecase interface {
	Run(ctx context.Context, question string) (*entity.PipelineState, error)
}
