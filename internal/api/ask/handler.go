package ask

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/askdocs/rag-backend/internal/entity"
	"github.com/askdocs/rag-backend/internal/pkg/logger"
	"github.com/askdocs/rag-backend/internal/pkg/response"
)

type Handler struct {
	usecase AskUsecase
}

func NewHandler(usecase AskUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// AskRequest is the POST /ask request body.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse echoes the question verbatim next to the generated answer.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Ask handles POST /ask - answer a question grounded in the indexed documents
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validated here, at the boundary: the pipeline is never invoked for a
	// blank question. The trimmed text is what the pipeline sees and echoes.
	question := strings.TrimSpace(req.Question)
	if question == "" {
		ctxzap.Info(ctx, "rejected empty question")
		response.Error(w, http.StatusBadRequest, entity.ErrEmptyQuestion.Error())
		return
	}

	ctx = logger.AddFields(ctx, zap.Int("question_length", len(question)))
	ctxzap.Info(ctx, "running ask pipeline")

	state, err := h.usecase.Run(ctx, question)
	if err != nil {
		h.handlePipelineError(ctx, w, err)
		return
	}

	response.Success(w, AskResponse{
		Question: state.Question,
		Answer:   state.Answer,
	})
}

// Home handles GET / - liveness string
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Document Q&A backend is running."))
}

// handlePipelineError maps stage errors to a generic user-facing message
// plus a diagnostic detail string. Credentials never reach either field:
// connector errors carry status codes and wrapped causes only.
func (h *Handler) handlePipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	var retrievalErr *entity.RetrievalError
	var generationErr *entity.GenerationError

	switch {
	case errors.As(err, &retrievalErr):
		ctxzap.Error(ctx, "document retrieval failed", zap.Error(err))
	case errors.As(err, &generationErr):
		ctxzap.Error(ctx, "answer generation failed", zap.Error(err))
	default:
		ctxzap.Error(ctx, "ask pipeline failed", zap.Error(err))
	}

	response.ErrorWithDetails(w, http.StatusInternalServerError,
		"Something went wrong while generating the answer.", err.Error())
}
