package ask

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/rag-backend/internal/entity"
	"github.com/askdocs/rag-backend/internal/pkg/response"
)

type stubUsecase struct {
	state       *entity.PipelineState
	err         error
	calls       int
	gotQuestion string
}

func (s *stubUsecase) Run(ctx context.Context, question string) (*entity.PipelineState, error) {
	s.calls++
	s.gotQuestion = question
	return s.state, s.err
}

func doAsk(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Ask(rec, req)
	return rec
}

func TestAsk_Success(t *testing.T) {
	uc := &stubUsecase{state: &entity.PipelineState{
		Question: "What is Selenium?",
		Answer:   "Thanks for asking! Selenium is a browser automation framework.",
	}}

	rec := doAsk(NewHandler(uc), `{"question": "What is Selenium?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "What is Selenium?", resp.Question)
	assert.Equal(t, uc.state.Answer, resp.Answer)
}

func TestAsk_TrimsSurroundingWhitespace(t *testing.T) {
	uc := &stubUsecase{state: &entity.PipelineState{
		Question: "What is Selenium?",
		Answer:   "Thanks for asking! Selenium is a browser automation framework.",
	}}

	rec := doAsk(NewHandler(uc), `{"question": "  What is Selenium? \n"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What is Selenium?", uc.gotQuestion)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	uc := &stubUsecase{}

	for _, body := range []string{`{}`, `{"question": ""}`, `{"question": "   "}`} {
		rec := doAsk(NewHandler(uc), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}

	// The pipeline is never invoked for a blank question.
	assert.Zero(t, uc.calls)
}

func TestAsk_MalformedBody(t *testing.T) {
	uc := &stubUsecase{}

	rec := doAsk(NewHandler(uc), `{"question": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, uc.calls)
}

func TestAsk_RetrievalErrorMapsTo500(t *testing.T) {
	uc := &stubUsecase{err: &entity.RetrievalError{Err: errors.New("vector index unreachable")}}

	rec := doAsk(NewHandler(uc), `{"question": "What is Selenium?"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Something went wrong while generating the answer.", resp.Error)
	assert.Contains(t, resp.Details, "vector index unreachable")
}

func TestAsk_GenerationErrorMapsTo500(t *testing.T) {
	uc := &stubUsecase{err: &entity.GenerationError{Err: errors.New("model timeout")}}

	rec := doAsk(NewHandler(uc), `{"question": "What is Selenium?"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Something went wrong while generating the answer.", resp.Error)
}

func TestHome(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	NewHandler(&stubUsecase{}).Home(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}
