package ask

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the question-answering routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Home)
	r.Post("/ask", h.Ask)
}
