package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns review router. Listing and summary are public.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/summary", h.Summary)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/can-review", h.CanReview)
		r.Post("/", h.Create)
	})

	return r
}
