package portfolio

import "github.com/go-chi/chi/v5"

// Routes mounts under /photographer/portfolio; callers must be photographers.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Delete("/{id}", h.Delete)

	return r
}
