package brief

import "github.com/go-chi/chi/v5"

// Routes mounts under /briefs; callers must be clients.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	return r
}
