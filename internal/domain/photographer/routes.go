package photographer

import "github.com/go-chi/chi/v5"

// Routes mounts under /photographers; all routes are public.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Search)
	r.Get("/{id}", h.Get)

	return r
}
