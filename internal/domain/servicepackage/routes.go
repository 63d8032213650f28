package servicepackage

import "github.com/go-chi/chi/v5"

// Routes mounts under /photographer/packages; callers must be photographers.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}
