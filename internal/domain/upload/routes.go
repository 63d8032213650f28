package upload

import "github.com/go-chi/chi/v5"

// Routes mounts under /uploads behind the auth middleware
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)

	return r
}
