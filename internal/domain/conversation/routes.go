package conversation

import "github.com/go-chi/chi/v5"

// Routes mounts under /conversations; callers must be authenticated.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Start)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}", h.SendMessage)

	return r
}
