package profile

import "github.com/go-chi/chi/v5"

// Routes mounts under /photographer/profile; callers must be photographers.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)
	r.Put("/", h.Update)
	r.Post("/avatar", h.UploadAvatar)

	return r
}
