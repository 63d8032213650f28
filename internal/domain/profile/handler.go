package profile

import (
	"errors"
	"net/http"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

// Handler handles photographer profile HTTP requests
type Handler struct {
	service   *Service
	maxUpload int64
}

// NewHandler creates profile handler
func NewHandler(service *Service, maxUpload int64) *Handler {
	return &Handler{service: service, maxUpload: maxUpload}
}

// Get handles GET /photographer/profile
// @Summary Own photographer profile
// @Tags Photographer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=ProfileResponse}
// @Failure 401,403,404 {object} response.Response
// @Router /photographer/profile [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not created yet")
			return
		}
		errorhandler.Internal(r.Context(), w, "profile.get", err)
		return
	}

	response.OK(w, ResponseFromEntity(p))
}

// Update handles PUT /photographer/profile
// @Summary Create or replace own photographer profile
// @Tags Photographer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Response{data=ProfileResponse}
// @Failure 400,401,403 {object} response.Response
// @Router /photographer/profile [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "profile.update", err)
		return
	}

	response.OK(w, ResponseFromEntity(p))
}

// UploadAvatar handles POST /photographer/profile/avatar
// @Summary Upload profile avatar
// @Tags Photographer
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} response.Response{data=ProfileResponse}
// @Failure 400,401,403 {object} response.Response
// @Router /photographer/profile/avatar [post]
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(1<<20))
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	p, err := h.service.UploadAvatar(r.Context(), middleware.GetUserID(r.Context()), file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidImage):
			response.ValidationError(w, map[string]string{"file": "Must be a JPEG, PNG or GIF image"})
		case errors.Is(err, ErrImageTooLarge):
			response.ValidationError(w, map[string]string{"file": "Image is too large"})
		default:
			errorhandler.Internal(r.Context(), w, "profile.avatar", err)
		}
		return
	}

	response.OK(w, ResponseFromEntity(p))
}
