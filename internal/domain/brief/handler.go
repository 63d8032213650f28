package brief

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

// Handler handles brief HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates brief handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /briefs
// @Summary Create an event brief
// @Tags Briefs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBriefRequest true "Brief"
// @Success 201 {object} response.Response{data=BriefResponse}
// @Failure 400,401,403 {object} response.Response
// @Router /briefs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBriefRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "brief.create", err)
		return
	}

	response.Created(w, ResponseFromEntity(b))
}

// List handles GET /briefs
// @Summary Own briefs
// @Tags Briefs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]BriefResponse}
// @Router /briefs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	briefs, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Internal(r.Context(), w, "brief.list", err)
		return
	}

	items := make([]*BriefResponse, len(briefs))
	for i, b := range briefs {
		items[i] = ResponseFromEntity(b)
	}
	response.OK(w, items)
}

// Get handles GET /briefs/{id}
// @Summary Brief by ID
// @Tags Briefs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Brief ID"
// @Success 200 {object} response.Response{data=BriefResponse}
// @Failure 400,403,404 {object} response.Response
// @Router /briefs/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid brief ID")
		return
	}

	b, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrBriefNotFound):
			response.NotFound(w, "Brief not found")
		case errors.Is(err, ErrNotBriefOwner):
			response.Forbidden(w, "You can only view your own briefs")
		default:
			errorhandler.Internal(r.Context(), w, "brief.get", err)
		}
		return
	}

	response.OK(w, ResponseFromEntity(b))
}
