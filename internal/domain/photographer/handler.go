package photographer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/pagination"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
)

const (
	defaultLimit = 12
	maxLimit     = 100
)

// Handler handles directory HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates directory handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search handles GET /photographers
// @Summary Search photographers
// @Tags Photographers
// @Produce json
// @Param q query string false "Free text"
// @Param specialty query string false "Specialty"
// @Param location query string false "Location"
// @Param minPrice query number false "Minimum hourly rate"
// @Param maxPrice query number false "Maximum hourly rate"
// @Param page query int false "Page"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} response.Response{data=[]CardResponse}
// @Failure 400 {object} response.Response
// @Router /photographers [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &Filter{
		Query:     q.Get("q"),
		Specialty: q.Get("specialty"),
		Location:  q.Get("location"),
	}

	fieldErrors := map[string]string{}
	filter.MinPrice = parsePrice(q.Get("minPrice"), "minPrice", fieldErrors)
	filter.MaxPrice = parsePrice(q.Get("maxPrice"), "maxPrice", fieldErrors)
	if len(fieldErrors) > 0 {
		response.ValidationError(w, fieldErrors)
		return
	}

	page := pagination.FromRequest(r, defaultLimit, maxLimit)
	cards, total, err := h.service.Search(r.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		errorhandler.Internal(r.Context(), w, "photographer.search", err)
		return
	}

	response.WithMeta(w, cards, response.NewMeta(total, page.Page, page.Limit))
}

// Get handles GET /photographers/{id}
// @Summary Photographer page
// @Tags Photographers
// @Produce json
// @Param id path string true "Photographer user ID"
// @Success 200 {object} response.Response{data=DetailResponse}
// @Failure 400,404 {object} response.Response
// @Router /photographers/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photographer ID")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPhotographerNotFound) {
			response.NotFound(w, "Photographer not found")
			return
		}
		errorhandler.Internal(r.Context(), w, "photographer.get", err)
		return
	}

	response.OK(w, detail)
}

func parsePrice(raw, field string, fieldErrors map[string]string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		fieldErrors[field] = "must be a non-negative number"
		return nil
	}
	return &v
}
