package review

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/pagination"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

// Handler handles review HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new review handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reviews
// @Summary Review a past booking
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Review"
// @Success 201 {object} response.Response{data=ReviewResponse}
// @Failure 400,401,403,404,409 {object} response.Response
// @Router /reviews [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	rev, err := h.service.Submit(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, ErrNotBookingClient):
			response.Forbidden(w, "Only the booking's client can review it")
		case errors.Is(err, ErrBookingCancelled), errors.Is(err, ErrBookingNotStarted):
			response.InvalidState(w, err.Error())
		case errors.Is(err, ErrAlreadyReviewed):
			response.Conflict(w, "You have already reviewed this booking")
		default:
			errorhandler.Internal(r.Context(), w, "review.create", err)
		}
		return
	}

	response.Created(w, rev.ToResponse())
}

// CanReview handles GET /reviews/can-review?photographerId=
// @Summary Check review eligibility
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param photographerId query string true "Photographer user ID"
// @Success 200 {object} response.Response{data=Eligibility}
// @Failure 400,401 {object} response.Response
// @Router /reviews/can-review [get]
func (h *Handler) CanReview(w http.ResponseWriter, r *http.Request) {
	photographerID, ok := photographerParam(w, r)
	if !ok {
		return
	}

	result, err := h.service.CanReview(r.Context(), middleware.GetUserID(r.Context()), photographerID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "review.can_review", err)
		return
	}

	response.OK(w, result)
}

// List handles GET /reviews?photographerId=&page=&limit=
// @Summary Photographer reviews
// @Tags Reviews
// @Produce json
// @Param photographerId query string true "Photographer user ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=[]ReviewResponse}
// @Failure 400 {object} response.Response
// @Router /reviews [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	photographerID, ok := photographerParam(w, r)
	if !ok {
		return
	}

	page := pagination.FromRequest(r, 20, 100)
	items, total, err := h.service.List(r.Context(), photographerID, page.Limit, page.Offset())
	if err != nil {
		errorhandler.Internal(r.Context(), w, "review.list", err)
		return
	}

	response.WithMeta(w, ToResponses(items), response.NewMeta(total, page.Page, page.Limit))
}

// Summary handles GET /reviews/summary?photographerId=
// @Summary Rating summary
// @Tags Reviews
// @Produce json
// @Param photographerId query string true "Photographer user ID"
// @Success 200 {object} response.Response{data=Summary}
// @Failure 400 {object} response.Response
// @Router /reviews/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	photographerID, ok := photographerParam(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), photographerID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "review.summary", err)
		return
	}

	response.OK(w, summary)
}

func photographerParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.URL.Query().Get("photographerId"))
	if err != nil {
		response.ValidationError(w, map[string]string{"photographerId": "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}
