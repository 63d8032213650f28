package booking

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/conversation"
	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings
// @Summary Book a photographer
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking"
// @Success 201 {object} response.Response{data=CreatedResponse}
// @Failure 400,401,403,404,409 {object} response.Response
// @Router /bookings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ctx := r.Context()
	created, err := h.service.Create(ctx, middleware.GetUserID(ctx), middleware.GetRole(ctx), &req)
	if err != nil {
		h.handleError(w, r, "booking.create", err)
		return
	}

	resp := &CreatedResponse{Booking: ResponseFromEntity(created.Booking)}
	if created.Conversation != nil {
		resp.Conversation = conversation.ResponseFromEntity(created.Conversation)
	}
	response.Created(w, resp)
}

// List handles GET /bookings
// @Summary Own bookings, newest first
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, CONFIRMED, COMPLETED, DECLINED or CANCELLED"
// @Success 200 {object} response.Response{data=[]DetailsResponse}
// @Failure 400,401 {object} response.Response
// @Router /bookings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		if err := validator.ValidateVar(raw, "booking_status"); err != nil {
			response.ValidationError(w, map[string]string{"status": "must be a booking status"})
			return
		}
		s := Status(raw)
		status = &s
	}

	items, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()), status)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "booking.list", err)
		return
	}

	out := make([]*DetailsResponse, len(items))
	for i, d := range items {
		out[i] = DetailsResponseFromEntity(d)
	}
	response.OK(w, out)
}

// Get handles GET /bookings/{id}
// @Summary Booking by ID
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response{data=DetailsResponse}
// @Failure 400,403,404 {object} response.Response
// @Router /bookings/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	d, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleError(w, r, "booking.get", err)
		return
	}

	response.OK(w, DetailsResponseFromEntity(d))
}

// Update handles PUT /bookings/{id}
// @Summary Change status or price
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body UpdateBookingRequest true "Status and/or price"
// @Success 200 {object} response.Response{data=BookingResponse}
// @Failure 400,403,404,409 {object} response.Response
// @Router /bookings/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, &req)
	if err != nil {
		h.handleError(w, r, "booking.update", err)
		return
	}

	response.OK(w, ResponseFromEntity(b))
}

// Delete handles DELETE /bookings/{id}
// @Summary Delete booking
// @Tags Bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 400,403,404 {object} response.Response
// @Router /bookings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.handleError(w, r, "booking.delete", err)
		return
	}

	response.NoContent(w)
}

func bookingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInterval):
		response.ValidationError(w, map[string]string{"endAt": err.Error()})
	case errors.Is(err, ErrInvalidPrice):
		response.ValidationError(w, map[string]string{"price": err.Error()})
	case errors.Is(err, ErrInvalidStatus):
		response.ValidationError(w, map[string]string{"status": err.Error()})
	case errors.Is(err, ErrNoChanges):
		response.ValidationError(w, map[string]string{"status": "status or price required"})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrPriceLocked):
		response.InvalidState(w, err.Error())
	case errors.Is(err, ErrOnlyClients):
		response.Forbidden(w, "Only clients can create bookings")
	case errors.Is(err, ErrNotParticipant):
		response.Forbidden(w, "You are not a participant of this booking")
	case errors.Is(err, ErrForbiddenTransition):
		response.Forbidden(w, "You cannot set this status")
	case errors.Is(err, ErrNotBriefOwner):
		response.Forbidden(w, "Brief belongs to another client")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrPhotographerNotFound):
		response.NotFound(w, "Photographer not found")
	case errors.Is(err, ErrBriefNotFound):
		response.NotFound(w, "Brief not found")
	case errors.Is(err, ErrConflict):
		response.Conflict(w, "Photographer is already booked for this time")
	case errors.Is(err, ErrConcurrentUpdate):
		response.Conflict(w, "Booking was changed by someone else, reload and try again")
	default:
		errorhandler.Internal(r.Context(), w, op, err)
	}
}
