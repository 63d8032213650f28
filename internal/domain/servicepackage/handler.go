package servicepackage

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

// Handler handles service package HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates service package handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /photographer/packages
// @Summary Own service packages
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]PackageResponse}
// @Router /photographer/packages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Internal(r.Context(), w, "packages.list", err)
		return
	}
	response.OK(w, Responses(pkgs))
}

// Create handles POST /photographer/packages
// @Summary Create a service package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PackageRequest true "Package"
// @Success 201 {object} response.Response{data=PackageResponse}
// @Failure 400 {object} response.Response
// @Router /photographer/packages [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	p, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "packages.create", err)
		return
	}
	response.Created(w, ResponseFromEntity(p))
}

// Update handles PUT /photographer/packages/{id}
// @Summary Replace a service package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Param request body PackageRequest true "Package"
// @Success 200 {object} response.Response{data=PackageResponse}
// @Failure 400,403,404 {object} response.Response
// @Router /photographer/packages/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	p, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, req)
	if err != nil {
		h.handleError(w, r, "packages.update", err)
		return
	}
	response.OK(w, ResponseFromEntity(p))
}

// Delete handles DELETE /photographer/packages/{id}
// @Summary Delete a service package
// @Tags Packages
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Success 204 {string} string "No Content"
// @Failure 400,403,404 {object} response.Response
// @Router /photographer/packages/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.handleError(w, r, "packages.delete", err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrPackageNotFound):
		response.NotFound(w, "Service package not found")
	case errors.Is(err, ErrNotPackageOwner):
		response.Forbidden(w, "You can only manage your own packages")
	default:
		errorhandler.Internal(r.Context(), w, op, err)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*PackageRequest, bool) {
	var req PackageRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return nil, false
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return nil, false
	}
	return &req, true
}
