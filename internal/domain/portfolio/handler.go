package portfolio

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service   *Service
	maxUpload int64
}

// NewHandler creates portfolio handler
func NewHandler(service *Service, maxUpload int64) *Handler {
	return &Handler{service: service, maxUpload: maxUpload}
}

// List handles GET /photographer/portfolio
// @Summary Own portfolio
// @Tags Portfolio
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]ItemResponse}
// @Router /photographer/portfolio [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Internal(r.Context(), w, "portfolio.list", err)
		return
	}

	response.OK(w, ItemResponses(items))
}

// Add handles POST /photographer/portfolio
// @Summary Upload a portfolio photo
// @Tags Portfolio
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Param caption formData string false "Caption"
// @Param category formData string false "Category"
// @Param isFeatured formData bool false "Show first"
// @Success 201 {object} response.Response{data=ItemResponse}
// @Failure 400 {object} response.Response
// @Router /photographer/portfolio [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(1<<20))
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	req := AddItemRequest{
		Caption:  formString(r, "caption"),
		Category: formString(r, "category"),
	}
	if v := r.FormValue("isFeatured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			response.ValidationError(w, map[string]string{"isFeatured": "Must be true or false"})
			return
		}
		req.IsFeatured = featured
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	item, err := h.service.Add(r.Context(), middleware.GetUserID(r.Context()), file, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidImage):
			response.ValidationError(w, map[string]string{"file": "Must be a JPEG, PNG or GIF image"})
		case errors.Is(err, ErrImageTooLarge):
			response.ValidationError(w, map[string]string{"file": "Image is too large"})
		default:
			errorhandler.Internal(r.Context(), w, "portfolio.add", err)
		}
		return
	}

	response.Created(w, ItemResponseFromEntity(item))
}

// Delete handles DELETE /photographer/portfolio/{id}
// @Summary Delete a portfolio photo
// @Tags Portfolio
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204 {string} string "No Content"
// @Failure 400,403,404 {object} response.Response
// @Router /photographer/portfolio/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid portfolio item ID")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), itemID); err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			response.NotFound(w, "Portfolio item not found")
		case errors.Is(err, ErrNotItemOwner):
			response.Forbidden(w, "You can only delete your own portfolio items")
		default:
			errorhandler.Internal(r.Context(), w, "portfolio.delete", err)
		}
		return
	}

	response.NoContent(w)
}

func formString(r *http.Request, key string) *string {
	if _, ok := r.MultipartForm.Value[key]; !ok {
		return nil
	}
	v := r.FormValue(key)
	return &v
}
