package upload

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

// Handler handles upload HTTP requests
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler creates upload handler
func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Upload handles POST /uploads
// @Summary Upload message attachments
// @Tags Uploads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UploadRequest true "Base64 encoded files"
// @Success 201 {object} response.Response{data=UploadResponse}
// @Failure 400,401,413 {object} response.Response
// @Router /uploads [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// Base64 inflates by 4/3; allow ten files plus JSON overhead.
	limit := (h.maxBytes*4/3 + 1024) * 10
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req UploadRequest
	if err := response.DecodeJSONLimit(r, &req, limit+1); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return
		}
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	files, err := h.service.Store(r.Context(), middleware.GetUserID(r.Context()), req.Files)
	if err != nil {
		var fileErr *FileError
		if errors.As(err, &fileErr) {
			field := fmt.Sprintf("files[%d]", fileErr.Index)
			switch {
			case errors.Is(err, ErrFileTooLarge):
				response.ValidationError(w, map[string]string{field: "File is too large"})
			case errors.Is(err, ErrFileType):
				response.ValidationError(w, map[string]string{field: "Only images and PDF files are allowed"})
			case errors.Is(err, ErrEmptyFile):
				response.ValidationError(w, map[string]string{field: "File is empty"})
			default:
				response.ValidationError(w, map[string]string{field: "Invalid base64 data"})
			}
			return
		}
		errorhandler.Internal(r.Context(), w, "upload.store", err)
		return
	}

	response.Created(w, UploadResponse{Files: files})
}
