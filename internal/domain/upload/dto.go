package upload

// FileInput is one file in an upload request
type FileInput struct {
	Name string `json:"name" validate:"required,max=255"`
	// Data is raw base64 or a data: URL
	Data string `json:"data" validate:"required"`
}

// UploadRequest for POST /uploads
type UploadRequest struct {
	Files []FileInput `json:"files" validate:"required,min=1,max=10,dive"`
}

// FileResponse is a stored file
type FileResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// UploadResponse lists stored files in request order
type UploadResponse struct {
	Files []FileResponse `json:"files"`
}
