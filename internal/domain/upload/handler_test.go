package upload

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
)

func serveUpload(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/uploads", strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "client"))
	w := httptest.NewRecorder()
	h.Upload(w, req)
	return w
}

func TestUploadHandler(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	h := NewHandler(svc, 1<<20)

	w := serveUpload(h, `{"files":[{"name":"a.png","data":"`+base64.StdEncoding.EncodeToString(pngBytes)+`"}]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"a.png"`)

	w = serveUpload(h, `{"files":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = serveUpload(h, `{"files":[{"name":"a.txt","data":"`+base64.StdEncoding.EncodeToString([]byte("hello"))+`"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "files[0]")

	w = serveUpload(h, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandlerRejectsOversizedBody(t *testing.T) {
	svc, _ := newTestService(t, 8)
	h := NewHandler(svc, 8)

	w := serveUpload(h, `{"files":[{"name":"a.png","data":"`+strings.Repeat("A", 20000)+`"}]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
