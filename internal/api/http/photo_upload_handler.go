package http

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"roadshare-backend/internal/storage"
)

// PhotoUploadHandler serves the mock presigned upload and download URLs
// when the deployment uses local filesystem storage.
type PhotoUploadHandler struct {
	mockStorage *storage.MockStorageService
}

func NewPhotoUploadHandler(mockStorage *storage.MockStorageService) *PhotoUploadHandler {
	return &PhotoUploadHandler{mockStorage: mockStorage}
}

// HandleUpload accepts PUT requests against mock presigned upload URLs.
func (h *PhotoUploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	if err := h.mockStorage.SaveFile(key, r.Body); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	// Mimic an S3 PUT response
	w.Header().Set("ETag", `"mock-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

// HandleDownload streams a stored file back.
func (h *PhotoUploadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	file, err := h.mockStorage.ReadFile(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}

// RegisterMockStorageRoutes registers the mock storage HTTP endpoints.
func RegisterMockStorageRoutes(router *mux.Router, mockStorage *storage.MockStorageService) {
	handler := NewPhotoUploadHandler(mockStorage)
	router.HandleFunc("/api/v1/upload/{token}", handler.HandleUpload).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/download/{key}", handler.HandleDownload).Methods(http.MethodGet)
}
