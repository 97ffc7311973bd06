package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"sideline-backend/internal/middleware"
	"sideline-backend/internal/models"
	"sideline-backend/internal/monitoring"
	"sideline-backend/internal/repositories"
	"sideline-backend/internal/services"
)

// maxUploadBytes caps one multipart upload request.
const maxUploadBytes = 200 << 20 // 200 MB

// BatchHandler exposes the admin upload and moderation endpoints.
type BatchHandler struct {
	Batches *services.BatchService
	Metrics *monitoring.Metrics
}

func NewBatchHandler(batches *services.BatchService, metrics *monitoring.Metrics) *BatchHandler {
	return &BatchHandler{Batches: batches, Metrics: metrics}
}

// Upload handles POST /api/admin/sideline: multipart form with repeated
// "files" parts and an optional "title" field.
func (h *BatchHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		respondError(w, http.StatusBadRequest, "Please select files to upload")
		return
	}

	var files []services.UploadFile
	var closers []interface{ Close() error }
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, "Failed to read uploaded file "+fh.Filename)
			return
		}
		closers = append(closers, f)
		files = append(files, services.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}

	ownerID, _ := middleware.AdminEmailFromContext(r.Context())
	batch, err := h.Batches.Upload(r.Context(), ownerID, r.FormValue("title"), files)
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedContentType) {
			respondError(w, http.StatusBadRequest, "Upload rejected: "+err.Error())
			return
		}
		log.Printf("Upload error: %v", err)
		respondError(w, http.StatusBadGateway, "Upload failed: "+err.Error())
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordUpload(len(batch.Files))
	}
	respondJSON(w, http.StatusCreated, batch)
}

// List handles GET /api/admin/sideline with an optional exact-date filter.
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Batches.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch batches")
		return
	}
	if batches == nil {
		batches = []models.Batch{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"batches": batches,
		"count":   len(batches),
	})
}

// Delete handles DELETE /api/admin/sideline/{id}.
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Batches.Delete(r.Context(), id); err != nil {
		if err == repositories.ErrNotFound {
			respondError(w, http.StatusNotFound, "Batch not found")
			return
		}
		log.Printf("Delete error: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete batch")
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordDeletion(1)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDelete handles POST /api/admin/sideline/bulk-delete. Records are
// deleted sequentially; the response reports one result for the whole
// operation.
func (h *BatchHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "No batches selected")
		return
	}

	deleted, err := h.Batches.BulkDelete(r.Context(), req.IDs)
	if h.Metrics != nil && deleted > 0 {
		h.Metrics.RecordDeletion(deleted)
	}
	if err != nil {
		log.Printf("Bulk delete error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"deleted": deleted,
			"error":   "Failed to delete some batches",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": deleted,
	})
}
