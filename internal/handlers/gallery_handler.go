package handlers

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sideline-backend/internal/gallery"
	"sideline-backend/internal/models"
	"sideline-backend/internal/repositories"
	"sideline-backend/internal/services"
)

// GalleryHandler exposes the read-only public gallery endpoints.
type GalleryHandler struct {
	Batches *services.BatchService
}

func NewGalleryHandler(batches *services.BatchService) *GalleryHandler {
	return &GalleryHandler{Batches: batches}
}

// List handles GET /api/sideline with an optional exact-date filter.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Batches.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch gallery")
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

// Dates handles GET /api/sideline/dates, the options for the filter
// control.
func (h *GalleryHandler) Dates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.Batches.Dates(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch dates")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"dates": dates})
}

// View handles GET /api/sideline/{id}/view?index=n: resolves the lightbox
// position for a batch, clamped into range.
func (h *GalleryHandler) View(w http.ResponseWriter, r *http.Request) {
	batch, err := h.Batches.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if err == repositories.ErrNotFound {
			respondError(w, http.StatusNotFound, "Batch not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch batch")
		return
	}

	index, _ := strconv.Atoi(r.URL.Query().Get("index"))
	lb := gallery.OpenLightbox(batch, index)
	if lb == nil {
		respondError(w, http.StatusNotFound, "Batch has no files")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"batch_id": batch.ID,
		"title":    batch.DisplayTitle(),
		"index":    lb.Index(),
		"total":    len(batch.Files),
		"file":     lb.Current(),
		"has_prev": lb.HasPrev(),
		"has_next": lb.HasNext(),
	})
}

// Download handles GET /api/sideline/{id}/download?index=n: streams one
// file with an attachment disposition carrying its original filename.
func (h *GalleryHandler) Download(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(r.URL.Query().Get("index"))

	reader, size, file, err := h.Batches.OpenFile(r.Context(), mux.Vars(r)["id"], index)
	if err != nil {
		if err == repositories.ErrNotFound {
			respondError(w, http.StatusNotFound, "Batch not found")
			return
		}
		log.Printf("Download error: %v", err)
		respondError(w, http.StatusBadGateway, "Failed to download file")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	io.Copy(w, reader)
}

// DownloadAll handles GET /api/sideline/{id}/download-all: streams a zip
// archive of the batch's files in their original order. Files that fail
// to download are skipped so one bad object does not abort the archive.
func (h *GalleryHandler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	batch, err := h.Batches.Get(r.Context(), id)
	if err != nil {
		if err == repositories.ErrNotFound {
			respondError(w, http.StatusNotFound, "Batch not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch batch")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", batch.DisplayTitle()+".zip"))
	w.Header().Set("Content-Type", "application/zip")

	zw := zip.NewWriter(w)
	defer zw.Close()

	for i := range batch.Files {
		reader, _, file, err := h.Batches.OpenFile(r.Context(), id, i)
		if err != nil {
			log.Printf("Download-all: skipping file %d of batch %s: %v", i, id, err)
			continue
		}

		entry, err := zw.Create(file.Filename)
		if err != nil {
			reader.Close()
			return
		}
		io.Copy(entry, reader)
		reader.Close()
	}
}
