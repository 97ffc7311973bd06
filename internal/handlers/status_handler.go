package handlers

import (
	"net/http"

	"sideline-backend/internal/events"
	"sideline-backend/internal/monitoring"
	"sideline-backend/internal/services"
)

// StatusHandler reports gallery totals and a host snapshot on the admin
// dashboard.
type StatusHandler struct {
	Batches  *services.BatchService
	Hub      *events.Hub
	DiskPath string
}

func NewStatusHandler(batches *services.BatchService, hub *events.Hub, diskPath string) *StatusHandler {
	return &StatusHandler{Batches: batches, Hub: hub, DiskPath: diskPath}
}

// Status handles GET /api/admin/status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Batches.List(r.Context(), "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch batches")
		return
	}

	fileCount := 0
	for _, b := range batches {
		fileCount += len(b.Files)
	}

	subscribers := 0
	if h.Hub != nil {
		subscribers = h.Hub.ClientCount()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"batches":     len(batches),
		"files":       fileCount,
		"subscribers": subscribers,
		"system":      monitoring.CollectSystem(h.DiskPath),
	})
}
