package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"sideline-backend/internal/email"
	"sideline-backend/internal/monitoring"
)

// ContactHandler forwards contact-form submissions as email.
type ContactHandler struct {
	Provider email.Provider
	Metrics  *monitoring.Metrics
}

func NewContactHandler(provider email.Provider, metrics *monitoring.Metrics) *ContactHandler {
	return &ContactHandler{Provider: provider, Metrics: metrics}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SendEmail handles POST /api/send-email.
func (h *ContactHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	if req.Name == "" || req.Email == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	data, err := h.Provider.SendContactMessage(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		log.Printf("Error sending email: %v", err)
		h.recordEmail("failure")
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   "Failed to send email.",
			"details": err.Error(),
		})
		return
	}

	h.recordEmail("success")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func (h *ContactHandler) recordEmail(outcome string) {
	if h.Metrics != nil {
		h.Metrics.RecordEmail(outcome)
	}
}

// Root handles GET /, a plain liveness message.
func Root(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Backend server is running!")
}

// NotFound is the JSON catch-all for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	log.Printf("404 Not Found: %s %s", r.Method, r.URL.Path)
	respondError(w, http.StatusNotFound, fmt.Sprintf("Not Found: %s %s", r.Method, r.URL.Path))
}
