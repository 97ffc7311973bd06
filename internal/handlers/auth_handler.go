package handlers

import (
	"encoding/json"
	"net/http"

	"sideline-backend/internal/auth"
	"sideline-backend/internal/config"
)

// AuthHandler signs in the single configured admin.
type AuthHandler struct {
	Admin      config.AdminConfig
	JWTManager *auth.JWTManager
}

func NewAuthHandler(admin config.AdminConfig, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{Admin: admin, JWTManager: jwtManager}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	if !auth.CheckAdminCredentials(h.Admin, req.Email, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.JWTManager.Generate(req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
