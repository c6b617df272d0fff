package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"carelink/internal/service"
)

// ProfileHandler handles account profile requests
type ProfileHandler struct {
	authService *service.AuthService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Get returns an account's public profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid account ID"})
		return
	}

	profile, err := h.authService.GetProfile(id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// Update changes the caller's own profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid account ID"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	profile, err := h.authService.UpdateProfile(identity.AccountID, id, req.Name, req.Relation)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
