package handlers

import (
	"encoding/json"
	"net/http"

	"carelink/internal/service"
)

// ConnectionHandler handles relationship graph requests
type ConnectionHandler struct {
	graphService *service.GraphService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(graphService *service.GraphService) *ConnectionHandler {
	return &ConnectionHandler{graphService: graphService}
}

type connectRequest struct {
	Target string `json:"target"`
}

// Connect establishes a connection between the caller and the counterpart
// named in the request
func (h *ConnectionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Target == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target is required"})
		return
	}

	conn, err := h.graphService.Connect(identity.AccountID, req.Target)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conn)
}

// List returns the caller's connected counterparts
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	profiles, err := h.graphService.ConnectionsOf(identity.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}
