package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"carelink/internal/models"
	"carelink/internal/service"
)

// AuthHandler handles registration, login, and account search requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Relation  string `json:"relation"`
	BirthDate string `json:"birth_date"`
}

// Register handles account creation
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	input := service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Relation: req.Relation,
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "birth_date must be YYYY-MM-DD"})
			return
		}
		input.BirthDate = &birthDate
	}

	account, err := h.authService.Register(input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account.PublicProfile())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string         `json:"token"`
	Account models.Profile `json:"account"`
}

// Login handles credential verification and issues a session credential
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	credential, account, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:   credential,
		Account: account.PublicProfile(),
	})
}

// Search finds accounts by name or email substring
func (h *AuthHandler) Search(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.authService.Search(r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}
