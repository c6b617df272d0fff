package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"carelink/internal/database"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/security"
	"carelink/internal/service"
	"carelink/internal/storage"
	"carelink/internal/token"
)

// newTestMux wires the full HTTP surface against a throwaway SQLite
// database, the same way main does.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	accountRepo := repository.NewAccountRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	authService := service.NewAuthService(accountRepo, tokens)
	graphService := service.NewGraphService(accountRepo, connectionRepo, &service.EmailService{}, 0)
	guard := service.NewGuard(graphService)
	messageService := service.NewMessageService(messageRepo, guard)
	mediaService := service.NewMediaService(mediaRepo, graphService, guard)

	blobs, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create blob store: %v", err)
	}

	limiter := security.NewRateLimiter(1000, 1000)
	middleware := NewMiddleware(tokens, limiter)
	authHandler := NewAuthHandler(authService)
	connectionHandler := NewConnectionHandler(graphService)
	messageHandler := NewMessageHandler(messageService)
	mediaHandler := NewMediaHandler(mediaService, blobs, 1<<20)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/connections", middleware.RequireAuth(connectionHandler.Connect))
	mux.HandleFunc("GET /api/connections", middleware.RequireAuth(connectionHandler.List))
	mux.HandleFunc("POST /api/messages", middleware.RequireAuth(messageHandler.Send))
	mux.HandleFunc("GET /api/messages/unread", middleware.RequireAuth(messageHandler.Unread))
	mux.HandleFunc("GET /api/messages/{peerID}", middleware.RequireAuth(messageHandler.ListBetween))
	mux.HandleFunc("POST /api/messages/{id}/read", middleware.RequireAuth(messageHandler.MarkRead))
	mux.HandleFunc("POST /api/media", middleware.RequireAuth(mediaHandler.Upload))
	mux.HandleFunc("GET /api/media/{peerID}", middleware.RequireAuth(mediaHandler.ListBetween))

	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func register(t *testing.T, mux *http.ServeMux, body map[string]string) {
	t.Helper()
	w := doJSON(t, mux, "POST", "/api/register", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", body["email"], w.Code, w.Body.String())
	}
}

func login(t *testing.T, mux *http.ServeMux, email string) string {
	t.Helper()
	w := doJSON(t, mux, "POST", "/api/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body = %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return resp.Token
}

func TestAPIFlow(t *testing.T) {
	mux := newTestMux(t)

	register(t, mux, map[string]string{
		"name": "Maria", "email": "maria@example.com", "password": "password123",
		"role": "caregiver",
	})
	register(t, mux, map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "password123",
		"role": "observer", "relation": "daughter", "birth_date": "1985-03-10",
	})

	caregiverToken := login(t, mux, "maria@example.com")
	observerToken := login(t, mux, "ana@example.com")

	// Unauthenticated requests are rejected
	w := doJSON(t, mux, "GET", "/api/connections", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	// Connect caregiver to observer by email
	w = doJSON(t, mux, "POST", "/api/connections", caregiverToken, map[string]string{
		"target": "ana@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("connect status = %d, body = %s", w.Code, w.Body.String())
	}

	// Duplicate connect conflicts
	w = doJSON(t, mux, "POST", "/api/connections", observerToken, map[string]string{
		"target": "maria@example.com",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate connect status = %d, want 409", w.Code)
	}

	// Observer sees the caregiver in their connection list
	w = doJSON(t, mux, "GET", "/api/connections", observerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list connections status = %d", w.Code)
	}
	var contacts []models.Profile
	if err := json.NewDecoder(w.Body).Decode(&contacts); err != nil {
		t.Fatalf("decoding connections: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Email != "maria@example.com" {
		t.Errorf("connections = %+v", contacts)
	}
	caregiverID := contacts[0].ID

	// Observer sends the caregiver a message
	w = doJSON(t, mux, "POST", "/api/messages", observerToken, map[string]interface{}{
		"recipient_id": caregiverID,
		"text":         "hello mom",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send status = %d, body = %s", w.Code, w.Body.String())
	}
	var sent models.Message
	if err := json.NewDecoder(w.Body).Decode(&sent); err != nil {
		t.Fatalf("decoding message: %v", err)
	}

	// Caregiver finds it unread
	w = doJSON(t, mux, "GET", "/api/messages/unread", caregiverToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unread status = %d", w.Code)
	}
	var unread []models.Message
	if err := json.NewDecoder(w.Body).Decode(&unread); err != nil {
		t.Fatalf("decoding unread: %v", err)
	}
	if len(unread) != 1 || unread[0].Text != "hello mom" {
		t.Errorf("unread = %+v", unread)
	}

	// Sender cannot mark it read; recipient can
	w = doJSON(t, mux, "POST", fmt.Sprintf("/api/messages/%d/read", sent.ID), observerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("sender mark read status = %d, want 403", w.Code)
	}
	w = doJSON(t, mux, "POST", fmt.Sprintf("/api/messages/%d/read", sent.ID), caregiverToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("recipient mark read status = %d, want 200", w.Code)
	}

	// Caregiver shares media; observer sees it in the exchange
	w = doJSON(t, mux, "POST", "/api/media", caregiverToken, map[string]string{
		"kind": "photo", "path": "/uploads/abc.jpg", "description": "garden",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, mux, "GET", fmt.Sprintf("/api/media/%d", caregiverID), observerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("media list status = %d", w.Code)
	}
	var items []models.MediaItem
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("decoding media: %v", err)
	}
	if len(items) != 1 || items[0].Path != "/uploads/abc.jpg" {
		t.Errorf("media = %+v", items)
	}
}

func TestAPIRegisterValidation(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{
			name: "observer missing relation",
			body: map[string]string{
				"name": "Ana", "email": "ana@example.com", "password": "password123",
				"role": "observer", "birth_date": "1985-03-10",
			},
			want: http.StatusBadRequest,
		},
		{
			name: "bad birth date format",
			body: map[string]string{
				"name": "Ana", "email": "ana@example.com", "password": "password123",
				"role": "observer", "relation": "daughter", "birth_date": "10/03/1985",
			},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown role",
			body: map[string]string{
				"name": "Ana", "email": "ana@example.com", "password": "password123",
				"role": "admin",
			},
			want: http.StatusBadRequest,
		},
		{
			name: "short password",
			body: map[string]string{
				"name": "Ana", "email": "ana@example.com", "password": "short",
				"role": "caregiver",
			},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, mux, "POST", "/api/register", "", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}
