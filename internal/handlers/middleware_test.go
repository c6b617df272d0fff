package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carelink/internal/models"
	"carelink/internal/security"
	"carelink/internal/token"
)

func TestRequireAuth(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	middleware := NewMiddleware(tokens, security.NewRateLimiter(100, 100))

	credential, err := tokens.Issue(42, "Maria", models.RoleCaregiver)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expired := token.NewManager([]byte("test-secret"), -time.Minute)
	expiredCredential, err := expired.Issue(42, "Maria", models.RoleCaregiver)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantID     int64
	}{
		{
			name:       "valid credential",
			authHeader: "Bearer " + credential,
			wantStatus: http.StatusOK,
			wantID:     42,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + expiredCredential,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
				identity := IdentityFromContext(r.Context())
				if identity == nil {
					t.Fatal("identity missing from context")
				}
				gotID = identity.AccountID
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest("GET", "/api/connections", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotID != tt.wantID {
				t.Errorf("account ID = %d, want %d", gotID, tt.wantID)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	middleware := NewMiddleware(tokens, security.NewRateLimiter(10, 2))

	handler := middleware.RateLimit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	r := httptest.NewRequest("POST", "/api/login", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("throttled status = %d, want 429", w.Code)
	}
}
