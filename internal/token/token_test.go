package token

import (
	"errors"
	"testing"
	"time"

	"carelink/internal/models"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)

	credential, err := m.Issue(42, "Maria", models.RoleCaregiver)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	identity, err := m.Verify(credential)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if identity.AccountID != 42 {
		t.Errorf("AccountID = %d, want 42", identity.AccountID)
	}
	if identity.Name != "Maria" {
		t.Errorf("Name = %q, want %q", identity.Name, "Maria")
	}
	if identity.Role != models.RoleCaregiver {
		t.Errorf("Role = %q, want %q", identity.Role, models.RoleCaregiver)
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager([]byte("test-secret"), -time.Minute)

	credential, err := m.Issue(1, "Maria", models.RoleCaregiver)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = m.Verify(credential)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewManager([]byte("secret-a"), time.Hour)
	verifier := NewManager([]byte("secret-b"), time.Hour)

	credential, err := issuer.Issue(1, "Maria", models.RoleObserver)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = verifier.Verify(credential)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "garbage", input: "not-a-token"},
		{name: "truncated", input: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.input)
			if !errors.Is(err, ErrTokenMalformed) {
				t.Errorf("Verify(%q) error = %v, want ErrTokenMalformed", tt.input, err)
			}
		})
	}
}
