package validation

import (
	"testing"
	"time"

	"carelink/internal/models"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "correct-horse",
			wantErr:  false,
		},
		{
			name:     "exactly eight characters",
			password: "12345678",
			wantErr:  false,
		},
		{
			name:     "too short",
			password: "1234567",
			wantErr:  true,
		},
		{
			name:     "empty",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "Maria Silva",
			wantErr: false,
		},
		{
			name:    "single name",
			input:   "Maria",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name too short",
			input:   "M",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	birthDate := time.Date(1950, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		role      models.Role
		relation  string
		birthDate *time.Time
		wantErr   bool
		wantField string
	}{
		{
			name:    "caregiver needs neither field",
			role:    models.RoleCaregiver,
			wantErr: false,
		},
		{
			name:      "observer with both fields",
			role:      models.RoleObserver,
			relation:  "daughter",
			birthDate: &birthDate,
			wantErr:   false,
		},
		{
			name:      "observer missing relation",
			role:      models.RoleObserver,
			birthDate: &birthDate,
			wantErr:   true,
			wantField: "relation",
		},
		{
			name:      "observer missing birth date",
			role:      models.RoleObserver,
			relation:  "son",
			wantErr:   true,
			wantField: "birth_date",
		},
		{
			name:      "unknown role",
			role:      models.Role("admin"),
			wantErr:   true,
			wantField: "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.role, tt.relation, tt.birthDate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRegistration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && tt.wantField != "" {
				vErr, ok := err.(ValidationError)
				if !ok {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if vErr.Field != tt.wantField {
					t.Errorf("expected field %q, got %q", tt.wantField, vErr.Field)
				}
			}
		})
	}
}
