package models

import "testing"

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleCaregiver, true},
		{RoleObserver, true},
		{Role("admin"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("Role(%q).Valid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestMediaKindValid(t *testing.T) {
	tests := []struct {
		kind MediaKind
		want bool
	}{
		{MediaPhoto, true},
		{MediaVideo, true},
		{MediaKind("audio"), false},
		{MediaKind(""), false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("MediaKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestConnectionPeerOf(t *testing.T) {
	conn := &Connection{CaregiverID: 1, ObserverID: 2}

	tests := []struct {
		name      string
		accountID int64
		want      int64
	}{
		{name: "caregiver side", accountID: 1, want: 2},
		{name: "observer side", accountID: 2, want: 1},
		{name: "not an endpoint", accountID: 3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conn.PeerOf(tt.accountID); got != tt.want {
				t.Errorf("PeerOf(%d) = %d, want %d", tt.accountID, got, tt.want)
			}
		})
	}
}

func TestPublicProfile(t *testing.T) {
	account := &Account{
		ID:           7,
		Name:         "Maria",
		Email:        "maria@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         RoleCaregiver,
	}

	profile := account.PublicProfile()

	if profile.ID != 7 || profile.Name != "Maria" || profile.Email != "maria@example.com" {
		t.Errorf("PublicProfile() = %+v, missing identity fields", profile)
	}
	if profile.Role != RoleCaregiver {
		t.Errorf("Role = %q, want %q", profile.Role, RoleCaregiver)
	}
}
