package models

import "time"

// Role identifies which side of a connection an account sits on.
type Role string

const (
	// RoleCaregiver receives messages and media from connected observers.
	RoleCaregiver Role = "caregiver"
	// RoleObserver is a family member or friend connected to caregivers.
	RoleObserver Role = "observer"
)

// Valid reports whether the role is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleCaregiver || r == RoleObserver
}

// Account represents a registered user of either role.
// Relation and BirthDate are only set for observer accounts.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Relation     string
	BirthDate    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of an account, safe to return to other users.
type Profile struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Relation  string     `json:"relation,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// PublicProfile strips credential material from an account.
func (a *Account) PublicProfile() Profile {
	return Profile{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Relation:  a.Relation,
		BirthDate: a.BirthDate,
	}
}
