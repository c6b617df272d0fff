package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/security"
	"carelink/internal/token"
	"carelink/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountMissing     = errors.New("account not found")
	ErrNotOwner           = errors.New("profile belongs to another account")
)

// RegisterInput carries the fields of a registration request
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      models.Role
	Relation  string
	BirthDate *time.Time
}

// AuthService handles registration, login, and profile access
type AuthService struct {
	accounts *repository.AccountRepository
	tokens   *token.Manager
}

// NewAuthService creates a new auth service
func NewAuthService(accounts *repository.AccountRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
	}
}

// Register creates a new account. Observer accounts must carry a relation
// and a birth date; caregivers must not be asked for either.
func (s *AuthService) Register(input RegisterInput) (*models.Account, error) {
	// Validate inputs
	if err := validation.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateRegistration(input.Role, input.Relation, input.BirthDate); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Check if email already exists
	existing, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	// Hash password; plaintext is never stored
	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         input.Role,
	}
	if input.Role == models.RoleObserver {
		account.Relation = strings.TrimSpace(input.Relation)
		account.BirthDate = input.BirthDate
	}

	created, err := s.accounts.Create(account)
	if err != nil {
		// The unique index catches registrations racing past the
		// existence check above.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return created, nil
}

// Login verifies credentials and issues a session credential
func (s *AuthService) Login(email, password string) (string, *models.Account, error) {
	account, err := s.accounts.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return "", nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, account.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	credential, err := s.tokens.Issue(account.ID, account.Name, account.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	return credential, account, nil
}

// GetProfile returns the public profile of an account
func (s *AuthService) GetProfile(id int64) (*models.Profile, error) {
	account, err := s.accounts.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountMissing
	}
	profile := account.PublicProfile()
	return &profile, nil
}

// UpdateProfile changes an account's name and relation. Only the owner may
// update their own profile.
func (s *AuthService) UpdateProfile(callerID, id int64, name, relation string) (*models.Profile, error) {
	if callerID != id {
		return nil, ErrNotOwner
	}

	account, err := s.accounts.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountMissing
	}

	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if account.Role == models.RoleObserver && strings.TrimSpace(relation) == "" {
		relation = account.Relation
	}
	if account.Role == models.RoleCaregiver {
		relation = ""
	}

	if err := s.accounts.UpdateProfile(id, strings.TrimSpace(name), strings.TrimSpace(relation)); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return s.GetProfile(id)
}

// Search finds accounts by name or email substring and returns their
// public profiles
func (s *AuthService) Search(query string) ([]models.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Profile{}, nil
	}

	accounts, err := s.accounts.Search(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}

	profiles := make([]models.Profile, 0, len(accounts))
	for i := range accounts {
		profiles = append(profiles, accounts[i].PublicProfile())
	}
	return profiles, nil
}
