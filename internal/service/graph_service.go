package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"carelink/internal/models"
	"carelink/internal/repository"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrInvalidRoles           = errors.New("connection requires one caregiver and one observer")
	ErrAlreadyConnected       = errors.New("accounts are already connected")
	ErrConnectionLimitReached = errors.New("observer has reached its connection limit")
)

// GraphService owns the relationship graph: it is the only code path that
// creates edges, and the guard derives every decision from it.
type GraphService struct {
	accounts    *repository.AccountRepository
	connections *repository.ConnectionRepository
	email       *EmailService

	// observerLimit caps connections per observer; zero means unlimited.
	observerLimit int
}

// NewGraphService creates a new relationship graph service
func NewGraphService(accounts *repository.AccountRepository, connections *repository.ConnectionRepository, email *EmailService, observerLimit int) *GraphService {
	return &GraphService{
		accounts:      accounts,
		connections:   connections,
		email:         email,
		observerLimit: observerLimit,
	}
}

// Connect establishes the edge between the requester and the counterpart
// identified by email or numeric ID. Exactly one side must be a caregiver
// and the other an observer; duplicate edges are rejected.
func (s *GraphService) Connect(requesterID int64, target string) (*models.Connection, error) {
	requester, err := s.accounts.GetByID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	counterpart, err := s.resolveTarget(target)
	if err != nil {
		return nil, err
	}
	if requester == nil || counterpart == nil {
		return nil, ErrAccountNotFound
	}

	caregiver, observer, ok := splitRoles(requester, counterpart)
	if !ok {
		return nil, ErrInvalidRoles
	}

	exists, err := s.connections.ExistsPair(requester.ID, counterpart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing connection: %w", err)
	}
	if exists {
		return nil, ErrAlreadyConnected
	}

	if s.observerLimit > 0 {
		count, err := s.connections.CountForObserver(observer.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count observer connections: %w", err)
		}
		if count >= s.observerLimit {
			return nil, ErrConnectionLimitReached
		}
	}

	conn, err := s.connections.Create(caregiver.ID, observer.ID)
	if err != nil {
		// Two concurrent connects between the same pair race past the
		// existence check; the unique index decides the winner.
		if errors.Is(err, repository.ErrDuplicateConnection) {
			return nil, ErrAlreadyConnected
		}
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	if s.email != nil && s.email.IsEnabled() {
		if err := s.email.SendConnectionEmail(context.Background(), counterpart.Email, counterpart.Name, requester.Name); err != nil {
			log.Printf("Warning: failed to send connection email to %s: %v", counterpart.Email, err)
		}
	}

	return conn, nil
}

// IsConnected reports whether an edge exists between two accounts.
// Symmetric: IsConnected(a, b) == IsConnected(b, a).
func (s *GraphService) IsConnected(a, b int64) (bool, error) {
	return s.connections.ExistsPair(a, b)
}

// ConnectionsOf returns the public profiles of every account connected to
// the given account
func (s *GraphService) ConnectionsOf(accountID int64) ([]models.Profile, error) {
	accounts, err := s.connections.ConnectionsOf(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	profiles := make([]models.Profile, 0, len(accounts))
	for i := range accounts {
		profiles = append(profiles, accounts[i].PublicProfile())
	}
	return profiles, nil
}

// ConnectedAccounts returns the full account records connected to the given
// account. Used internally for fan-out.
func (s *GraphService) ConnectedAccounts(accountID int64) ([]models.Account, error) {
	return s.connections.ConnectionsOf(accountID)
}

// AccountExists reports whether an account with the given ID exists
func (s *GraphService) AccountExists(id int64) (bool, error) {
	account, err := s.accounts.GetByID(id)
	if err != nil {
		return false, fmt.Errorf("failed to resolve account: %w", err)
	}
	return account != nil, nil
}

// resolveTarget finds the counterpart account by email when the target
// contains an @, otherwise by numeric ID
func (s *GraphService) resolveTarget(target string) (*models.Account, error) {
	target = strings.TrimSpace(target)
	if strings.Contains(target, "@") {
		account, err := s.accounts.GetByEmail(strings.ToLower(target))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve target: %w", err)
		}
		return account, nil
	}

	id, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	account, err := s.accounts.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}
	return account, nil
}

// splitRoles orders a pair of accounts into (caregiver, observer).
// ok is false unless exactly one of each role is present.
func splitRoles(a, b *models.Account) (caregiver, observer *models.Account, ok bool) {
	switch {
	case a.Role == models.RoleCaregiver && b.Role == models.RoleObserver:
		return a, b, true
	case a.Role == models.RoleObserver && b.Role == models.RoleCaregiver:
		return b, a, true
	}
	return nil, nil, false
}
