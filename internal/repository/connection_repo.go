package repository

import (
	"errors"
	"fmt"
	"time"

	"carelink/internal/database"
	"carelink/internal/models"
)

// ErrDuplicateConnection is returned when an insert hits the unique
// (caregiver_id, observer_id) index. Concurrent connect attempts between
// the same pair resolve to exactly one edge through this constraint.
var ErrDuplicateConnection = errors.New("connection already exists")

// ConnectionRepository handles database operations for the relationship graph.
// The connections table is the only representation of edges; connection
// sets are always derived from it.
type ConnectionRepository struct {
	db *database.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *database.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Create inserts a new caregiver-observer edge
func (r *ConnectionRepository) Create(caregiverID, observerID int64) (*models.Connection, error) {
	query := `
		INSERT INTO connections (caregiver_id, observer_id, created_at)
		VALUES (?, ?, ?)
	`
	createdAt := time.Now().UTC()
	id, err := r.db.ExecReturningID(query, caregiverID, observerID, createdAt)
	if err != nil {
		if r.db.IsUniqueViolation(err) {
			return nil, ErrDuplicateConnection
		}
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return &models.Connection{
		ID:          id,
		CaregiverID: caregiverID,
		ObserverID:  observerID,
		CreatedAt:   createdAt,
	}, nil
}

// ExistsPair checks whether an edge exists between two accounts in either
// orientation. Symmetric by construction.
func (r *ConnectionRepository) ExistsPair(a, b int64) (bool, error) {
	query := `
		SELECT COUNT(*) FROM connections
		WHERE (caregiver_id = ? AND observer_id = ?)
		   OR (caregiver_id = ? AND observer_id = ?)
	`
	var count int
	err := r.db.QueryRow(query, a, b, b, a).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}
	return count > 0, nil
}

// ConnectionsOf returns the accounts connected to the given account,
// whichever side of the edge it sits on
func (r *ConnectionRepository) ConnectionsOf(accountID int64) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE id IN (
			SELECT observer_id FROM connections WHERE caregiver_id = ?
			UNION
			SELECT caregiver_id FROM connections WHERE observer_id = ?
		)
		ORDER BY name ASC
	`
	rows, err := r.db.Query(query, accountID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// CountForObserver returns how many caregivers an observer is connected to
func (r *ConnectionRepository) CountForObserver(observerID int64) (int, error) {
	query := "SELECT COUNT(*) FROM connections WHERE observer_id = ?"
	var count int
	err := r.db.QueryRow(query, observerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count connections: %w", err)
	}
	return count, nil
}
