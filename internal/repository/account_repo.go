package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carelink/internal/database"
	"carelink/internal/models"
)

// ErrDuplicateEmail is returned when an insert hits the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

const accountColumns = "id, name, email, password_hash, role, COALESCE(relation, ''), birth_date, created_at, updated_at"

// AccountRepository handles database operations for accounts
type AccountRepository struct {
	db *database.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account and returns it with its generated ID
func (r *AccountRepository) Create(account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (name, email, password_hash, role, relation, birth_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	var relation interface{}
	if account.Relation != "" {
		relation = account.Relation
	}
	var birthDate interface{}
	if account.BirthDate != nil {
		birthDate = *account.BirthDate
	}

	id, err := r.db.ExecReturningID(query, account.Name, account.Email, account.PasswordHash, string(account.Role), relation, birthDate)
	if err != nil {
		if r.db.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	created := *account
	created.ID = id
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	return &created, nil
}

// GetByEmail retrieves an account by email address, nil when absent
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE email = ?"
	return r.scanOne(r.db.QueryRow(query, email))
}

// GetByID retrieves an account by ID, nil when absent
func (r *AccountRepository) GetByID(id int64) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE id = ?"
	return r.scanOne(r.db.QueryRow(query, id))
}

// UpdateProfile updates an account's mutable profile fields.
// Connection membership is derived from the connections table and is
// never touched through this path.
func (r *AccountRepository) UpdateProfile(id int64, name, relation string) error {
	query := `
		UPDATE accounts
		SET name = ?, relation = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	var rel interface{}
	if relation != "" {
		rel = relation
	}
	_, err := r.db.Exec(query, name, rel, id)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// Search finds accounts whose name or email contains the query string
func (r *AccountRepository) Search(q string) ([]models.Account, error) {
	query := "SELECT " + accountColumns + ` FROM accounts
		WHERE name LIKE ? OR email LIKE ?
		ORDER BY name ASC
	`
	pattern := "%" + q + "%"
	rows, err := r.db.Query(query, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func (r *AccountRepository) scanOne(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var birthDate sql.NullTime
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Relation,
		&birthDate,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if birthDate.Valid {
		account.BirthDate = &birthDate.Time
	}
	return account, nil
}

func scanAccounts(rows *sql.Rows) ([]models.Account, error) {
	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		var birthDate sql.NullTime
		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Email,
			&account.PasswordHash,
			&account.Role,
			&account.Relation,
			&birthDate,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if birthDate.Valid {
			account.BirthDate = &birthDate.Time
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
