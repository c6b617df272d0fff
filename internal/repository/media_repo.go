package repository

import (
	"database/sql"
	"fmt"
	"time"

	"carelink/internal/database"
	"carelink/internal/models"
)

const mediaColumns = "id, kind, path, COALESCE(description, ''), sender_id, recipient_id, sent_at, is_read"

// MediaRepository handles database operations for media items
type MediaRepository struct {
	db *database.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *database.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// CreateBatch inserts one media item per recipient in a single transaction,
// all sharing the same kind, path, description, and timestamp. Either every
// delivery is persisted or none are.
func (r *MediaRepository) CreateBatch(senderID int64, recipientIDs []int64, kind models.MediaKind, path, description string, sentAt time.Time) ([]models.MediaItem, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO media_items (kind, path, description, sender_id, recipient_id, sent_at, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	var desc interface{}
	if description != "" {
		desc = description
	}

	items := make([]models.MediaItem, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		id, err := tx.ExecReturningID(query, string(kind), path, desc, senderID, recipientID, sentAt, false)
		if err != nil {
			return nil, fmt.Errorf("failed to create media item: %w", err)
		}
		items = append(items, models.MediaItem{
			ID:          id,
			Kind:        kind,
			Path:        path,
			Description: description,
			SenderID:    senderID,
			RecipientID: recipientID,
			SentAt:      sentAt,
			Read:        false,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return items, nil
}

// GetByID retrieves a media item by ID, nil when absent
func (r *MediaRepository) GetByID(id int64) (*models.MediaItem, error) {
	query := "SELECT " + mediaColumns + " FROM media_items WHERE id = ?"
	item := &models.MediaItem{}
	err := r.db.QueryRow(query, id).Scan(
		&item.ID,
		&item.Kind,
		&item.Path,
		&item.Description,
		&item.SenderID,
		&item.RecipientID,
		&item.SentAt,
		&item.Read,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}

	return item, nil
}

// ListBetween returns all media exchanged between two accounts in either
// direction, oldest first
func (r *MediaRepository) ListBetween(a, b int64) ([]models.MediaItem, error) {
	query := `
		SELECT ` + mediaColumns + ` FROM media_items
		WHERE (sender_id = ? AND recipient_id = ?)
		   OR (sender_id = ? AND recipient_id = ?)
		ORDER BY sent_at ASC, id ASC
	`
	rows, err := r.db.Query(query, a, b, b, a)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	return scanMediaItems(rows)
}

// ListRecentTo returns media addressed to the recipient sent at or after
// the cutoff, oldest first
func (r *MediaRepository) ListRecentTo(recipientID int64, since time.Time) ([]models.MediaItem, error) {
	query := `
		SELECT ` + mediaColumns + ` FROM media_items
		WHERE recipient_id = ? AND sent_at >= ?
		ORDER BY sent_at ASC, id ASC
	`
	rows, err := r.db.Query(query, recipientID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent media: %w", err)
	}
	defer rows.Close()

	return scanMediaItems(rows)
}

// ListRecentBetween returns media exchanged between two accounts sent at or
// after the cutoff, oldest first
func (r *MediaRepository) ListRecentBetween(a, b int64, since time.Time) ([]models.MediaItem, error) {
	query := `
		SELECT ` + mediaColumns + ` FROM media_items
		WHERE ((sender_id = ? AND recipient_id = ?)
		   OR (sender_id = ? AND recipient_id = ?))
		  AND sent_at >= ?
		ORDER BY sent_at ASC, id ASC
	`
	rows, err := r.db.Query(query, a, b, b, a, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent media: %w", err)
	}
	defer rows.Close()

	return scanMediaItems(rows)
}

// MarkRead flips the read flag on a media item
func (r *MediaRepository) MarkRead(id int64) error {
	query := "UPDATE media_items SET is_read = ? WHERE id = ?"
	_, err := r.db.Exec(query, true, id)
	if err != nil {
		return fmt.Errorf("failed to mark media read: %w", err)
	}
	return nil
}

// SendersTo returns the distinct accounts that have delivered media to the
// recipient, one profile per sender
func (r *MediaRepository) SendersTo(recipientID int64) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE id IN (SELECT DISTINCT sender_id FROM media_items WHERE recipient_id = ?)
		ORDER BY name ASC
	`
	rows, err := r.db.Query(query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media senders: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func scanMediaItems(rows *sql.Rows) ([]models.MediaItem, error) {
	var items []models.MediaItem
	for rows.Next() {
		var item models.MediaItem
		if err := rows.Scan(
			&item.ID,
			&item.Kind,
			&item.Path,
			&item.Description,
			&item.SenderID,
			&item.RecipientID,
			&item.SentAt,
			&item.Read,
		); err != nil {
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
