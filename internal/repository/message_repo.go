package repository

import (
	"database/sql"
	"fmt"
	"time"

	"carelink/internal/database"
	"carelink/internal/models"
)

const messageColumns = "id, sender_id, recipient_id, body, sent_at, is_read"

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *database.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a new message with read=false
func (r *MessageRepository) Create(senderID, recipientID int64, text string, sentAt time.Time) (*models.Message, error) {
	query := `
		INSERT INTO messages (sender_id, recipient_id, body, sent_at, is_read)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, senderID, recipientID, text, sentAt, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return &models.Message{
		ID:          id,
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		SentAt:      sentAt,
		Read:        false,
	}, nil
}

// GetByID retrieves a message by ID, nil when absent
func (r *MessageRepository) GetByID(id int64) (*models.Message, error) {
	query := "SELECT " + messageColumns + " FROM messages WHERE id = ?"
	msg := &models.Message{}
	err := r.db.QueryRow(query, id).Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.RecipientID,
		&msg.Text,
		&msg.SentAt,
		&msg.Read,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return msg, nil
}

// ListBetween returns all messages exchanged between two accounts in either
// direction, oldest first
func (r *MessageRepository) ListBetween(a, b int64) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + ` FROM messages
		WHERE (sender_id = ? AND recipient_id = ?)
		   OR (sender_id = ? AND recipient_id = ?)
		ORDER BY sent_at ASC, id ASC
	`
	rows, err := r.db.Query(query, a, b, b, a)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListUnreadTo returns all unread messages addressed to the recipient
func (r *MessageRepository) ListUnreadTo(recipientID int64) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + ` FROM messages
		WHERE recipient_id = ? AND is_read = ?
		ORDER BY sent_at ASC, id ASC
	`
	rows, err := r.db.Query(query, recipientID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query unread messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListUnreadBetween returns unread messages from one sender to one recipient
func (r *MessageRepository) ListUnreadBetween(recipientID, senderID int64) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + ` FROM messages
		WHERE recipient_id = ? AND sender_id = ? AND is_read = ?
		ORDER BY sent_at ASC, id ASC
	`
	rows, err := r.db.Query(query, recipientID, senderID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query unread messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// MarkRead flips the read flag on a message
func (r *MessageRepository) MarkRead(id int64) error {
	query := "UPDATE messages SET is_read = ? WHERE id = ?"
	_, err := r.db.Exec(query, true, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.RecipientID,
			&msg.Text,
			&msg.SentAt,
			&msg.Read,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
