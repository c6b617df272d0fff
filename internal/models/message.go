package models

import "time"

// Message is a text message between two connected accounts.
// Immutable after creation except for the read flag.
type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sent_at"`
	Read        bool      `json:"read"`
}
