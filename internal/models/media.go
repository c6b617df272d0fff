package models

import "time"

// MediaKind is the type of an uploaded media item.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// Valid reports whether the kind is one of the supported media kinds.
func (k MediaKind) Valid() bool {
	return k == MediaPhoto || k == MediaVideo
}

// MediaItem is one delivery of an uploaded blob to one recipient.
// A single upload fans out into one MediaItem per connected counterpart,
// all sharing the same path, description, kind, and timestamp, each with
// its own independent read flag.
type MediaItem struct {
	ID          int64     `json:"id"`
	Kind        MediaKind `json:"kind"`
	Path        string    `json:"path"`
	Description string    `json:"description,omitempty"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	SentAt      time.Time `json:"sent_at"`
	Read        bool      `json:"read"`
}
