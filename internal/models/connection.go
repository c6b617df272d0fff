package models

import "time"

// Connection is an accepted pairing between one caregiver and one observer.
// The connections table is the single source of truth for the relationship
// graph; connection sets are derived from it by query.
type Connection struct {
	ID          int64     `json:"id"`
	CaregiverID int64     `json:"caregiver_id"`
	ObserverID  int64     `json:"observer_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// PeerOf returns the other endpoint of the connection, or 0 when the
// given account is not an endpoint.
func (c *Connection) PeerOf(accountID int64) int64 {
	switch accountID {
	case c.CaregiverID:
		return c.ObserverID
	case c.ObserverID:
		return c.CaregiverID
	}
	return 0
}
