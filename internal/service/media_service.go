package service

import (
	"errors"
	"fmt"
	"time"

	"carelink/internal/models"
	"carelink/internal/repository"
)

var (
	ErrInvalidKind   = errors.New("media kind must be photo or video")
	ErrNoConnections = errors.New("sender has no connections to deliver to")
	ErrMediaNotFound = errors.New("media item not found")
)

// defaultRecentWindow bounds the recent-media feed when no window is given.
const defaultRecentWindow = 30 * 24 * time.Hour

// MediaService handles media delivery and the fan-out of uploads across
// the sender's connections
type MediaService struct {
	media *repository.MediaRepository
	graph *GraphService
	guard *Guard
}

// NewMediaService creates a new media service
func NewMediaService(media *repository.MediaRepository, graph *GraphService, guard *Guard) *MediaService {
	return &MediaService{
		media: media,
		graph: graph,
		guard: guard,
	}
}

// Upload records one delivery per connected counterpart for an already
// stored blob. All deliveries share the path, description, and timestamp;
// each carries its own read flag. A sender with no connections gets an
// error and nothing is persisted.
func (s *MediaService) Upload(senderID int64, kind models.MediaKind, path, description string) ([]models.MediaItem, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if path == "" {
		return nil, errors.New("media path must not be empty")
	}

	recipients, err := s.graph.ConnectedAccounts(senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil, ErrNoConnections
	}

	recipientIDs := make([]int64, 0, len(recipients))
	for i := range recipients {
		recipientIDs = append(recipientIDs, recipients[i].ID)
	}

	items, err := s.media.CreateBatch(senderID, recipientIDs, kind, path, description, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to deliver media: %w", err)
	}
	return items, nil
}

// ListBetween returns the media exchanged between the caller and a peer,
// oldest first. The caller must be connected to the peer.
func (s *MediaService) ListBetween(callerID, peerID int64) ([]models.MediaItem, error) {
	if err := s.guard.Authorize(callerID, peerID); err != nil {
		return nil, err
	}

	items, err := s.media.ListBetween(callerID, peerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	if items == nil {
		items = []models.MediaItem{}
	}
	return items, nil
}

// ListRecent returns the caller's incoming media from the last windowDays
// days, oldest first. A non-positive window falls back to the default.
func (s *MediaService) ListRecent(callerID int64, windowDays int) ([]models.MediaItem, error) {
	window := defaultRecentWindow
	if windowDays > 0 {
		window = time.Duration(windowDays) * 24 * time.Hour
	}

	items, err := s.media.ListRecentTo(callerID, time.Now().UTC().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent media: %w", err)
	}
	if items == nil {
		items = []models.MediaItem{}
	}
	return items, nil
}

// ListRecentBetween returns recent media exchanged with one peer
func (s *MediaService) ListRecentBetween(callerID, peerID int64, windowDays int) ([]models.MediaItem, error) {
	if err := s.guard.Authorize(callerID, peerID); err != nil {
		return nil, err
	}

	window := defaultRecentWindow
	if windowDays > 0 {
		window = time.Duration(windowDays) * 24 * time.Hour
	}

	items, err := s.media.ListRecentBetween(callerID, peerID, time.Now().UTC().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent media: %w", err)
	}
	if items == nil {
		items = []models.MediaItem{}
	}
	return items, nil
}

// MarkRead flips a media item's read flag. Only the recipient of that
// delivery may do this; other deliveries of the same upload are untouched.
func (s *MediaService) MarkRead(callerID, mediaID int64) (*models.MediaItem, error) {
	item, err := s.media.GetByID(mediaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}
	if item == nil {
		return nil, ErrMediaNotFound
	}
	if item.RecipientID != callerID {
		return nil, ErrNotRecipient
	}
	if item.Read {
		return item, nil
	}

	if err := s.media.MarkRead(mediaID); err != nil {
		return nil, fmt.Errorf("failed to mark media read: %w", err)
	}
	item.Read = true
	return item, nil
}

// Item returns a single media delivery. Only its sender or recipient may
// see it.
func (s *MediaService) Item(callerID, mediaID int64) (*models.MediaItem, error) {
	item, err := s.media.GetByID(mediaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}
	if item == nil {
		return nil, ErrMediaNotFound
	}
	if item.SenderID != callerID && item.RecipientID != callerID {
		return nil, ErrNotRecipient
	}
	return item, nil
}

// Contacts returns the caller's connected counterparts, the set of
// accounts whose media they may browse
func (s *MediaService) Contacts(callerID int64) ([]models.Profile, error) {
	return s.graph.ConnectionsOf(callerID)
}

// ContactsWithMedia returns only the counterparts that have actually
// delivered media to the caller
func (s *MediaService) ContactsWithMedia(callerID int64) ([]models.Profile, error) {
	senders, err := s.media.SendersTo(callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media senders: %w", err)
	}

	profiles := make([]models.Profile, 0, len(senders))
	for i := range senders {
		profiles = append(profiles, senders[i].PublicProfile())
	}
	return profiles, nil
}
