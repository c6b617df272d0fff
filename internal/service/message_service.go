package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"carelink/internal/models"
	"carelink/internal/repository"
)

var (
	ErrEmptyText       = errors.New("message text must not be empty")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotRecipient    = errors.New("only the recipient may mark a message read")
	ErrMissingPeer     = errors.New("observer unread queries require a peer")
)

// MessageService handles sending and reading messages between connected
// accounts
type MessageService struct {
	messages *repository.MessageRepository
	guard    *Guard
}

// NewMessageService creates a new message service
func NewMessageService(messages *repository.MessageRepository, guard *Guard) *MessageService {
	return &MessageService{
		messages: messages,
		guard:    guard,
	}
}

// Send delivers a message from the authenticated sender to a connected
// recipient. The sender identity always comes from the session, never
// from the request body.
func (s *MessageService) Send(senderID, recipientID int64, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	if err := s.guard.Authorize(senderID, recipientID); err != nil {
		return nil, err
	}

	msg, err := s.messages.Create(senderID, recipientID, text, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

// ListBetween returns the full conversation between the caller and a peer,
// oldest first. The caller must be connected to the peer.
func (s *MessageService) ListBetween(callerID, peerID int64) ([]models.Message, error) {
	if err := s.guard.Authorize(callerID, peerID); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListBetween(callerID, peerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// Unread returns the caller's unread messages. Caregivers see every unread
// message addressed to them across all senders; observers must name the
// caregiver whose messages they want.
func (s *MessageService) Unread(callerID int64, callerRole models.Role, peerID int64) ([]models.Message, error) {
	var (
		messages []models.Message
		err      error
	)

	switch callerRole {
	case models.RoleCaregiver:
		if peerID != 0 {
			if err := s.guard.Authorize(callerID, peerID); err != nil {
				return nil, err
			}
			messages, err = s.messages.ListUnreadBetween(callerID, peerID)
		} else {
			messages, err = s.messages.ListUnreadTo(callerID)
		}
	case models.RoleObserver:
		if peerID == 0 {
			return nil, ErrMissingPeer
		}
		if err := s.guard.Authorize(callerID, peerID); err != nil {
			return nil, err
		}
		messages, err = s.messages.ListUnreadBetween(callerID, peerID)
	default:
		return nil, ErrMissingPeer
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// MarkRead flips a message's read flag. Only the recipient may do this,
// and marking an already-read message is a no-op.
func (s *MessageService) MarkRead(callerID, messageID int64) (*models.Message, error) {
	msg, err := s.messages.GetByID(messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if msg.RecipientID != callerID {
		return nil, ErrNotRecipient
	}
	if msg.Read {
		return msg, nil
	}

	if err := s.messages.MarkRead(messageID); err != nil {
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	msg.Read = true
	return msg, nil
}
