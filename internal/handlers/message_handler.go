package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"carelink/internal/service"
)

// MessageHandler handles messaging requests
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Text        string `json:"text"`
}

// Send delivers a message from the caller to a connected recipient
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	msg, err := h.messageService.Send(identity.AccountID, req.RecipientID, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// ListBetween returns the conversation between the caller and a peer
func (h *MessageHandler) ListBetween(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	peerID, err := strconv.ParseInt(r.PathValue("peerID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid peer ID"})
		return
	}

	messages, err := h.messageService.ListBetween(identity.AccountID, peerID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// Unread returns the caller's unread messages. Observers must pass the
// peer query parameter naming the caregiver.
func (h *MessageHandler) Unread(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	var peerID int64
	if raw := r.URL.Query().Get("peer"); raw != "" {
		var err error
		peerID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid peer ID"})
			return
		}
	}

	messages, err := h.messageService.Unread(identity.AccountID, identity.Role, peerID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// MarkRead flips a message's read flag on behalf of its recipient
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	messageID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid message ID"})
		return
	}

	msg, err := h.messageService.MarkRead(identity.AccountID, messageID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msg)
}
