package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"carelink/internal/service"
	"carelink/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps service errors onto HTTP status codes. Anything not
// recognized is an internal error and gets logged with its cause intact.
func statusFor(err error) int {
	var vErr validation.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, service.ErrEmptyText),
		errors.Is(err, service.ErrInvalidKind),
		errors.Is(err, service.ErrMissingPeer):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotConnected),
		errors.Is(err, service.ErrInvalidRoles),
		errors.Is(err, service.ErrSelfTarget),
		errors.Is(err, service.ErrNotRecipient),
		errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrAccountMissing),
		errors.Is(err, service.ErrUnknownTarget),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrMediaNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyConnected),
		errors.Is(err, service.ErrConnectionLimitReached),
		errors.Is(err, service.ErrNoConnections):
		return http.StatusConflict
	}

	log.Printf("Internal error: %v", err)
	return http.StatusInternalServerError
}
