package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"carelink/internal/models"
	"carelink/internal/service"
	"carelink/internal/storage"
)

// MediaHandler handles media upload and browsing requests
type MediaHandler struct {
	mediaService *service.MediaService
	blobs        storage.BlobStore
	maxUpload    int64
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *service.MediaService, blobs storage.BlobStore, maxUpload int64) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		blobs:        blobs,
		maxUpload:    maxUpload,
	}
}

type uploadRequest struct {
	Kind        string `json:"kind"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Upload accepts a media upload and fans it out to every connected
// counterpart. Multipart requests carry the file itself; JSON requests
// reference an already stored path.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.uploadMultipart(w, r, identity.AccountID)
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return
	}

	items, err := h.mediaService.Upload(identity.AccountID, models.MediaKind(req.Kind), req.Path, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, items)
}

func (h *MediaHandler) uploadMultipart(w http.ResponseWriter, r *http.Request, senderID int64) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large or malformed"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	kind := models.MediaKind(r.FormValue("kind"))
	if !kind.Valid() {
		respondError(w, service.ErrInvalidKind)
		return
	}

	path, err := h.blobs.Save(r.Context(), header.Filename, file)
	if err != nil {
		respondError(w, err)
		return
	}

	items, err := h.mediaService.Upload(senderID, kind, path, r.FormValue("description"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, items)
}

// ListBetween returns the media exchanged between the caller and a peer
func (h *MediaHandler) ListBetween(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	peerID, err := strconv.ParseInt(r.PathValue("peerID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid peer ID"})
		return
	}

	items, err := h.mediaService.ListBetween(identity.AccountID, peerID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Recent returns the caller's incoming media from the last days window.
// An optional peer query parameter narrows the feed to one counterpart.
func (h *MediaHandler) Recent(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		var err error
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid days value"})
			return
		}
	}

	var (
		items []models.MediaItem
		err   error
	)
	if raw := r.URL.Query().Get("peer"); raw != "" {
		peerID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid peer ID"})
			return
		}
		items, err = h.mediaService.ListRecentBetween(identity.AccountID, peerID, days)
	} else {
		items, err = h.mediaService.ListRecent(identity.AccountID, days)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// MarkRead flips a media delivery's read flag on behalf of its recipient
func (h *MediaHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	mediaID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid media ID"})
		return
	}

	item, err := h.mediaService.MarkRead(identity.AccountID, mediaID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Contacts returns the caller's connected counterparts. With the
// with_media query parameter set, only counterparts that have delivered
// media to the caller are returned.
func (h *MediaHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	var (
		profiles []models.Profile
		err      error
	)
	if r.URL.Query().Get("with_media") == "true" {
		profiles, err = h.mediaService.ContactsWithMedia(identity.AccountID)
	} else {
		profiles, err = h.mediaService.Contacts(identity.AccountID)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// ResolveURL resolves a stored media path to a fetchable URL
func (h *MediaHandler) ResolveURL(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	mediaID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid media ID"})
		return
	}

	item, err := h.mediaService.Item(identity.AccountID, mediaID)
	if err != nil {
		respondError(w, err)
		return
	}

	url, err := h.blobs.URL(r.Context(), item.Path)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
