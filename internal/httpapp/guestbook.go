package httpapp

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
)

type guestbookForm struct {
	Name    string `form:"name"`
	Message string `form:"message"`
}

// CreateGuestbookEntry validates and stores a visitor message.
func (h *Handler) CreateGuestbookEntry(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 10); err != nil {
		if err := r.ParseForm(); err != nil {
			h.writeError(w, http.StatusBadRequest, "Please fill in both name and message fields.")
			return
		}
	}

	var entry guestbookForm
	if err := h.formDecoder.Decode(&entry, r.Form); err != nil {
		h.writeError(w, http.StatusBadRequest, "Please fill in both name and message fields.")
		return
	}
	entry.Name = strings.TrimSpace(entry.Name)
	entry.Message = strings.TrimSpace(entry.Message)

	if entry.Name == "" || entry.Message == "" {
		h.writeError(w, http.StatusBadRequest, "Please fill in both name and message fields.")
		return
	}
	if utf8.RuneCountInString(entry.Name) > constants.GuestbookNameMaxLen {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Name must be %d characters or less.", constants.GuestbookNameMaxLen))
		return
	}
	if utf8.RuneCountInString(entry.Message) > constants.GuestbookMessageMaxLen {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Message must be %d characters or less.", constants.GuestbookMessageMaxLen))
		return
	}

	if h.DB == nil {
		h.writeError(w, http.StatusInternalServerError, "Database not available.")
		return
	}
	if err := h.DB.CreateGuestbookEntry(entry.Name, entry.Message); err != nil {
		h.Logger.Error("failed to save guestbook entry", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save entry. Please try again.")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListGuestbook returns the newest entries.
func (h *Handler) ListGuestbook(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		h.writeError(w, http.StatusInternalServerError, "Database not available.")
		return
	}

	entries, err := h.DB.ListGuestbookEntries(constants.GuestbookListLimit)
	if err != nil {
		h.Logger.Error("failed to fetch guestbook entries", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch entries.")
		return
	}
	if entries == nil {
		entries = []domain.GuestbookEntry{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
