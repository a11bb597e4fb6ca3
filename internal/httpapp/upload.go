package httpapp

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dvop/dvop-site/internal/constants"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var mimeByExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

var safeExtensionPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Upload stores an admin-submitted image in the object store under a
// collision-free generated key.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		h.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if h.Objects == nil {
		h.writeError(w, http.StatusInternalServerError, "Storage not available")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize+(64<<10))
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		h.writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	}
	if header.Size > constants.MaxUploadSize {
		h.writeError(w, http.StatusBadRequest, "File too large (max 5MB)")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	ext := "bin"
	if idx := strings.LastIndex(header.Filename, "."); idx >= 0 {
		candidate := strings.ToLower(header.Filename[idx+1:])
		if safeExtensionPattern.MatchString(candidate) {
			ext = candidate
		}
	}
	filename := fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	if err := h.Objects.Put(r.Context(), filename, data, contentType); err != nil {
		h.Logger.Error("failed to store upload", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	url := "/api/upload/" + filename
	h.writeJSON(w, http.StatusOK, map[string]string{
		"url":           url,
		"filename":      filename,
		"markdownImage": fmt.Sprintf("![%s](%s)", header.Filename, url),
	})
}

// ServeImage streams a stored image back with a long-lived cache header.
func (h *Handler) ServeImage(w http.ResponseWriter, r *http.Request) {
	if h.Objects == nil {
		http.Error(w, "Storage not available", http.StatusInternalServerError)
		return
	}

	filename := chi.URLParam(r, "filename")
	data, _, err := h.Objects.Get(r.Context(), filename)
	if err != nil {
		h.Logger.Error("failed to read upload", "filename", filename, "error", err)
		http.Error(w, "Storage not available", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	contentType := "application/octet-stream"
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		if mime, ok := mimeByExtension[strings.ToLower(filename[idx+1:])]; ok {
			contentType = mime
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}
