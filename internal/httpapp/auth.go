package httpapp

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/dvop/dvop-site/internal/constants"
)

type loginRequest struct {
	Password string `json:"password"`
}

// Login checks the admin password and sets the session cookie. Failures
// return 401 with no detail.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Config.AdminPassword)) != 1 {
		h.writeJSON(w, http.StatusUnauthorized, map[string]bool{"success": false})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.AdminCookieName,
		Value:    "authenticated",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(constants.AdminCookieTTL.Seconds()),
	})
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.AdminCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
