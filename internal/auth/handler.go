package auth

import "net/http"

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Me reports the caller's user id as seen through the token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": userID})
}
