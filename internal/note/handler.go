package note

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikrantan5/PenSilc/internal/auth"
	"github.com/vikrantan5/PenSilc/internal/document"
)

const maxSceneBytes = 16 << 20

type Handler struct {
	gateway Gateway
}

func NewHandler(gateway Gateway) *Handler {
	return &Handler{gateway: gateway}
}

type shareResponse struct {
	ShareID string `json:"shareId"`
	URL     string `json:"url"`
}

// owner returns the authenticated user, writing a 401 when there is none.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return "", false
	}
	return userID, true
}

func (h *Handler) GetScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	noteID := mux.Vars(r)["noteId"]

	scene, err := h.gateway.LoadScene(r.Context(), userID, noteID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scene)
}

func (h *Handler) PutScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	noteID := mux.Vars(r)["noteId"]

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSceneBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "scene too large"})
		return
	}

	scene, report, err := document.DecodeScene(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scene"})
		return
	}
	for _, sk := range report.Skipped {
		slog.Warn("drop uploaded object", "note", noteID, "index", sk.Index, "type", sk.Type, "reason", sk.Reason)
	}

	if err := h.gateway.SaveScene(r.Context(), userID, noteID, scene); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "skipped": len(report.Skipped)})
}

func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	noteID := mux.Vars(r)["noteId"]

	shareID, err := h.gateway.CreateOrGetShareLink(r.Context(), userID, noteID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{ShareID: shareID, URL: "/shared/" + shareID})
}

func (h *Handler) GetShared(w http.ResponseWriter, r *http.Request) {
	shareID := mux.Vars(r)["shareId"]

	scene, err := h.gateway.LoadSharedScene(r.Context(), shareID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scene)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrExpired):
		writeJSON(w, http.StatusGone, map[string]string{"error": "share link expired"})
	default:
		slog.Error("note gateway error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
