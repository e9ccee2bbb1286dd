package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vikrantan5/PenSilc/internal/auth"
	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/note"
)

const maxScale = 4.0

// SceneLoader is the read side of the note gateway.
type SceneLoader interface {
	LoadScene(ctx context.Context, ownerID, noteID string) (document.SceneData, error)
}

type Handler struct {
	scenes SceneLoader
}

func NewHandler(scenes SceneLoader) *Handler {
	return &Handler{scenes: scenes}
}

func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "png", "image/png", WritePNG)
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "pdf", "application/pdf", WritePDF)
}

type writeFunc func(w io.Writer, sd document.SceneData, opts Options) error

func (h *Handler) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write writeFunc) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	noteID := mux.Vars(r)["noteId"]

	opts, err := parseOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	scene, err := h.scenes.LoadScene(r.Context(), userID, noteID)
	if err != nil {
		switch {
		case errors.Is(err, note.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		default:
			slog.Error("load scene for export", "error", err, "note", noteID)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return
	}

	// Rendered into a buffer so a failure can still produce an error status.
	var buf bytes.Buffer
	if err := write(&buf, scene, opts); err != nil {
		slog.Error("export scene", "error", err, "note", noteID, "format", ext)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="note-%s.%s"`, safeName(noteID), ext))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func parseOptions(r *http.Request) (Options, error) {
	opts := Options{Scale: DefaultScale, Padding: DefaultPadding}
	q := r.URL.Query()
	if v := q.Get("scale"); v != "" {
		s, err := strconv.ParseFloat(v, 64)
		if err != nil || s <= 0 || s > maxScale {
			return Options{}, fmt.Errorf("scale must be in (0, %g]", maxScale)
		}
		opts.Scale = s
	}
	if v := q.Get("padding"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return Options{}, errors.New("padding must be a non-negative number")
		}
		opts.Padding = p
	}
	return opts, nil
}

func safeName(id string) string {
	out := []rune(id)
	for i, r := range out {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			out[i] = '-'
		}
	}
	return string(out)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
