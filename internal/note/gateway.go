package note

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vikrantan5/PenSilc/internal/document"
)

var (
	ErrNotFound = errors.New("note not found")
	ErrExpired  = errors.New("share link expired")
)

// Gateway persists note canvases and their public share links. Every call
// naming an owner only touches notes that owner created; anything else is
// reported as ErrNotFound.
type Gateway interface {
	LoadScene(ctx context.Context, ownerID, noteID string) (document.SceneData, error)
	SaveScene(ctx context.Context, ownerID, noteID string, scene document.SceneData) error
	CreateOrGetShareLink(ctx context.Context, ownerID, noteID string) (string, error)
	LoadSharedScene(ctx context.Context, shareID string) (document.SceneData, error)
}

// OwnerScope binds a gateway to one user so callers that only know a note id,
// like the auto-saver, still write as that user.
type OwnerScope struct {
	gateway Gateway
	ownerID string
}

func ForOwner(gateway Gateway, ownerID string) OwnerScope {
	return OwnerScope{gateway: gateway, ownerID: ownerID}
}

func (o OwnerScope) LoadScene(ctx context.Context, noteID string) (document.SceneData, error) {
	return o.gateway.LoadScene(ctx, o.ownerID, noteID)
}

func (o OwnerScope) SaveScene(ctx context.Context, noteID string, scene document.SceneData) error {
	return o.gateway.SaveScene(ctx, o.ownerID, noteID, scene)
}

// decodeContent turns a stored content column into a scene. Notes created
// before their first save have no content and open as an empty canvas.
func decodeContent(noteID string, content []byte) (document.SceneData, error) {
	if len(content) == 0 || string(content) == "null" {
		return document.NewEmptyScene(), nil
	}
	sd, report, err := document.DecodeScene(content)
	if err != nil {
		return document.SceneData{}, fmt.Errorf("decode note %s: %w", noteID, err)
	}
	for _, sk := range report.Skipped {
		slog.Warn("skip stored object", "note", noteID, "index", sk.Index, "id", sk.ID, "type", sk.Type, "reason", sk.Reason)
	}
	return sd, nil
}
