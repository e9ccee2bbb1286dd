package session

import (
	"encoding/json"

	"github.com/vikrantan5/PenSilc/internal/autosave"
	"github.com/vikrantan5/PenSilc/internal/engine"
)

type Message struct {
	Type    string          `json:"type"`
	NoteID  string          `json:"noteId,omitempty"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypePointerDown     = "pointer.down"
	TypePointerMove     = "pointer.move"
	TypePointerUp       = "pointer.up"
	TypeKeyDown         = "key.down"
	TypeWheel           = "wheel"
	TypeToolSet         = "tool.set"
	TypeShapeSet        = "shape.set"
	TypeStyleSet        = "style.set"
	TypeTextDraft       = "text.draft"
	TypeTextCommit      = "text.commit"
	TypeTextCancel      = "text.cancel"
	TypeTextEdit        = "text.edit"
	TypeUndo            = "undo"
	TypeRedo            = "redo"
	TypeDarkModeToggle  = "darkmode.toggle"
	TypeSelectionCopy   = "selection.copy"
	TypeSelectionDelete = "selection.delete"
	TypeSelectionColor  = "selection.recolor"
	TypeSelectionResize = "selection.resize"
	TypeViewFit         = "view.fit"
	TypeViewZoom        = "view.zoom"
	TypeSave            = "save"

	// Server to client
	TypeWelcome     = "welcome"
	TypeSceneRender = "scene.render"
	TypeSaveStatus  = "save.status"
	TypeError       = "error"
)

type KeyPayload struct {
	Key string `json:"key"`
}

type WheelPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

type ToolPayload struct {
	Tool engine.ToolMode `json:"tool"`
}

type ShapePayload struct {
	Shape engine.ShapeKind `json:"shape"`
}

type TextPayload struct {
	Content string `json:"content"`
}

type ObjectPayload struct {
	ID string `json:"id"`
}

type RecolorPayload struct {
	Stroke string `json:"stroke"`
	Fill   string `json:"fill"`
}

type ZoomPayload struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

type ViewportPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	NoteID    string `json:"noteId"`
	UserID    string `json:"userId"`
}

type RenderPayload struct {
	Commands []engine.DrawCommand `json:"commands"`
	State    engine.State         `json:"state"`
}

type SaveStatusPayload struct {
	Status autosave.Status `json:"status"`
	Error  string          `json:"error,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ string, seq int64, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	return &Message{Type: typ, Seq: seq, Payload: data}
}
