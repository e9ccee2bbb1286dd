package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vikrantan5/PenSilc/internal/autosave"
	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/engine"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

var errMissingPayload = errors.New("missing payload")

// Session is one connection's editor. Handle must be called from a single
// goroutine; only the saver is shared with the hub.
type Session struct {
	ID     string
	NoteID string
	UserID string

	editor   *engine.Editor
	saver    *autosave.Saver
	revision uint64
	notify   func(*Message)
}

func newSession(noteID, userID string, scene document.SceneData, store autosave.Store, editorOpts []engine.Option, saverOpts []autosave.Option) (*Session, error) {
	s := &Session{
		ID:     uuid.NewString(),
		NoteID: noteID,
		UserID: userID,
		editor: engine.NewEditor(editorOpts...),
	}
	s.editor.Load(scene)
	s.revision = s.editor.Revision()

	opts := append([]autosave.Option{autosave.WithStatusHook(s.onSaveStatus)}, saverOpts...)
	s.saver = autosave.NewSaver(store, noteID, opts...)
	if err := s.saver.Baseline(s.editor.Snapshot()); err != nil {
		return nil, fmt.Errorf("baseline scene: %w", err)
	}
	return s, nil
}

func (s *Session) Editor() *engine.Editor { return s.editor }

func (s *Session) onSaveStatus(st autosave.Status) {
	if s.notify != nil {
		s.notify(newMessage(TypeSaveStatus, 0, SaveStatusPayload{Status: st}))
	}
}

func (s *Session) welcome() *Message {
	return newMessage(TypeWelcome, 0, WelcomePayload{SessionID: s.ID, NoteID: s.NoteID, UserID: s.UserID})
}

func (s *Session) render(seq int64) *Message {
	return newMessage(TypeSceneRender, seq, RenderPayload{
		Commands: s.editor.DrawCommands(),
		State:    s.editor.State(),
	})
}

func errorMessage(seq int64, err error) *Message {
	return newMessage(TypeError, seq, ErrorPayload{Message: err.Error()})
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return errMissingPayload
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", msg.Type, err)
	}
	return nil
}

// Handle applies one client message to the editor and returns the replies.
// Committed changes are handed to the auto-saver.
func (s *Session) Handle(ctx context.Context, msg *Message) []*Message {
	out, err := s.dispatch(ctx, msg)
	if err != nil {
		return []*Message{errorMessage(msg.Seq, err)}
	}

	if rev := s.editor.Revision(); rev != s.revision {
		s.revision = rev
		s.saver.Schedule(s.editor.Snapshot())
	}
	return append(out, s.render(msg.Seq))
}

func (s *Session) dispatch(ctx context.Context, msg *Message) ([]*Message, error) {
	e := s.editor

	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var ev engine.PointerEvent
		if err := decode(msg, &ev); err != nil {
			return nil, err
		}
		switch msg.Type {
		case TypePointerDown:
			e.PointerDown(ev)
		case TypePointerMove:
			e.PointerMove(ev)
		default:
			e.PointerUp(ev)
		}

	case TypeKeyDown:
		var p KeyPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.KeyDown(p.Key)

	case TypeWheel:
		var p WheelPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.Wheel(geom.Pt(p.X, p.Y), p.DeltaY)

	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if !e.SetTool(p.Tool) {
			return nil, fmt.Errorf("unknown tool %q", p.Tool)
		}

	case TypeShapeSet:
		var p ShapePayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if !e.SetShape(p.Shape) {
			return nil, fmt.Errorf("unknown shape %q", p.Shape)
		}

	case TypeStyleSet:
		var p engine.StyleSettings
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.SetStyle(p)

	case TypeTextDraft, TypeTextCommit:
		var p TextPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if msg.Type == TypeTextDraft {
			e.UpdateTextDraft(p.Content)
		} else {
			e.CommitText(p.Content)
		}

	case TypeTextCancel:
		e.CancelText()

	case TypeTextEdit:
		var p ObjectPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.EditText(p.ID)

	case TypeUndo:
		e.Undo()

	case TypeRedo:
		e.Redo()

	case TypeDarkModeToggle:
		e.ToggleDarkMode()

	case TypeSelectionCopy:
		e.CopySelected()

	case TypeSelectionDelete:
		e.DeleteSelected()

	case TypeSelectionColor:
		var p RecolorPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.RecolorSelected(p.Stroke, p.Fill)

	case TypeSelectionResize:
		var p geom.Rect
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.ResizeSelected(p)

	case TypeViewZoom:
		var p ZoomPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if p.Zoom <= 0 {
			return nil, fmt.Errorf("invalid zoom %v", p.Zoom)
		}
		e.ZoomTo(geom.Pt(p.X, p.Y), p.Zoom)

	case TypeViewFit:
		var p ViewportPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.ZoomToFit(p.Width, p.Height)

	case TypeSave:
		s.saver.Schedule(e.Snapshot())
		s.revision = e.Revision()
		if err := s.saver.Flush(ctx); err != nil {
			slog.Error("save scene", "error", err, "note", s.NoteID)
			return []*Message{newMessage(TypeSaveStatus, msg.Seq, SaveStatusPayload{Status: autosave.StatusIdle, Error: "save failed"})}, nil
		}
		return []*Message{newMessage(TypeSaveStatus, msg.Seq, SaveStatusPayload{Status: autosave.StatusSaved})}, nil

	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil, nil
}

// Flush writes any pending change immediately.
func (s *Session) Flush(ctx context.Context) error {
	return s.saver.Flush(ctx)
}

// Close drops a pending change without writing it.
func (s *Session) Close() {
	s.saver.Stop()
}
