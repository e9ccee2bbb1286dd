package engine

import "github.com/vikrantan5/PenSilc/internal/document"

// History is a linear undo/redo stack of whole-scene snapshots. The cursor
// always points at a valid snapshot.
type History struct {
	steps  []document.Scene
	cursor int
}

// NewHistory starts a history whose only step is initial.
func NewHistory(initial document.Scene) *History {
	h := &History{}
	h.Reset(initial)
	return h
}

// Reset discards every step and starts over from scene.
func (h *History) Reset(scene document.Scene) {
	h.steps = []document.Scene{scene}
	h.cursor = 0
}

// Commit drops any redo branch and appends snapshot as the current step.
func (h *History) Commit(snapshot document.Scene) {
	h.steps = append(h.steps[:h.cursor+1], snapshot)
	h.cursor = len(h.steps) - 1
}

// Undo steps back. At the first step it returns the current snapshot and
// false.
func (h *History) Undo() (document.Scene, bool) {
	if h.cursor == 0 {
		return h.steps[h.cursor], false
	}
	h.cursor--
	return h.steps[h.cursor], true
}

// Redo steps forward. At the last step it returns the current snapshot and
// false.
func (h *History) Redo() (document.Scene, bool) {
	if h.cursor >= len(h.steps)-1 {
		return h.steps[h.cursor], false
	}
	h.cursor++
	return h.steps[h.cursor], true
}

func (h *History) Current() document.Scene { return h.steps[h.cursor] }
func (h *History) Len() int                { return len(h.steps) }
func (h *History) Cursor() int             { return h.cursor }
func (h *History) CanUndo() bool           { return h.cursor > 0 }
func (h *History) CanRedo() bool           { return h.cursor < len(h.steps)-1 }
