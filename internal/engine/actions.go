package engine

import (
	"math"
	"strings"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

// --- Text ---

// UpdateTextDraft stores what the user has typed into the open text box.
func (e *Editor) UpdateTextDraft(content string) {
	if e.textBox != nil {
		e.textBox.Content = content
	}
}

// CommitText closes the open text box. Non-blank content creates a text
// object, or updates the one being edited; blank content is discarded.
func (e *Editor) CommitText(content string) {
	box := e.textBox
	if box == nil {
		return
	}
	e.textBox = nil
	if strings.TrimSpace(content) == "" {
		return
	}

	if box.EditingID != "" {
		obj, ok := e.scene.Find(box.EditingID)
		if !ok {
			return
		}
		text, ok := obj.(document.Text)
		if !ok {
			return
		}
		text.Content = content
		e.scene = e.scene.Replace(text)
		e.commit()
		e.selected = text.ID
		e.tool = ToolSelect
		return
	}

	text := document.Text{
		Base: document.Base{
			ID:        e.newID(),
			Style:     document.Style{Fill: e.style.Color, Opacity: 1},
			Draggable: true,
		},
		At:         box.Rect.Min(),
		Content:    content,
		FontSize:   e.style.FontSize,
		FontFamily: e.style.FontFamily,
		Align:      document.AlignLeft,
		Width:      box.Rect.Width,
	}
	e.scene = e.scene.Append(text)
	e.finishCreate(text.ID)
}

// closeTextBox commits the open draft, or drops it when blank.
func (e *Editor) closeTextBox() {
	if e.textBox != nil {
		e.CommitText(e.textBox.Content)
	}
}

// CancelText closes the open text box without changing the scene.
func (e *Editor) CancelText() {
	e.textBox = nil
}

// EditText reopens the text box over an existing text object.
func (e *Editor) EditText(id string) bool {
	obj, ok := e.scene.Find(id)
	if !ok {
		return false
	}
	text, ok := obj.(document.Text)
	if !ok {
		return false
	}
	width := text.Width
	if width <= 0 {
		width = DefaultTextBoxWidth
	}
	size := text.FontSize
	if size <= 0 {
		size = document.DefaultFontSize
	}
	e.textBox = &TextBox{
		Rect:      geom.Rect{X: text.At.X, Y: text.At.Y, Width: width, Height: size * 1.5},
		Content:   text.Content,
		EditingID: id,
	}
	return true
}

// --- Selection ---

// Selection actions drop any gesture in progress first, so previews never
// reach history.

// CopySelected duplicates the selected object CopyOffset down and right and
// selects the copy.
func (e *Editor) CopySelected() bool {
	e.abortGesture()
	obj, ok := e.scene.Find(e.selected)
	if !ok {
		return false
	}
	dup := obj.WithID(e.newID()).WithDraggable(true).Translate(geom.Pt(CopyOffset, CopyOffset))
	e.scene = e.scene.Append(dup)
	e.commit()
	e.selected = dup.ObjectID()
	return true
}

// DeleteSelected removes the selected object.
func (e *Editor) DeleteSelected() bool {
	e.abortGesture()
	if e.scene.Index(e.selected) < 0 {
		return false
	}
	e.scene = e.scene.Remove(e.selected)
	e.commit()
	e.selected = ""
	return true
}

// RecolorSelected sets the stroke and fill of the selected object. An empty
// color leaves that channel alone. Text is colored through its fill, so a
// stroke color is applied to the fill of text objects.
func (e *Editor) RecolorSelected(stroke, fill string) bool {
	e.abortGesture()
	obj, ok := e.scene.Find(e.selected)
	if !ok || (stroke == "" && fill == "") {
		return false
	}
	st := obj.ObjectStyle()
	if _, isText := obj.(document.Text); isText && fill == "" {
		fill, stroke = stroke, ""
	}
	if stroke != "" {
		st.Stroke = stroke
		st.OriginalStroke = ""
	}
	if fill != "" {
		st.Fill = fill
		st.OriginalFill = ""
	}
	e.scene = e.scene.Replace(obj.WithStyle(st))
	e.commit()
	return true
}

// ResizeSelected fits the selected object into r. Negative extents are
// normalized.
func (e *Editor) ResizeSelected(r geom.Rect) bool {
	e.abortGesture()
	obj, ok := e.scene.Find(e.selected)
	if !ok {
		return false
	}
	r = r.Normalize()
	resized, ok := resize(obj, r)
	if !ok {
		return false
	}
	e.scene = e.scene.Replace(resized)
	e.commit()
	return true
}

func resize(obj document.Object, r geom.Rect) (document.Object, bool) {
	switch o := obj.(type) {
	case document.Rectangle:
		o.At, o.Width, o.Height = r.Min(), r.Width, r.Height
		return o, true
	case document.Circle:
		o.Center = r.Center()
		o.Radius = max(r.Width, r.Height) / 2
		return o, true
	case document.Ellipse:
		o.Center = r.Center()
		o.RadiusX, o.RadiusY = r.Width/2, r.Height/2
		return o, true
	case document.Text:
		o.At, o.Width = r.Min(), r.Width
		return o, true
	case document.Group:
		o.At, o.Width, o.Height = r.Min(), r.Width, r.Height
		return o, true
	case document.Path:
		o.Points = fitPoints(o.Points, o.Bounds(), r)
		return o, true
	case document.Line:
		pts := fitPoints(o.Absolute(), o.Bounds(), r)
		o.At = pts[0]
		o.Offsets = [2]geom.Point{{}, pts[1].Sub(pts[0])}
		return o, true
	case document.Arrow:
		pts := fitPoints(o.Absolute(), o.Bounds(), r)
		o.At = pts[0]
		o.Offsets = [2]geom.Point{{}, pts[1].Sub(pts[0])}
		return o, true
	case document.Triangle:
		pts := fitPoints(o.Absolute(), o.Bounds(), r)
		o.At = pts[0]
		o.Offsets = [3]geom.Point{{}, pts[1].Sub(pts[0]), pts[2].Sub(pts[0])}
		return o, true
	}
	return obj, false
}

// fitPoints maps pts from the box from onto the box to. A zero extent keeps
// its scale.
func fitPoints(pts []geom.Point, from, to geom.Rect) []geom.Point {
	sx, sy := 1.0, 1.0
	if from.Width > 0 {
		sx = to.Width / from.Width
	}
	if from.Height > 0 {
		sy = to.Height / from.Height
	}
	m := geom.Translate(to.X, to.Y).
		Multiply(geom.Scale(sx, sy)).
		Multiply(geom.Translate(-from.X, -from.Y))
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}

// --- Keyboard ---

// KeyDown handles editor shortcuts. Keys follow the DOM KeyboardEvent.key
// names.
func (e *Editor) KeyDown(key string) {
	switch key {
	case "Backspace", "Delete":
		if e.textBox == nil {
			e.DeleteSelected()
		}
	case "Enter":
		if e.textBox != nil {
			e.CommitText(e.textBox.Content)
		}
	case "Escape":
		if e.textBox != nil {
			e.CancelText()
			return
		}
		e.abortGesture()
		e.selected = ""
	}
}

// --- History ---

// Undo steps the scene back one commit.
func (e *Editor) Undo() bool {
	e.abortGesture()
	scene, ok := e.history.Undo()
	if ok {
		e.restore(scene)
	}
	return ok
}

// Redo re-applies the last undone commit.
func (e *Editor) Redo() bool {
	e.abortGesture()
	scene, ok := e.history.Redo()
	if ok {
		e.restore(scene)
	}
	return ok
}

// --- Dark mode ---

// ToggleDarkMode flips the color scheme. White and black ink is swapped for
// palette colors on entry and restored on exit; the change is one commit.
func (e *Editor) ToggleDarkMode() {
	e.abortGesture()
	e.dark = !e.dark
	e.scene = ApplyDarkMode(e.scene, e.dark, e.rand)
	e.style.Color = DefaultDrawingColor(e.rand, e.dark)
	e.style.StrokeColor = e.style.Color
	e.commit()
}

// scaleFactor is the zoom needed to fit content of the given size into a
// viewport, capped to the zoom range.
func scaleFactor(content, viewport geom.Rect) float64 {
	if content.IsEmpty() || viewport.IsEmpty() {
		return 1
	}
	return clampZoom(math.Min(viewport.Width/content.Width, viewport.Height/content.Height))
}

// ZoomToFit centers the scene in a screen of the given size.
func (e *Editor) ZoomToFit(width, height float64) {
	var bounds geom.Rect
	for i, o := range e.scene {
		if i == 0 {
			bounds = o.Bounds()
			continue
		}
		bounds = bounds.Union(o.Bounds())
	}
	screen := geom.Rect{Width: width, Height: height}
	zoom := scaleFactor(bounds, screen)
	e.view = Viewport{
		Zoom: zoom,
		Pan:  screen.Center().Sub(bounds.Center().Mul(zoom)),
	}
}
