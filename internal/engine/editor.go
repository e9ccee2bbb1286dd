package engine

import (
	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/geom"
	"github.com/vikrantan5/PenSilc/internal/typeid"
)

type ToolMode string

const (
	ToolPen         ToolMode = "pen"
	ToolHighlighter ToolMode = "highlighter"
	ToolLine        ToolMode = "line"
	ToolShape       ToolMode = "shape"
	ToolText        ToolMode = "text"
	ToolEraser      ToolMode = "eraser"
	ToolSelect      ToolMode = "select"
	ToolPan         ToolMode = "pan"
	ToolAreaCopy    ToolMode = "copy"
)

func (t ToolMode) Valid() bool {
	switch t {
	case ToolPen, ToolHighlighter, ToolLine, ToolShape, ToolText,
		ToolEraser, ToolSelect, ToolPan, ToolAreaCopy:
		return true
	}
	return false
}

// Gesture is the pointer interaction currently in progress.
type Gesture string

const (
	GestureIdle          Gesture = "idle"
	GestureFreehand      Gesture = "drawing-freehand"
	GestureShapePreview  Gesture = "dragging-shape-preview"
	GestureLinePreview   Gesture = "dragging-line-preview"
	GestureTextBox       Gesture = "dragging-text-box"
	GestureErasing       Gesture = "erasing"
	GesturePanning       Gesture = "panning"
	GestureSelectingArea Gesture = "selecting-area"
	GestureMovingObject  Gesture = "moving-object"
)

const (
	ButtonPrimary = 0
	ButtonMiddle  = 1

	// DoubleClickMillis is the longest gap between two primary presses that
	// still counts as a double click.
	DoubleClickMillis = 300

	// CopyOffset shifts duplicated objects away from their source.
	CopyOffset = 20.0

	HighlighterOpacity = 0.5

	MinTextBoxWidth     = 50.0
	MinTextBoxHeight    = 30.0
	DefaultTextBoxWidth = 200.0
)

// PointerEvent is a pointer press, move or release in screen pixels. Time is
// in milliseconds; zero means the client did not stamp the event.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
	Time   int64   `json:"time"`
}

func (p PointerEvent) Screen() geom.Point { return geom.Pt(p.X, p.Y) }

// StyleSettings are the toolbar values new objects are created with.
type StyleSettings struct {
	Color       string  `json:"color"`
	StrokeColor string  `json:"strokeColor"`
	FillColor   string  `json:"fillColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FontSize    float64 `json:"fontSize"`
	FontFamily  string  `json:"fontFamily"`
}

func DefaultStyleSettings() StyleSettings {
	return StyleSettings{
		Color:       document.DefaultStroke,
		StrokeColor: document.DefaultStroke,
		FillColor:   document.FillNone,
		StrokeWidth: 2,
		FontSize:    document.DefaultFontSize,
		FontFamily:  document.DefaultFontFamily,
	}
}

// merge overlays the non-zero fields of s onto cur.
func (s StyleSettings) merge(cur StyleSettings) StyleSettings {
	if s.Color != "" {
		cur.Color = s.Color
	}
	if s.StrokeColor != "" {
		cur.StrokeColor = s.StrokeColor
	}
	if s.FillColor != "" {
		cur.FillColor = s.FillColor
	}
	if s.StrokeWidth > 0 {
		cur.StrokeWidth = s.StrokeWidth
	}
	if s.FontSize > 0 {
		cur.FontSize = s.FontSize
	}
	if s.FontFamily != "" {
		cur.FontFamily = s.FontFamily
	}
	return cur
}

// TextBox is the open text entry area. EditingID is set when an existing
// text object is being edited.
type TextBox struct {
	Rect      geom.Rect `json:"rect"`
	Content   string    `json:"content"`
	EditingID string    `json:"editingId,omitempty"`
}

// Editor is the editing session of one note: the scene, its history, the
// view and the tool state machine. It is not safe for concurrent use.
type Editor struct {
	scene   document.Scene
	history *History
	view    Viewport

	tool  ToolMode
	shape ShapeKind
	style StyleSettings
	dark  bool

	selected string
	textBox  *TextBox

	gesture    Gesture
	start      geom.Point
	lastScreen geom.Point
	drawingID  string
	area       geom.Rect
	hasArea    bool
	changed    bool

	clicks    int
	lastClick int64

	revision uint64

	rand  Rand
	newID func() string
}

type Option func(*Editor)

// WithRand sets the source used for dark-mode palette picks.
func WithRand(r Rand) Option {
	return func(e *Editor) { e.rand = r }
}

// WithIDGenerator replaces the object id generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) { e.newID = fn }
}

// NewEditor creates an editor on an empty light-mode canvas with the pen
// selected.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		scene:   document.Scene{},
		view:    NewViewport(),
		tool:    ToolPen,
		shape:   ShapeRectangle,
		style:   DefaultStyleSettings(),
		gesture: GestureIdle,
		rand:    globalRand{},
		newID:   typeid.NewObjectID,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = NewHistory(e.scene)
	return e
}

// --- Commands ---

// Load replaces the session with a persisted scene. History restarts with
// the loaded scene as its only step.
func (e *Editor) Load(data document.SceneData) {
	scene := data.Objects
	if scene == nil {
		scene = document.Scene{}
	}
	e.scene = scene
	e.history.Reset(scene)
	e.dark = data.Background == document.DarkBackground
	e.style.Color = DefaultDrawingColor(e.rand, e.dark)
	e.style.StrokeColor = e.style.Color
	e.selected = ""
	e.textBox = nil
	e.resetGesture()
	e.revision++
}

// LoadSample loads the demo canvas.
func (e *Editor) LoadSample() {
	e.Load(document.NewSampleScene())
}

// SetTool switches the tool mode, abandoning any gesture in progress. An open
// text box is committed when it holds text and dropped otherwise.
func (e *Editor) SetTool(t ToolMode) bool {
	if !t.Valid() {
		return false
	}
	e.abortGesture()
	e.closeTextBox()
	e.tool = t
	return true
}

// SetShape picks the kind drawn by the shape tool.
func (e *Editor) SetShape(k ShapeKind) bool {
	if !k.Valid() {
		return false
	}
	e.shape = k
	return true
}

// SetStyle updates the toolbar style. Zero fields keep their current value.
func (e *Editor) SetStyle(s StyleSettings) {
	e.style = s.merge(e.style)
}

// Select sets the selection to id, or clears it for an unknown id.
func (e *Editor) Select(id string) {
	if _, ok := e.scene.Find(id); ok {
		e.selected = id
		return
	}
	e.selected = ""
}

// Wheel zooms the view around the pointer. It never touches the scene.
func (e *Editor) Wheel(screen geom.Point, deltaY float64) {
	e.view = e.view.Wheel(screen, deltaY)
}

// ZoomTo sets the zoom level, anchored at the given screen point.
func (e *Editor) ZoomTo(screen geom.Point, zoom float64) {
	e.view = e.view.ZoomAt(screen, zoom)
}

// --- Queries ---

func (e *Editor) Scene() document.Scene { return e.scene }
func (e *Editor) View() Viewport         { return e.view }
func (e *Editor) Tool() ToolMode         { return e.tool }
func (e *Editor) Shape() ShapeKind       { return e.shape }
func (e *Editor) Style() StyleSettings   { return e.style }
func (e *Editor) Gesture() Gesture       { return e.gesture }
func (e *Editor) Selected() string       { return e.selected }
func (e *Editor) DarkMode() bool         { return e.dark }
func (e *Editor) History() *History      { return e.history }

// Revision increases every time the committed scene changes.
func (e *Editor) Revision() uint64 { return e.revision }

// TextBox returns the open text box, if any.
func (e *Editor) TextBox() (TextBox, bool) {
	if e.textBox == nil {
		return TextBox{}, false
	}
	return *e.textBox, true
}

// SelectionArea returns the rubber band of an area-copy drag.
func (e *Editor) SelectionArea() (geom.Rect, bool) {
	return e.area, e.gesture == GestureSelectingArea && e.hasArea
}

// Background returns the canvas color for the current mode.
func (e *Editor) Background() string { return BackgroundFor(e.dark) }

// Snapshot returns the committed scene in its persisted form.
func (e *Editor) Snapshot() document.SceneData {
	return document.SceneData{Objects: e.history.Current(), Background: e.Background()}
}

// State is the editor status shown by toolbars.
type State struct {
	Tool          ToolMode      `json:"tool"`
	Shape         ShapeKind     `json:"shape"`
	Gesture       Gesture       `json:"gesture"`
	Style         StyleSettings `json:"style"`
	Selected      string        `json:"selected,omitempty"`
	SelectionBox  *geom.Rect    `json:"selectionBounds,omitempty"`
	TextBox       *TextBox      `json:"textBox,omitempty"`
	View          Viewport      `json:"view"`
	DarkMode      bool          `json:"darkMode"`
	Background    string        `json:"background"`
	CanUndo       bool          `json:"canUndo"`
	CanRedo       bool          `json:"canRedo"`
	Revision      uint64        `json:"revision"`
	ObjectCount   int           `json:"objectCount"`
	SelectionArea *geom.Rect    `json:"selectionArea,omitempty"`
}

func (e *Editor) State() State {
	st := State{
		Tool:        e.tool,
		Shape:       e.shape,
		Gesture:     e.gesture,
		Style:       e.style,
		Selected:    e.selected,
		View:        e.view,
		DarkMode:    e.dark,
		Background:  e.Background(),
		CanUndo:     e.history.CanUndo(),
		CanRedo:     e.history.CanRedo(),
		Revision:    e.revision,
		ObjectCount: len(e.scene),
	}
	if e.selected != "" {
		b := SelectionBounds(e.scene, []string{e.selected})
		st.SelectionBox = &b
	}
	if e.textBox != nil {
		tb := *e.textBox
		st.TextBox = &tb
	}
	if area, ok := e.SelectionArea(); ok {
		st.SelectionArea = &area
	}
	return st
}

// DrawCommands compiles the live scene, previews included, for painting.
func (e *Editor) DrawCommands() []DrawCommand {
	cmds := CompileDrawCommands(e.scene, e.view)
	if area, ok := e.SelectionArea(); ok {
		cmds = append(cmds, overlayRect(area, e.view, "#3b82f6"))
	}
	if e.selected != "" {
		if b := SelectionBounds(e.scene, []string{e.selected}); !b.IsEmpty() {
			cmds = append(cmds, overlayRect(b.Expand(SelectRadius), e.view, "#3b82f6"))
		}
	}
	return cmds
}

// --- internal ---

// commit records the live scene as a new history step.
func (e *Editor) commit() {
	e.history.Commit(e.scene)
	e.revision++
}

// restore makes a history snapshot the live scene.
func (e *Editor) restore(scene document.Scene) {
	e.scene = scene
	e.revision++
	if _, ok := e.scene.Find(e.selected); !ok {
		e.selected = ""
	}
}

func (e *Editor) resetGesture() {
	e.gesture = GestureIdle
	e.drawingID = ""
	e.hasArea = false
	e.area = geom.Rect{}
	e.changed = false
}

// abortGesture drops a gesture in progress along with anything it drew but
// did not commit.
func (e *Editor) abortGesture() {
	if e.gesture == GestureIdle {
		return
	}
	if e.gesture != GesturePanning {
		e.scene = e.history.Current()
		if _, ok := e.scene.Find(e.selected); !ok {
			e.selected = ""
		}
	}
	e.resetGesture()
}

// shapeStyle is the style of a new shape or straight line.
func (e *Editor) shapeStyle() document.Style {
	return document.Style{
		Stroke:      e.style.StrokeColor,
		StrokeWidth: e.style.StrokeWidth,
		Fill:        e.style.FillColor,
		Opacity:     1,
	}
}
