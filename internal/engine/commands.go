package engine

import (
	"encoding/json"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context,
// calling setTransform with Transform before each one.
type DrawCommand struct {
	Op        string    `json:"op"`                  // "path", "rect", "ellipse", "text", "arrow", "save", "restore"
	ObjectID  string    `json:"objectId,omitempty"`  // For hit correlation
	Transform []float64 `json:"transform,omitempty"` // [a, b, c, d, e, f] scene-to-screen matrix

	Points []float64 `json:"points,omitempty"` // Flat x,y list for "path" and "arrow"
	Closed bool      `json:"closed,omitempty"`

	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	RadiusX float64 `json:"radiusX,omitempty"`
	RadiusY float64 `json:"radiusY,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	Align      string  `json:"align,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Dashed      bool    `json:"dashed,omitempty"` // Overlays only
}

// CompileDrawCommands generates a draw command buffer from a scene as seen
// through view. Commands are in painter's order (back to front).
func CompileDrawCommands(scene document.Scene, view Viewport) []DrawCommand {
	commands := make([]DrawCommand, 0, len(scene))
	m := view.Matrix()
	for _, obj := range scene {
		compileObject(obj, m, &commands)
	}
	return commands
}

func styled(cmd DrawCommand, s document.Style) DrawCommand {
	cmd.Stroke = s.Stroke
	cmd.StrokeWidth = s.StrokeWidth
	if s.HasFill() {
		cmd.Fill = s.Fill
	}
	cmd.Opacity = s.Opacity
	return cmd
}

// compileObject emits the commands for one object under transform m.
func compileObject(obj document.Object, m geom.Matrix2D, commands *[]DrawCommand) {
	base := DrawCommand{ObjectID: obj.ObjectID(), Transform: m.ToSlice()}
	style := obj.ObjectStyle()

	switch o := obj.(type) {
	case document.Path:
		cmd := styled(base, style)
		cmd.Op = "path"
		cmd.Fill = ""
		cmd.Points = geom.Flatten(o.Points)
		*commands = append(*commands, cmd)

	case document.Line:
		cmd := styled(base, style)
		cmd.Op = "path"
		cmd.Fill = ""
		cmd.Points = geom.Flatten(o.Absolute())
		*commands = append(*commands, cmd)

	case document.Rectangle:
		cmd := styled(base, style)
		cmd.Op = "rect"
		b := o.Bounds()
		cmd.X, cmd.Y, cmd.Width, cmd.Height = b.X, b.Y, b.Width, b.Height
		*commands = append(*commands, cmd)

	case document.Circle:
		cmd := styled(base, style)
		cmd.Op = "ellipse"
		cmd.X, cmd.Y = o.Center.X, o.Center.Y
		cmd.RadiusX, cmd.RadiusY = o.Radius, o.Radius
		*commands = append(*commands, cmd)

	case document.Ellipse:
		cmd := styled(base, style)
		cmd.Op = "ellipse"
		cmd.X, cmd.Y = o.Center.X, o.Center.Y
		cmd.RadiusX, cmd.RadiusY = o.RadiusX, o.RadiusY
		*commands = append(*commands, cmd)

	case document.Triangle:
		cmd := styled(base, style)
		cmd.Op = "path"
		cmd.Closed = true
		cmd.Points = geom.Flatten(o.Absolute())
		*commands = append(*commands, cmd)

	case document.Arrow:
		cmd := styled(base, style)
		cmd.Op = "arrow"
		cmd.Points = geom.Flatten(o.Absolute())
		*commands = append(*commands, cmd)

	case document.Text:
		cmd := base
		cmd.Op = "text"
		cmd.X, cmd.Y, cmd.Width = o.At.X, o.At.Y, o.Width
		cmd.Text = o.Content
		cmd.FontSize = o.FontSize
		cmd.FontFamily = o.FontFamily
		cmd.FontStyle = o.FontStyle()
		cmd.Underline = o.Underline
		cmd.Align = string(o.Align)
		cmd.LineHeight = o.LineHeight()
		cmd.Fill = style.Fill
		cmd.Opacity = style.Opacity
		*commands = append(*commands, cmd)

	case document.Group:
		inner := m.Multiply(geom.Translate(o.At.X, o.At.Y))
		*commands = append(*commands, DrawCommand{Op: "save", ObjectID: o.ID, Transform: inner.ToSlice(), Opacity: style.Opacity})
		for _, child := range o.Children {
			compileObject(child, inner, commands)
		}
		*commands = append(*commands, DrawCommand{Op: "restore", ObjectID: o.ID})
	}
}

// overlayRect is a dashed editor decoration that is not part of the scene.
func overlayRect(r geom.Rect, view Viewport, color string) DrawCommand {
	return DrawCommand{
		Op:          "rect",
		Transform:   view.Matrix().ToSlice(),
		X:           r.X,
		Y:           r.Y,
		Width:       r.Width,
		Height:      r.Height,
		Stroke:      color,
		StrokeWidth: 1 / view.Zoom,
		Opacity:     1,
		Dashed:      true,
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r geom.Rect) string {
	data, _ := json.Marshal(r)
	return string(data)
}
