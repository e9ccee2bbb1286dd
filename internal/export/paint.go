package export

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/engine"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

const (
	DefaultPadding = 20.0
	DefaultScale   = 1.0
	MaxPixels      = 4096

	ellipseSegments = 64
	arrowHeadLength = 10.0
	arrowHeadWidth  = 10.0
)

// Options controls the framing of an export.
type Options struct {
	Scale   float64
	Padding float64
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	return o
}

// frame is the scene area being exported and the view that maps it onto a
// page of Width x Height units with the origin at its top-left.
type frame struct {
	View   engine.Viewport
	Width  float64
	Height float64
}

var emptyBounds = geom.Rect{X: 0, Y: 0, Width: 800, Height: 600}

func sceneBounds(scene document.Scene) geom.Rect {
	var r geom.Rect
	for _, obj := range scene {
		// Grown by the stroke so flat lines still have an area.
		r = r.Union(obj.Bounds().Normalize().Expand(obj.ObjectStyle().StrokeWidth/2 + 1))
	}
	if r.IsEmpty() {
		return emptyBounds
	}
	return r
}

// fitFrame frames the scene bounds plus padding at opts.Scale, shrinking the
// scale when the result would exceed maxSide in either direction.
func fitFrame(scene document.Scene, opts Options, maxSide float64) frame {
	opts = opts.withDefaults()
	b := sceneBounds(scene).Expand(opts.Padding)

	scale := opts.Scale
	if maxSide > 0 {
		scale = min(scale, maxSide/b.Width, maxSide/b.Height)
	}
	view := engine.Viewport{Zoom: scale, Pan: geom.Pt(-b.X*scale, -b.Y*scale)}
	return frame{View: view, Width: b.Width * scale, Height: b.Height * scale}
}

// painter receives draw commands with their transforms resolved and the
// inherited group opacity folded in.
type painter interface {
	paint(cmd engine.DrawCommand, m geom.Matrix2D, alpha float64)
}

func replay(cmds []engine.DrawCommand, p painter) {
	alpha := []float64{1}
	for _, cmd := range cmds {
		top := alpha[len(alpha)-1]
		switch cmd.Op {
		case "save":
			alpha = append(alpha, top*opacity(cmd.Opacity))
		case "restore":
			if len(alpha) > 1 {
				alpha = alpha[:len(alpha)-1]
			}
		default:
			p.paint(cmd, matrixOf(cmd.Transform), top*opacity(cmd.Opacity))
		}
	}
}

// opacity treats an unset opacity as fully opaque.
func opacity(v float64) float64 {
	if v <= 0 || v > 1 {
		return 1
	}
	return v
}

func matrixOf(s []float64) geom.Matrix2D {
	if len(s) != 6 {
		return geom.Identity()
	}
	var m geom.Matrix2D
	copy(m[:], s)
	return m
}

// outline returns the page-space polyline of a path, rect or ellipse command.
func outline(cmd engine.DrawCommand, m geom.Matrix2D) (pts []geom.Point, closed bool) {
	switch cmd.Op {
	case "path", "arrow":
		pts = geom.FlatPoints(cmd.Points)
		closed = cmd.Closed
	case "rect":
		pts = []geom.Point{
			geom.Pt(cmd.X, cmd.Y),
			geom.Pt(cmd.X+cmd.Width, cmd.Y),
			geom.Pt(cmd.X+cmd.Width, cmd.Y+cmd.Height),
			geom.Pt(cmd.X, cmd.Y+cmd.Height),
		}
		closed = true
	case "ellipse":
		pts = make([]geom.Point, ellipseSegments)
		for i := range pts {
			t := 2 * math.Pi * float64(i) / ellipseSegments
			pts[i] = geom.Pt(cmd.X+cmd.RadiusX*math.Cos(t), cmd.Y+cmd.RadiusY*math.Sin(t))
		}
		closed = true
	default:
		return nil, false
	}
	for i, p := range pts {
		pts[i] = m.Apply(p)
	}
	return pts, closed
}

// arrowHead returns the page-space triangle at the head of an arrow command.
func arrowHead(cmd engine.DrawCommand, m geom.Matrix2D) []geom.Point {
	pts := geom.FlatPoints(cmd.Points)
	if len(pts) < 2 {
		return nil
	}
	tail, head := pts[len(pts)-2], pts[len(pts)-1]
	d := head.Sub(tail)
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return nil
	}
	dir := d.Div(l)
	normal := geom.Pt(-dir.Y, dir.X)
	back := head.Sub(dir.Mul(arrowHeadLength))
	return []geom.Point{
		m.Apply(head),
		m.Apply(back.Add(normal.Mul(arrowHeadWidth / 2))),
		m.Apply(back.Sub(normal.Mul(arrowHeadWidth / 2))),
	}
}

// parseColor understands the color forms the editor stores: hex, rgb(),
// rgba() and CSS names. Unset and transparent colors report false.
func parseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch s {
	case "", "none", document.FillNone:
		return color.NRGBA{}, false
	}

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHex(hex)
	}
	if args, ok := strings.CutPrefix(s, "rgba("); ok {
		return parseRGB(strings.TrimSuffix(args, ")"), true)
	}
	if args, ok := strings.CutPrefix(s, "rgb("); ok {
		return parseRGB(strings.TrimSuffix(args, ")"), false)
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return color.NRGBA{}, false
}

func parseHex(hex string) (color.NRGBA, bool) {
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func parseRGB(args string, withAlpha bool) (color.NRGBA, bool) {
	parts := strings.Split(args, ",")
	if (withAlpha && len(parts) != 4) || (!withAlpha && len(parts) != 3) {
		return color.NRGBA{}, false
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.Atoi(parts[i])
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, false
		}
		ch[i] = uint8(v)
	}
	a := uint8(255)
	if withAlpha {
		f, err := strconv.ParseFloat(parts[3], 64)
		if err != nil || f < 0 || f > 1 {
			return color.NRGBA{}, false
		}
		a = uint8(math.Round(f * 255))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}

func fade(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * alpha))
	return c
}

// textColor is the fill of a text command, black when unset.
func textColor(cmd engine.DrawCommand) color.NRGBA {
	if c, ok := parseColor(cmd.Fill); ok {
		return c
	}
	return color.NRGBA{A: 255}
}

func textLines(cmd engine.DrawCommand) []string {
	return strings.Split(cmd.Text, "\n")
}
