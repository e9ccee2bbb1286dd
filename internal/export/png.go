package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/engine"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

const discSegments = 16

// RenderPNG rasterizes the scene on its background, framed to the bounds of
// its objects.
func RenderPNG(sd document.SceneData, opts Options) *image.RGBA {
	f := fitFrame(sd.Objects, opts, MaxPixels)
	w := max(1, int(math.Ceil(f.Width-1e-6)))
	h := max(1, int(math.Ceil(f.Height-1e-6)))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	bg, ok := parseColor(sd.Background)
	if !ok {
		bg = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	r := &raster{dst: dst, z: vector.NewRasterizer(w, h)}
	replay(engine.CompileDrawCommands(sd.Objects, f.View), r)
	return dst
}

// WritePNG renders the scene and encodes it to w.
func WritePNG(w io.Writer, sd document.SceneData, opts Options) error {
	if err := png.Encode(w, RenderPNG(sd, opts)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

type raster struct {
	dst *image.RGBA
	z   *vector.Rasterizer
}

func (r *raster) paint(cmd engine.DrawCommand, m geom.Matrix2D, alpha float64) {
	if cmd.Op == "text" {
		r.text(cmd, m, alpha)
		return
	}

	pts, closed := outline(cmd, m)
	if len(pts) == 0 {
		return
	}
	if fill, ok := parseColor(cmd.Fill); ok && closed {
		r.fill(pts, fade(fill, alpha))
	}
	stroke, ok := parseColor(cmd.Stroke)
	if !ok || cmd.StrokeWidth <= 0 {
		return
	}
	r.stroke(pts, closed, cmd.StrokeWidth*m.ScaleFactor(), fade(stroke, alpha))

	if cmd.Op == "arrow" {
		head := arrowHead(cmd, m)
		if fill, ok := parseColor(cmd.Fill); ok && head != nil {
			r.fill(head, fade(fill, alpha))
		} else if head != nil {
			r.fill(head, fade(stroke, alpha))
		}
	}
}

func (r *raster) begin() {
	b := r.dst.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
}

func (r *raster) flush(c color.NRGBA) {
	r.z.Draw(r.dst, r.dst.Bounds(), image.NewUniform(c), image.Point{})
}

func (r *raster) polygon(pts []geom.Point) {
	r.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
}

func (r *raster) fill(pts []geom.Point, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	r.begin()
	r.polygon(pts)
	r.flush(c)
}

// stroke covers every segment with a quad and every vertex with a disc, all
// wound the same way so overlaps accumulate instead of cancelling.
func (r *raster) stroke(pts []geom.Point, closed bool, width float64, c color.NRGBA) {
	hw := max(width, 1) / 2
	if closed && len(pts) > 2 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}

	r.begin()
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		d := b.Sub(a)
		l := math.Hypot(d.X, d.Y)
		if l == 0 {
			continue
		}
		n := geom.Pt(-d.Y/l*hw, d.X/l*hw)
		r.polygon([]geom.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
	}
	disc := make([]geom.Point, discSegments)
	for _, p := range pts {
		for i := range disc {
			t := -2 * math.Pi * float64(i) / discSegments
			disc[i] = geom.Pt(p.X+hw*math.Cos(t), p.Y+hw*math.Sin(t))
		}
		r.polygon(disc)
	}
	r.flush(c)
}

// text draws with the fixed 7x13 face. Only the position follows the view
// scale; the glyph size does not.
func (r *raster) text(cmd engine.DrawCommand, m geom.Matrix2D, alpha float64) {
	face := basicfont.Face7x13
	src := image.NewUniform(fade(textColor(cmd), alpha))
	scale := m.ScaleFactor()
	lineHeight := max(cmd.LineHeight*scale, float64(face.Height))

	origin := m.Apply(geom.Pt(cmd.X, cmd.Y))
	boxWidth := cmd.Width * scale
	for i, line := range textLines(cmd) {
		advance := font.MeasureString(face, line).Ceil()
		x := origin.X
		switch document.Align(cmd.Align) {
		case document.AlignCenter:
			x += (boxWidth - float64(advance)) / 2
		case document.AlignRight:
			x += boxWidth - float64(advance)
		}
		baseline := origin.Y + float64(i)*lineHeight + float64(face.Ascent)

		d := &font.Drawer{Dst: r.dst, Src: src, Face: face, Dot: fixed.P(int(x), int(baseline))}
		d.DrawString(line)

		if cmd.Underline && advance > 0 {
			y := baseline + 2
			r.fill([]geom.Point{
				geom.Pt(x, y), geom.Pt(x+float64(advance), y),
				geom.Pt(x+float64(advance), y+1), geom.Pt(x, y+1),
			}, fade(textColor(cmd), alpha))
		}
	}
}
