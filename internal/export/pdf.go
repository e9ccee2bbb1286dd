package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/engine"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

// maxPagePoints keeps pages under the 200 inch limit PDF readers accept.
const maxPagePoints = 14400

// WritePDF writes the scene as a single page sized to the scene bounds, one
// point per scene unit at the default scale.
func WritePDF(w io.Writer, sd document.SceneData, opts Options) error {
	f := fitFrame(sd.Objects, opts, maxPagePoints)

	// Portrait keeps Size as given; landscape would swap it.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: f.Width, Ht: f.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	if bg, ok := parseColor(sd.Background); ok {
		pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
		pdf.Rect(0, 0, f.Width, f.Height, "F")
	}

	p := &pdfPage{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	replay(engine.CompileDrawCommands(sd.Objects, f.View), p)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type pdfPage struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (p *pdfPage) paint(cmd engine.DrawCommand, m geom.Matrix2D, alpha float64) {
	p.pdf.SetAlpha(alpha, "Normal")
	defer p.pdf.SetAlpha(1, "Normal")

	if cmd.Op == "text" {
		p.text(cmd, m)
		return
	}

	pts, closed := outline(cmd, m)
	if len(pts) == 0 {
		return
	}
	fill, hasFill := parseColor(cmd.Fill)
	hasFill = hasFill && closed && cmd.Op != "arrow"
	stroke, hasStroke := parseColor(cmd.Stroke)
	hasStroke = hasStroke && cmd.StrokeWidth > 0

	style := ""
	if hasFill {
		p.pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
		style += "F"
	}
	if hasStroke {
		p.pdf.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
		p.pdf.SetLineWidth(cmd.StrokeWidth * m.ScaleFactor())
		style = "D" + style
	}
	if style == "" {
		return
	}

	p.pdf.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.pdf.LineTo(pt.X, pt.Y)
	}
	if closed {
		p.pdf.ClosePath()
	}
	p.pdf.DrawPath(style)

	if cmd.Op == "arrow" && hasStroke {
		if head := arrowHead(cmd, m); head != nil {
			c := stroke
			if f, ok := parseColor(cmd.Fill); ok {
				c = f
			}
			p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
			p.pdf.Polygon([]gofpdf.PointType{
				{X: head[0].X, Y: head[0].Y},
				{X: head[1].X, Y: head[1].Y},
				{X: head[2].X, Y: head[2].Y},
			}, "F")
		}
	}
}

func (p *pdfPage) text(cmd engine.DrawCommand, m geom.Matrix2D) {
	scale := m.ScaleFactor()
	size := cmd.FontSize
	if size <= 0 {
		size = document.DefaultFontSize
	}
	size *= scale

	c := textColor(cmd)
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetFont(pdfFamily(cmd.FontFamily), pdfStyle(cmd), size)

	lineHeight := cmd.LineHeight * scale
	if lineHeight <= 0 {
		lineHeight = size * 1.2
	}
	origin := m.Apply(geom.Pt(cmd.X, cmd.Y))
	boxWidth := cmd.Width * scale
	for i, line := range textLines(cmd) {
		line = p.tr(line)
		x := origin.X
		advance := p.pdf.GetStringWidth(line)
		switch document.Align(cmd.Align) {
		case document.AlignCenter:
			x += (boxWidth - advance) / 2
		case document.AlignRight:
			x += boxWidth - advance
		}
		p.pdf.Text(x, origin.Y+float64(i)*lineHeight+size*0.8, line)
	}
}

// pdfFamily maps a CSS font family onto one of the core PDF fonts.
func pdfFamily(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	case strings.Contains(f, "times"), strings.Contains(f, "georgia"),
		strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return "Times"
	}
	return "Helvetica"
}

func pdfStyle(cmd engine.DrawCommand) string {
	s := ""
	if strings.Contains(cmd.FontStyle, "bold") {
		s += "B"
	}
	if strings.Contains(cmd.FontStyle, "italic") {
		s += "I"
	}
	if cmd.Underline {
		s += "U"
	}
	return s
}
