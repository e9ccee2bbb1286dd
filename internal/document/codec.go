package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/vikrantan5/PenSilc/internal/geom"
)

// record is the flat JSON shape of every object kind. Fields that do not
// apply to a kind are left nil or empty and dropped by omitempty.
type record struct {
	ID             string    `json:"id"`
	Type           Kind      `json:"type"`
	Points         []float64 `json:"points,omitempty"`
	X              *float64  `json:"x,omitempty"`
	Y              *float64  `json:"y,omitempty"`
	Width          *float64  `json:"width,omitempty"`
	Height         *float64  `json:"height,omitempty"`
	Radius         *float64  `json:"radius,omitempty"`
	RadiusX        *float64  `json:"radiusX,omitempty"`
	RadiusY        *float64  `json:"radiusY,omitempty"`
	Fill           string    `json:"fill,omitempty"`
	Stroke         string    `json:"stroke,omitempty"`
	StrokeWidth    *float64  `json:"strokeWidth,omitempty"`
	Text           *string   `json:"text,omitempty"`
	FontSize       *float64  `json:"fontSize,omitempty"`
	FontFamily     string    `json:"fontFamily,omitempty"`
	FontStyle      string    `json:"fontStyle,omitempty"`
	TextDecoration *string   `json:"textDecoration,omitempty"`
	Align          Align     `json:"align,omitempty"`
	Opacity        *float64  `json:"opacity,omitempty"`
	Draggable      bool      `json:"draggable,omitempty"`
	OriginalFill   string    `json:"originalFill,omitempty"`
	OriginalStroke string    `json:"originalStroke,omitempty"`
	GroupObjects   []record  `json:"groupObjects,omitempty"`
}

// SkippedObject describes a persisted entry the decoder could not use.
type SkippedObject struct {
	Index  int
	ID     string
	Type   string
	Reason string
}

// DecodeReport lists what DecodeScene dropped.
type DecodeReport struct {
	Skipped []SkippedObject
}

var errMalformed = errors.New("malformed object")

func f64(v float64) *float64 { return &v }

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func (s Scene) MarshalJSON() ([]byte, error) {
	recs := make([]record, len(s))
	for i, o := range s {
		recs[i] = toRecord(o)
	}
	return json.Marshal(recs)
}

// UnmarshalJSON decodes an object list, skipping entries it cannot
// interpret. Skipped entries are logged; use DecodeObjects to inspect them.
func (s *Scene) UnmarshalJSON(data []byte) error {
	scene, report, err := DecodeObjects(data)
	if err != nil {
		return err
	}
	for _, sk := range report.Skipped {
		slog.Warn("skip scene object", "index", sk.Index, "id", sk.ID, "type", sk.Type, "reason", sk.Reason)
	}
	*s = scene
	return nil
}

// DecodeObjects decodes a JSON object list. Only a malformed top-level list is
// an error; unknown kinds and invalid entries are reported and skipped.
func DecodeObjects(data []byte) (Scene, DecodeReport, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, DecodeReport{}, fmt.Errorf("decode objects: %w", err)
	}

	var report DecodeReport
	scene := make(Scene, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			report.Skipped = append(report.Skipped, SkippedObject{Index: i, Reason: err.Error()})
			continue
		}
		obj, err := fromRecord(rec)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedObject{Index: i, ID: rec.ID, Type: string(rec.Type), Reason: err.Error()})
			continue
		}
		if seen[rec.ID] {
			report.Skipped = append(report.Skipped, SkippedObject{Index: i, ID: rec.ID, Type: string(rec.Type), Reason: "duplicate id"})
			continue
		}
		seen[rec.ID] = true
		scene = append(scene, obj)
	}
	return scene, report, nil
}

// DecodeScene decodes a persisted {objects, background} document.
func DecodeScene(data []byte) (SceneData, DecodeReport, error) {
	var env struct {
		Objects    json.RawMessage `json:"objects"`
		Background string          `json:"background"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return SceneData{}, DecodeReport{}, fmt.Errorf("decode scene: %w", err)
	}

	sd := SceneData{Objects: Scene{}, Background: env.Background}
	if sd.Background == "" {
		sd.Background = LightBackground
	}
	if len(env.Objects) == 0 || string(env.Objects) == "null" {
		return sd, DecodeReport{}, nil
	}

	objs, report, err := DecodeObjects(env.Objects)
	if err != nil {
		return SceneData{}, report, err
	}
	sd.Objects = objs
	return sd, report, nil
}

// EncodeScene serializes a scene document. The output is deterministic, so two
// encodings of equal scenes compare equal as strings.
func EncodeScene(sd SceneData) ([]byte, error) {
	if sd.Objects == nil {
		sd.Objects = Scene{}
	}
	return json.Marshal(sd)
}

func styleFields(rec *record, s Style) {
	rec.Stroke = s.Stroke
	rec.Fill = s.Fill
	rec.OriginalStroke = s.OriginalStroke
	rec.OriginalFill = s.OriginalFill
	if s.StrokeWidth != 0 {
		rec.StrokeWidth = f64(s.StrokeWidth)
	}
	if s.Opacity != 1 {
		rec.Opacity = f64(s.Opacity)
	}
}

func toRecord(o Object) record {
	rec := record{ID: o.ObjectID(), Type: o.Kind()}
	styleFields(&rec, o.ObjectStyle())

	switch v := o.(type) {
	case Path:
		rec.Draggable = v.Draggable
		rec.Points = geom.Flatten(v.Points)
	case Line:
		rec.Draggable = v.Draggable
		rec.X, rec.Y = f64(v.At.X), f64(v.At.Y)
		rec.Points = geom.Flatten(v.Offsets[:])
	case Rectangle:
		rec.Draggable = v.Draggable
		rec.X, rec.Y = f64(v.At.X), f64(v.At.Y)
		rec.Width, rec.Height = f64(v.Width), f64(v.Height)
	case Circle:
		rec.Draggable = v.Draggable
		rec.X, rec.Y = f64(v.Center.X), f64(v.Center.Y)
		rec.Radius = f64(v.Radius)
	case Ellipse:
		rec.Draggable = v.Draggable
		rec.X, rec.Y = f64(v.Center.X), f64(v.Center.Y)
		rec.RadiusX, rec.RadiusY = f64(v.RadiusX), f64(v.RadiusY)
	case Triangle:
		rec.Draggable = v.Draggable
		rec.X, rec.Y = f64(v.At.X), f64(v.At.Y)
		rec.Points = geom.Flatten(v.Offsets[:])
	case Arrow:
		rec.Draggable = v.Draggable
		rec.X, rec.Y = f64(v.At.X), f64(v.At.Y)
		rec.Points = geom.Flatten(v.Offsets[:])
	case Text:
		rec.Draggable = v.Draggable
		rec.X, rec.Y = f64(v.At.X), f64(v.At.Y)
		rec.Text = &v.Content
		rec.FontSize = f64(v.FontSize)
		rec.FontFamily = v.FontFamily
		rec.FontStyle = fontStyle(v.Bold, v.Italic)
		deco := ""
		if v.Underline {
			deco = "underline"
		}
		rec.TextDecoration = &deco
		rec.Align = v.Align
		rec.Width = f64(v.Width)
	case Group:
		rec.Draggable = v.Draggable
		rec.X, rec.Y = f64(v.At.X), f64(v.At.Y)
		rec.Width, rec.Height = f64(v.Width), f64(v.Height)
		rec.GroupObjects = make([]record, len(v.Children))
		for i, c := range v.Children {
			rec.GroupObjects[i] = toRecord(c)
		}
	}
	return rec
}

func fontStyle(bold, italic bool) string {
	switch {
	case bold && italic:
		return "italic bold"
	case bold:
		return "bold"
	case italic:
		return "italic"
	}
	return "normal"
}

func recordStyle(rec record) Style {
	s := Style{
		Stroke:         rec.Stroke,
		StrokeWidth:    val(rec.StrokeWidth),
		Fill:           rec.Fill,
		Opacity:        1,
		OriginalStroke: rec.OriginalStroke,
		OriginalFill:   rec.OriginalFill,
	}
	if rec.Opacity != nil {
		s.Opacity = *rec.Opacity
	}
	return s
}

func anchor(rec record) (geom.Point, error) {
	if rec.X == nil || rec.Y == nil {
		return geom.Point{}, fmt.Errorf("%w: missing x/y", errMalformed)
	}
	return geom.Point{X: *rec.X, Y: *rec.Y}, nil
}

func offsets(rec record, n int) ([]geom.Point, error) {
	if len(rec.Points) != 2*n {
		return nil, fmt.Errorf("%w: want %d points, got %d coordinates", errMalformed, n, len(rec.Points))
	}
	return geom.FlatPoints(rec.Points), nil
}

func fromRecord(rec record) (Object, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("%w: missing id", errMalformed)
	}
	for _, f := range []*float64{rec.X, rec.Y, rec.Width, rec.Height, rec.Radius, rec.RadiusX, rec.RadiusY, rec.StrokeWidth, rec.Opacity, rec.FontSize} {
		if f != nil && (math.IsNaN(*f) || math.IsInf(*f, 0)) {
			return nil, fmt.Errorf("%w: non-finite number", errMalformed)
		}
	}
	base := Base{ID: rec.ID, Style: recordStyle(rec), Draggable: rec.Draggable}

	switch rec.Type {
	case KindPath:
		if len(rec.Points) < 2 || len(rec.Points)%2 != 0 {
			return nil, fmt.Errorf("%w: path needs at least one point", errMalformed)
		}
		return Path{Base: base, Points: geom.FlatPoints(rec.Points)}, nil

	case KindLine, KindArrow:
		at, err := anchor(rec)
		if err != nil {
			return nil, err
		}
		pts, err := offsets(rec, 2)
		if err != nil {
			return nil, err
		}
		if rec.Type == KindLine {
			return Line{Base: base, At: at, Offsets: [2]geom.Point{pts[0], pts[1]}}, nil
		}
		return Arrow{Base: base, At: at, Offsets: [2]geom.Point{pts[0], pts[1]}}, nil

	case KindTriangle:
		at, err := anchor(rec)
		if err != nil {
			return nil, err
		}
		pts, err := offsets(rec, 3)
		if err != nil {
			return nil, err
		}
		return Triangle{Base: base, At: at, Offsets: [3]geom.Point{pts[0], pts[1], pts[2]}}, nil

	case KindRectangle:
		at, err := anchor(rec)
		if err != nil {
			return nil, err
		}
		r := Rectangle{Base: base, At: at, Width: val(rec.Width), Height: val(rec.Height)}
		return r.Normalize(), nil

	case KindCircle:
		at, err := anchor(rec)
		if err != nil {
			return nil, err
		}
		if val(rec.Radius) < 0 {
			return nil, fmt.Errorf("%w: negative radius", errMalformed)
		}
		return Circle{Base: base, Center: at, Radius: val(rec.Radius)}, nil

	case KindEllipse:
		at, err := anchor(rec)
		if err != nil {
			return nil, err
		}
		if val(rec.RadiusX) < 0 || val(rec.RadiusY) < 0 {
			return nil, fmt.Errorf("%w: negative radius", errMalformed)
		}
		return Ellipse{Base: base, Center: at, RadiusX: val(rec.RadiusX), RadiusY: val(rec.RadiusY)}, nil

	case KindText:
		at, err := anchor(rec)
		if err != nil {
			return nil, err
		}
		if rec.Text == nil {
			return nil, fmt.Errorf("%w: text without content", errMalformed)
		}
		t := Text{
			Base:       base,
			At:         at,
			Content:    *rec.Text,
			FontSize:   val(rec.FontSize),
			FontFamily: rec.FontFamily,
			Bold:       strings.Contains(rec.FontStyle, "bold"),
			Italic:     strings.Contains(rec.FontStyle, "italic"),
			Underline:  rec.TextDecoration != nil && strings.Contains(*rec.TextDecoration, "underline"),
			Align:      rec.Align,
			Width:      val(rec.Width),
		}
		return t, nil

	case KindGroup:
		at, err := anchor(rec)
		if err != nil {
			return nil, err
		}
		g := Group{Base: base, At: at, Width: val(rec.Width), Height: val(rec.Height), Children: make(Scene, 0, len(rec.GroupObjects))}
		for _, child := range rec.GroupObjects {
			obj, err := fromRecord(child)
			if err != nil {
				return nil, fmt.Errorf("group child %q: %w", child.ID, err)
			}
			g.Children = append(g.Children, obj)
		}
		return g, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", errMalformed, rec.Type)
}
