package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikrantan5/PenSilc/internal/geom"
)

func everyKind() Scene {
	st := Style{Stroke: "#000000", StrokeWidth: 2, Fill: FillNone, Opacity: 1}
	return Scene{
		Path{Base: Base{ID: "p1", Style: Style{Stroke: "#ff0000", StrokeWidth: 4, Opacity: 0.5}}, Points: []geom.Point{{X: 0, Y: 0}, {X: 3.5, Y: -2}}},
		Line{Base: Base{ID: "l1", Style: st, Draggable: true}, At: geom.Pt(10, 10), Offsets: [2]geom.Point{{}, {X: 40, Y: -5}}},
		Rectangle{Base: Base{ID: "r1", Style: st, Draggable: true}, At: geom.Pt(0, 0), Width: 100, Height: 50},
		Circle{Base: Base{ID: "c1", Style: st}, Center: geom.Pt(-4, 9), Radius: 12},
		Ellipse{Base: Base{ID: "e1", Style: st}, Center: geom.Pt(1, 2), RadiusX: 3, RadiusY: 4},
		Triangle{Base: Base{ID: "t1", Style: st}, At: geom.Pt(50, 0), Offsets: [3]geom.Point{{}, {X: 10, Y: 20}, {X: -10, Y: 20}}},
		Arrow{Base: Base{ID: "a1", Style: Style{Stroke: "#000", StrokeWidth: 2, Fill: "#000", Opacity: 1, OriginalStroke: "#ffffff"}}, At: geom.Pt(5, 5), Offsets: [2]geom.Point{{}, {X: 30, Y: 30}}},
		Text{Base: Base{ID: "x1", Style: Style{Fill: "#000000", Opacity: 1}, Draggable: true}, At: geom.Pt(7, 8), Content: "hello", FontSize: 16, FontFamily: "Arial", Bold: true, Underline: true, Align: AlignCenter, Width: 200},
		Group{Base: Base{ID: "g1", Draggable: true, Style: Style{Opacity: 1}}, At: geom.Pt(20, 20), Width: 60, Height: 60, Children: Scene{
			Rectangle{Base: Base{ID: "r2", Style: st}, At: geom.Pt(0, 0), Width: 5, Height: 5},
		}},
	}
}

func TestCodec_RoundTripEveryKind(t *testing.T) {
	in := SceneData{Objects: everyKind(), Background: "#ffffff"}

	data, err := EncodeScene(in)
	require.NoError(t, err)

	out, report, err := DecodeScene(data)
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, in, out)

	again, err := EncodeScene(out)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestCodec_WireShape(t *testing.T) {
	data, err := json.Marshal(Scene{
		Rectangle{Base: Base{ID: "r", Style: Style{Stroke: "#000000", StrokeWidth: 2, Fill: FillNone, Opacity: 1}}, At: geom.Pt(0, 0), Width: 100, Height: 50},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":"r","type":"rect","x":0,"y":0,"width":100,"height":50,"stroke":"#000000","strokeWidth":2,"fill":"transparent"}]`, string(data))
}

func TestCodec_ReadsLegacyRecords(t *testing.T) {
	raw := `{"objects":[
		{"id":"line-1","type":"line","points":[10,10,20,20,30,10],"stroke":"#000000","strokeWidth":2,"opacity":1},
		{"id":"shape-2","type":"rect","x":100,"y":80,"width":-40,"height":20,"stroke":"#000000","strokeWidth":2,"fill":"transparent","draggable":true},
		{"id":"text-3","type":"text","x":5,"y":5,"text":"hi","fontSize":16,"fontFamily":"Arial","fontStyle":"normal","textDecoration":"","fill":"#000000","width":200,"align":"left","draggable":true}
	],"background":"#0f0f0f"}`

	sd, report, err := DecodeScene([]byte(raw))
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, "#0f0f0f", sd.Background)
	require.Len(t, sd.Objects, 3)

	p := sd.Objects[0].(Path)
	assert.Len(t, p.Points, 3)
	assert.Equal(t, 1.0, p.Style.Opacity)

	r := sd.Objects[1].(Rectangle)
	assert.Equal(t, geom.Pt(60, 80), r.At, "negative width is normalized on load")
	assert.Equal(t, 40.0, r.Width)

	txt := sd.Objects[2].(Text)
	assert.False(t, txt.Bold)
	assert.Equal(t, AlignLeft, txt.Align)
}

func TestCodec_SkipsUnknownAndMalformed(t *testing.T) {
	raw := `[
		{"id":"ok","type":"circle","x":0,"y":0,"radius":5},
		{"id":"img","type":"image","x":0,"y":0},
		{"id":"bad","type":"rect"},
		{"id":"ok","type":"circle","x":1,"y":1,"radius":5},
		42
	]`

	scene, report, err := DecodeObjects([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, scene.IDs())
	require.Len(t, report.Skipped, 4)
	assert.Equal(t, "image", report.Skipped[0].Type)
	assert.Contains(t, report.Skipped[1].Reason, "missing x/y")
	assert.Equal(t, "duplicate id", report.Skipped[2].Reason)
	assert.Equal(t, 4, report.Skipped[3].Index)
}

func TestCodec_RejectsMalformedDocument(t *testing.T) {
	_, _, err := DecodeScene([]byte(`{"objects":{}}`))
	assert.Error(t, err)

	_, _, err = DecodeScene([]byte(`not json`))
	assert.Error(t, err)
}

func TestCodec_EmptyScene(t *testing.T) {
	sd, _, err := DecodeScene([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, NewEmptyScene(), sd)

	data, err := EncodeScene(SceneData{Background: "#ffffff"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"objects":[],"background":"#ffffff"}`, string(data))
}

func TestSampleScene_HasUniqueIDs(t *testing.T) {
	sd := NewSampleScene()
	assert.NotEmpty(t, sd.Objects)
	assert.Empty(t, sd.Objects.DuplicateIDs())
}
