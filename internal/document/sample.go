package document

import (
	"github.com/vikrantan5/PenSilc/internal/geom"
	"github.com/vikrantan5/PenSilc/internal/typeid"
)

// NewSampleScene builds the demo canvas shown by the playground.
func NewSampleScene() SceneData {
	stroke := DefaultStyle()

	title := Text{
		Base:       Base{ID: typeid.NewObjectID(), Style: Style{Fill: DefaultStroke, Opacity: 1}, Draggable: true},
		At:         geom.Pt(80, 60),
		Content:    "Welcome to PenSilc",
		FontSize:   28,
		FontFamily: DefaultFontFamily,
		Bold:       true,
		Align:      AlignLeft,
		Width:      420,
	}

	box := Rectangle{
		Base:   Base{ID: typeid.NewObjectID(), Style: stroke, Draggable: true},
		At:     geom.Pt(80, 140),
		Width:  220,
		Height: 120,
	}

	ring := Ellipse{
		Base:    Base{ID: typeid.NewObjectID(), Style: Style{Stroke: "#3b82f6", StrokeWidth: 3, Fill: FillNone, Opacity: 1}, Draggable: true},
		Center:  geom.Pt(460, 200),
		RadiusX: 110,
		RadiusY: 60,
	}

	pointer := Arrow{
		Base:    Base{ID: typeid.NewObjectID(), Style: Style{Stroke: "#ef4444", StrokeWidth: 3, Fill: "#ef4444", Opacity: 1}, Draggable: true},
		At:      geom.Pt(300, 200),
		Offsets: [2]geom.Point{{}, geom.Pt(50, 0)},
	}

	squiggle := Path{
		Base: Base{ID: typeid.NewObjectID(), Style: Style{Stroke: "#ffe600", StrokeWidth: 12, Fill: "", Opacity: 0.5}},
		Points: []geom.Point{
			geom.Pt(80, 320), geom.Pt(120, 300), geom.Pt(160, 330),
			geom.Pt(200, 300), geom.Pt(240, 330), geom.Pt(280, 310),
		},
	}

	return SceneData{
		Objects:    Scene{title, box, ring, pointer, squiggle},
		Background: LightBackground,
	}
}
