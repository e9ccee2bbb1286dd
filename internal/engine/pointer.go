package engine

import (
	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

// PointerDown starts a gesture for the active tool. A middle-button press or
// a second primary press within DoubleClickMillis pans instead, without
// changing the tool.
func (e *Editor) PointerDown(ev PointerEvent) {
	if e.gesture != GestureIdle {
		return
	}

	if ev.Button == ButtonMiddle {
		e.startPan(ev)
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}
	if e.tool != ToolPan && e.registerClick(ev.Time) {
		e.startPan(ev)
		return
	}
	if e.tool == ToolPan {
		e.startPan(ev)
		return
	}

	p := e.view.ToScene(ev.Screen())
	if e.textBox != nil {
		if e.textBox.Rect.Contains(p) {
			return
		}
		// A press outside closes the box and falls through to the tool.
		e.closeTextBox()
	}
	e.start = p

	switch e.tool {
	case ToolPen, ToolHighlighter:
		style := document.Style{
			Stroke:      e.style.Color,
			StrokeWidth: e.style.StrokeWidth,
			Opacity:     1,
		}
		if e.tool == ToolHighlighter {
			style.Opacity = HighlighterOpacity
		}
		path := document.Path{
			Base:   document.Base{ID: e.newID(), Style: style},
			Points: []geom.Point{p},
		}
		e.drawingID = path.ID
		e.scene = e.scene.Append(path)
		e.gesture = GestureFreehand

	case ToolLine:
		e.scene = e.scene.Append(BuildLine(p, p, document.Base{ID: linePreviewID, Style: e.shapeStyle()}))
		e.gesture = GestureLinePreview

	case ToolShape:
		e.gesture = GestureShapePreview

	case ToolText:
		e.textBox = &TextBox{Rect: geom.Rect{X: p.X, Y: p.Y, Width: MinTextBoxWidth, Height: MinTextBoxHeight}}
		e.gesture = GestureTextBox

	case ToolEraser:
		e.gesture = GestureErasing
		e.eraseAt(p)

	case ToolSelect:
		e.selected = HitTest(e.scene, p, SelectRadius)
		if obj, ok := e.scene.Find(e.selected); ok && obj.IsDraggable() {
			e.gesture = GestureMovingObject
		}

	case ToolAreaCopy:
		e.gesture = GestureSelectingArea
	}
}

// PointerMove advances the gesture in progress.
func (e *Editor) PointerMove(ev PointerEvent) {
	if e.gesture == GesturePanning {
		screen := ev.Screen()
		e.view = e.view.PanBy(screen.Sub(e.lastScreen))
		e.lastScreen = screen
		return
	}

	p := e.view.ToScene(ev.Screen())

	switch e.gesture {
	case GestureFreehand:
		obj, ok := e.scene.Find(e.drawingID)
		if !ok {
			return
		}
		path := obj.(document.Path)
		if last := path.Points[len(path.Points)-1]; last == p {
			return
		}
		path.Points = append(path.Points, p)
		e.scene = e.scene.Replace(path)

	case GestureLinePreview:
		e.scene = e.scene.Replace(BuildLine(e.start, p, document.Base{ID: linePreviewID, Style: e.shapeStyle()}))

	case GestureShapePreview:
		preview := BuildShape(e.shape, e.start, p, document.Base{ID: shapePreviewID, Style: e.shapeStyle()})
		if e.scene.Index(shapePreviewID) >= 0 {
			e.scene = e.scene.Replace(preview)
		} else {
			e.scene = e.scene.Append(preview)
		}

	case GestureTextBox:
		box := geom.RectFromCorners(e.start, p)
		box.Width = max(box.Width, MinTextBoxWidth)
		box.Height = max(box.Height, MinTextBoxHeight)
		e.textBox.Rect = box

	case GestureErasing:
		e.eraseAt(p)

	case GestureMovingObject:
		obj, ok := e.scene.Find(e.selected)
		if !ok {
			return
		}
		d := p.Sub(e.start)
		if d == (geom.Point{}) {
			return
		}
		e.scene = e.scene.Replace(obj.Translate(d))
		e.start = p
		e.changed = true

	case GestureSelectingArea:
		e.area = geom.RectFromCorners(e.start, p)
		e.hasArea = true
	}
}

// PointerUp finishes the gesture in progress, committing at most once.
func (e *Editor) PointerUp(ev PointerEvent) {
	if e.gesture == GestureIdle {
		return
	}
	p := e.view.ToScene(ev.Screen())

	switch e.gesture {
	case GestureFreehand:
		e.commit()

	case GestureLinePreview:
		line := BuildLine(e.start, p, document.Base{ID: e.newID(), Style: e.shapeStyle(), Draggable: true})
		e.scene = e.scene.Remove(linePreviewID).Append(line)
		e.finishCreate(line.ID)

	case GestureShapePreview:
		e.scene = e.scene.Remove(shapePreviewID)
		if !ShapeTooSmall(e.start, p) {
			shape := BuildShape(e.shape, e.start, p, document.Base{ID: e.newID(), Style: e.shapeStyle(), Draggable: true})
			e.scene = e.scene.Append(shape)
			e.finishCreate(shape.ObjectID())
		}

	case GestureErasing:
		if e.changed {
			e.commit()
		}

	case GestureMovingObject:
		if e.changed {
			e.commit()
		}

	case GestureSelectingArea:
		if e.hasArea {
			e.copyArea(e.area)
		}
	}

	e.resetGesture()
}

func (e *Editor) startPan(ev PointerEvent) {
	e.gesture = GesturePanning
	e.lastScreen = ev.Screen()
}

// registerClick counts primary presses and reports a double click.
func (e *Editor) registerClick(t int64) bool {
	if t > 0 && e.clicks == 1 && t-e.lastClick <= DoubleClickMillis {
		e.clicks = 0
		return true
	}
	e.clicks = 1
	e.lastClick = t
	return false
}

// finishCreate commits a freshly created object, selects it and hands over
// to the select tool.
func (e *Editor) finishCreate(id string) {
	e.commit()
	e.selected = id
	e.tool = ToolSelect
}

func (e *Editor) eraseAt(p geom.Point) {
	hits := ObjectsNear(e.scene, p, EraserRadius)
	if len(hits) == 0 {
		return
	}
	e.scene = e.scene.Filter(func(o document.Object) bool { return !hits[o.ObjectID()] })
	if hits[e.selected] {
		e.selected = ""
	}
	e.changed = true
}

// copyArea duplicates every object touched by area into a new group placed
// CopyOffset below and right of the band.
func (e *Editor) copyArea(area geom.Rect) {
	picked := e.scene.Filter(func(o document.Object) bool { return IsObjectInRect(o, area) })
	if len(picked) == 0 {
		return
	}

	origin := area.Min()
	children := picked.Map(func(o document.Object) document.Object {
		return o.WithID(e.newID()).WithDraggable(true).Translate(origin.Mul(-1))
	})

	group := document.Group{
		Base:     document.Base{ID: e.newID(), Style: document.Style{Opacity: 1}, Draggable: true},
		At:       origin.Add(geom.Pt(CopyOffset, CopyOffset)),
		Width:    area.Width,
		Height:   area.Height,
		Children: children,
	}
	e.scene = e.scene.Append(group)
	e.finishCreate(group.ID)
}
