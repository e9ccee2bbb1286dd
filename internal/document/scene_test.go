package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikrantan5/PenSilc/internal/geom"
)

func rect(id string, x, y, w, h float64) Rectangle {
	return Rectangle{Base: Base{ID: id, Style: DefaultStyle()}, At: geom.Pt(x, y), Width: w, Height: h}
}

func TestScene_AppendDoesNotAlias(t *testing.T) {
	base := make(Scene, 1, 8)
	base[0] = rect("a", 0, 0, 1, 1)

	s1 := base.Append(rect("b", 0, 0, 1, 1))
	s2 := base.Append(rect("c", 0, 0, 1, 1))

	assert.Equal(t, []string{"a", "b"}, s1.IDs())
	assert.Equal(t, []string{"a", "c"}, s2.IDs())
	assert.Len(t, base, 1)
}

func TestScene_ReplaceKeepsPosition(t *testing.T) {
	s := Scene{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), rect("c", 0, 0, 1, 1)}

	moved := s.Replace(rect("b", 50, 50, 1, 1))

	assert.Equal(t, []string{"a", "b", "c"}, moved.IDs())
	obj, ok := moved.Find("b")
	require.True(t, ok)
	assert.Equal(t, geom.Pt(50, 50), obj.(Rectangle).At)

	old, _ := s.Find("b")
	assert.Equal(t, geom.Pt(0, 0), old.(Rectangle).At, "original scene must be untouched")
}

func TestScene_UnknownIDIsNoop(t *testing.T) {
	s := Scene{rect("a", 0, 0, 1, 1)}

	assert.Equal(t, s, s.Replace(rect("zzz", 1, 1, 1, 1)))
	assert.Equal(t, s, s.Remove("zzz"))
	_, ok := s.Find("zzz")
	assert.False(t, ok)
	assert.Equal(t, -1, s.Index("zzz"))
}

func TestScene_Remove(t *testing.T) {
	s := Scene{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), rect("c", 0, 0, 1, 1)}

	assert.Equal(t, []string{"a", "c"}, s.Remove("b").IDs())
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
}

func TestScene_FilterAndDuplicates(t *testing.T) {
	s := Scene{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), rect("a", 2, 2, 1, 1)}

	assert.Equal(t, []string{"a"}, s.DuplicateIDs())
	kept := s.Filter(func(o Object) bool { return o.ObjectID() != "a" })
	assert.Equal(t, []string{"b"}, kept.IDs())
}

func TestRectangle_Normalize(t *testing.T) {
	r := rect("a", 100, 100, -40, -20).Normalize()

	assert.Equal(t, geom.Pt(60, 80), r.At)
	assert.Equal(t, 40.0, r.Width)
	assert.Equal(t, 20.0, r.Height)
}

func TestGroup_AbsoluteChildren(t *testing.T) {
	g := Group{
		Base:     Base{ID: "g"},
		At:       geom.Pt(100, 100),
		Width:    50,
		Height:   50,
		Children: Scene{rect("a", 5, 5, 10, 10), Path{Base: Base{ID: "p"}, Points: []geom.Point{{X: 1, Y: 2}}}},
	}

	abs := g.Absolute()
	assert.Equal(t, geom.Pt(105, 105), abs[0].(Rectangle).At)
	assert.Equal(t, []geom.Point{{X: 101, Y: 102}}, abs[1].(Path).Points)

	moved := g.Translate(geom.Pt(10, 0)).(Group)
	assert.Equal(t, g.Children, moved.Children, "moving a group only moves its anchor")
	assert.Equal(t, geom.Pt(115, 105), moved.Absolute()[0].(Rectangle).At)
}

func TestText_Bounds(t *testing.T) {
	txt := Text{At: geom.Pt(10, 20), Content: "one\ntwo", FontSize: 10, Width: 100}

	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 100, Height: 24}, txt.Bounds())
}
