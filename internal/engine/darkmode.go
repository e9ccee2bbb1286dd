package engine

import (
	"math/rand/v2"
	"strings"

	"github.com/vikrantan5/PenSilc/internal/document"
)

var (
	// NeonPalette replaces white ink in dark mode.
	NeonPalette = []string{"#00eaff", "#39ff14", "#b026ff", "#00ffff", "#ff00ff"}

	// BrightPalette replaces black ink in dark mode and seeds the default
	// drawing color there.
	BrightPalette = []string{"#ffe600", "#ff2ae6", "#ff7b00", "#ffff00", "#00ff00"}
)

var whites = map[string]bool{
	"#fff":                true,
	"#ffffff":             true,
	"white":               true,
	"rgb(255,255,255)":    true,
	"rgba(255,255,255,1)": true,
}

var blacks = map[string]bool{
	"#000":          true,
	"#000000":       true,
	"black":         true,
	"rgb(0,0,0)":    true,
	"rgba(0,0,0,1)": true,
}

// Rand picks palette entries. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

func normalizeColor(c string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c)), " ", "")
}

func IsWhite(c string) bool { return whites[normalizeColor(c)] }
func IsBlack(c string) bool { return blacks[normalizeColor(c)] }

func pick(r Rand, palette []string) string {
	return palette[r.IntN(len(palette))]
}

// DarkModeColor maps a light-mode color to its dark-mode replacement. The
// second result is false when the color passes through unchanged.
func DarkModeColor(r Rand, c string) (string, bool) {
	switch {
	case IsWhite(c):
		return pick(r, NeonPalette), true
	case IsBlack(c):
		return pick(r, BrightPalette), true
	}
	return c, false
}

// DefaultDrawingColor is the pen color a fresh session starts with.
func DefaultDrawingColor(r Rand, dark bool) string {
	if dark {
		return pick(r, BrightPalette)
	}
	return document.DefaultStroke
}

// BackgroundFor returns the canvas background for the mode.
func BackgroundFor(dark bool) string {
	if dark {
		return document.DarkBackground
	}
	return document.LightBackground
}

func darkenStyle(r Rand, s document.Style) document.Style {
	if c, ok := DarkModeColor(r, s.Stroke); ok {
		s.OriginalStroke = s.Stroke
		s.Stroke = c
	}
	if c, ok := DarkModeColor(r, s.Fill); ok {
		s.OriginalFill = s.Fill
		s.Fill = c
	}
	return s
}

func restoreStyle(s document.Style) document.Style {
	if s.OriginalStroke != "" {
		s.Stroke = s.OriginalStroke
		s.OriginalStroke = ""
	}
	if s.OriginalFill != "" {
		s.Fill = s.OriginalFill
		s.OriginalFill = ""
	}
	return s
}

// ApplyDarkMode converts every object (group children included) into or out
// of dark mode.
func ApplyDarkMode(scene document.Scene, dark bool, r Rand) document.Scene {
	return scene.Map(func(o document.Object) document.Object {
		if dark {
			o = o.WithStyle(darkenStyle(r, o.ObjectStyle()))
		} else {
			o = o.WithStyle(restoreStyle(o.ObjectStyle()))
		}
		if g, ok := o.(document.Group); ok {
			g.Children = ApplyDarkMode(g.Children, dark, r)
			o = g
		}
		return o
	})
}
