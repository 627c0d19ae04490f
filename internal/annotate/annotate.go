package annotate

import (
	"fmt"
	"image/color"
)

// Kind identifies an annotation variant.
type Kind int

const (
	KindArrow Kind = iota
	KindRect
	KindText
)

// Annotation is a single drawable shape layered over the captured image.
// Which geometry fields are meaningful depends on Kind: Start/End for
// arrows, Bounds for rectangles, Pos/Text/Size for text labels. All
// coordinates are image-space pixels.
type Annotation struct {
	Kind Kind

	Start, End Point // arrow endpoints
	Bounds     Rect  // rectangle corners
	Pos        Point // text anchor (top-left)

	Text      string
	Color     color.RGBA
	Thickness float64 // stroke width for arrow/rect
	Size      float64 // font size for text
}

// Arrow builds an arrow annotation between two image-space points.
func Arrow(start, end Point, col color.RGBA, thickness float64) Annotation {
	return Annotation{Kind: KindArrow, Start: start, End: end, Color: col, Thickness: thickness}
}

// Box builds a rectangle annotation spanning two corners in any order.
func Box(a, b Point, col color.RGBA, thickness float64) Annotation {
	return Annotation{Kind: KindRect, Bounds: RectFromPoints(a, b), Color: col, Thickness: thickness}
}

// Label builds a text annotation anchored at pos.
func Label(pos Point, text string, col color.RGBA, size float64) Annotation {
	return Annotation{Kind: KindText, Pos: pos, Text: text, Color: col, Size: size}
}

// TextBounds approximates the on-image footprint of a text annotation using
// a fixed-width estimate of 0.6×size per rune rather than exact glyph
// metrics.
func TextBounds(pos Point, text string, size float64) Rect {
	return RectFromSize(pos, float64(len([]rune(text)))*size*0.6, size)
}

// HitTest reports whether p falls within threshold of the annotation.
// Arrows measure point-to-segment distance via a clamped projection, with a
// point-to-point fallback for degenerate segments. Rectangles hit on a
// border band around the outline or anywhere in the interior. Text hits on
// its expanded approximate bounding box.
func (a *Annotation) HitTest(p Point, threshold float64) bool {
	switch a.Kind {
	case KindArrow:
		line := a.End.Sub(a.Start)
		lenSq := line.LengthSq()
		if lenSq < 1.0 {
			return p.Distance(a.Start) < threshold
		}
		t := p.Sub(a.Start).Dot(line) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		proj := a.Start.Add(line.Mul(t))
		return p.Distance(proj) < threshold
	case KindRect:
		r := a.Bounds
		return r.Expand(threshold).Contains(p) &&
			(!r.Expand(-threshold).Contains(p) || r.Contains(p))
	case KindText:
		return TextBounds(a.Pos, a.Text, a.Size).Expand(threshold).Contains(p)
	default:
		return false
	}
}

// Translate moves every geometry field of the annotation by delta.
func (a *Annotation) Translate(delta Point) {
	switch a.Kind {
	case KindArrow:
		a.Start = a.Start.Add(delta)
		a.End = a.End.Add(delta)
	case KindRect:
		a.Bounds = a.Bounds.Translate(delta)
	case KindText:
		a.Pos = a.Pos.Add(delta)
	}
}

// Label returns the short description shown in the layers panel.
func (a *Annotation) Label() string {
	switch a.Kind {
	case KindArrow:
		return "↗ Arrow"
	case KindRect:
		return "⬜ Box"
	case KindText:
		return fmt.Sprintf("T %q", a.Text)
	default:
		return "?"
	}
}
