package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/snapcrab/internal/annotate"
)

// Tool selects what a drag gesture on the canvas does.
type Tool int

const (
	ToolArrow Tool = iota
	ToolRect
	ToolText
	ToolCrop
)

// hitThreshold is the selection distance in display pixels; it is divided by
// the current scale so picking feels the same at any zoom.
const hitThreshold = 10.0

// minDragDistance is the image-space distance below which a release commits
// nothing.
const minDragDistance = 1.0

// Editor owns the captured image and its annotation list and runs the
// drag-gesture state machine: a press either selects an existing annotation
// (topmost first) or starts a new shape; moves translate the selection;
// release commits the new shape, or crops when the crop tool is active.
type Editor struct {
	img         *image.RGBA
	annotations []annotate.Annotation

	tool      Tool
	color     color.RGBA
	thickness float64
	textSize  float64

	active    int             // index into annotations, -1 for none
	dragStart *annotate.Point // image-space start of a new-shape drag
	textPos   *annotate.Point // image-space anchor of the open text prompt
}

// New creates an Editor with the default tool settings: arrow tool, red
// strokes of thickness 4, text size 24.
func New() *Editor {
	return &Editor{
		tool:      ToolArrow,
		color:     color.RGBA{255, 0, 0, 255},
		thickness: 4,
		textSize:  24,
		active:    -1,
	}
}

// Image returns the current captured image, nil when nothing was captured
// yet.
func (e *Editor) Image() *image.RGBA { return e.img }

// Annotations returns the annotation list in creation (z) order.
func (e *Editor) Annotations() []annotate.Annotation { return e.annotations }

// ActiveIndex returns the selected annotation index, or -1.
func (e *Editor) ActiveIndex() int { return e.active }

// SetActive selects the annotation at i; out-of-range clears the selection.
func (e *Editor) SetActive(i int) {
	if i < 0 || i >= len(e.annotations) {
		e.active = -1
		return
	}
	e.active = i
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetTool switches the active tool and cancels any in-progress drag.
func (e *Editor) SetTool(t Tool) {
	e.tool = t
	e.dragStart = nil
}

// Color returns the current stroke color.
func (e *Editor) Color() color.RGBA { return e.color }

// SetColor changes the stroke color for new annotations.
func (e *Editor) SetColor(c color.RGBA) { e.color = c }

// Thickness returns the current stroke thickness.
func (e *Editor) Thickness() float64 { return e.thickness }

// SetThickness changes the stroke thickness for new annotations, clamped to
// the 1..20 range.
func (e *Editor) SetThickness(t float64) {
	if t < 1 {
		t = 1
	} else if t > 20 {
		t = 20
	}
	e.thickness = t
}

// TextSize returns the font size used for new text annotations.
func (e *Editor) TextSize() float64 { return e.textSize }

// SetTextSize changes the font size used for new text annotations.
func (e *Editor) SetTextSize(s float64) {
	if s > 0 {
		e.textSize = s
	}
}

// Mapper returns the coordinate mapper for the current image.
func (e *Editor) Mapper() Mapper {
	if e.img == nil {
		return Mapper{}
	}
	b := e.img.Bounds()
	return Mapper{ImageW: b.Dx(), ImageH: b.Dy()}
}

// LoadImage installs a freshly captured image, dropping all annotations and
// the selection. The image is replaced wholesale, never patched.
func (e *Editor) LoadImage(img *image.RGBA) {
	e.img = img
	e.annotations = e.annotations[:0]
	e.active = -1
	e.dragStart = nil
	e.textPos = nil
}

// DragStart begins a gesture at a display-space position. With a non-crop
// tool it first hit-tests existing annotations from topmost (last created)
// to bottommost and selects the first match; otherwise it records the start
// of a new-shape drag, and for the text tool additionally opens the inline
// text prompt.
func (e *Editor) DragStart(pos annotate.Point, display image.Rectangle) {
	m := e.Mapper()
	imgPos := m.ToImage(pos, display)

	e.active = -1
	if e.tool != ToolCrop {
		threshold := hitThreshold / m.Scale(display)
		for i := len(e.annotations) - 1; i >= 0; i-- {
			if e.annotations[i].HitTest(imgPos, threshold) {
				e.active = i
				break
			}
		}
	}
	if e.active == -1 {
		p := imgPos
		e.dragStart = &p
		if e.tool == ToolText {
			t := imgPos
			e.textPos = &t
		}
	}
}

// DragMove handles an incremental display-space drag delta. When an
// annotation is selected it is translated by delta divided by the current
// scale so it tracks the pointer 1:1 in image space.
func (e *Editor) DragMove(delta annotate.Point, display image.Rectangle) {
	if e.active < 0 || e.active >= len(e.annotations) {
		return
	}
	s := e.Mapper().Scale(display)
	e.annotations[e.active].Translate(annotate.Pt(delta.X/s, delta.Y/s))
}

// DragEnd finishes the gesture at a display-space position. A new-shape drag
// longer than one image pixel commits an arrow or rectangle per the active
// tool; the crop tool instead replaces the image with the dragged region and
// resets the tool to arrow. Text is committed by CommitText, not here.
func (e *Editor) DragEnd(pos annotate.Point, display image.Rectangle) {
	start := e.dragStart
	e.dragStart = nil
	if start == nil {
		return
	}
	end := e.Mapper().ToImage(pos, display)
	if start.Distance(end) <= minDragDistance {
		return
	}
	switch e.tool {
	case ToolArrow:
		e.annotations = append(e.annotations, annotate.Arrow(*start, end, e.color, e.thickness))
	case ToolRect:
		e.annotations = append(e.annotations, annotate.Box(*start, end, e.color, e.thickness))
	case ToolCrop:
		e.cropTo(annotate.RectFromPoints(*start, end))
		e.tool = ToolArrow
	}
}

// Dragging reports whether a new-shape drag is in progress and its
// image-space start point.
func (e *Editor) Dragging() (annotate.Point, bool) {
	if e.dragStart == nil {
		return annotate.Point{}, false
	}
	return *e.dragStart, true
}

// PreviewAnnotation returns the transient shape to draw while a new arrow or
// rectangle drag is in progress, given the current pointer position in
// display space.
func (e *Editor) PreviewAnnotation(pos annotate.Point, display image.Rectangle) (annotate.Annotation, bool) {
	if e.dragStart == nil {
		return annotate.Annotation{}, false
	}
	end := e.Mapper().ToImage(pos, display)
	switch e.tool {
	case ToolArrow:
		return annotate.Arrow(*e.dragStart, end, e.color, e.thickness), true
	case ToolRect:
		return annotate.Box(*e.dragStart, end, e.color, e.thickness), true
	}
	return annotate.Annotation{}, false
}

// EditingText reports whether the inline text prompt is open and the
// image-space anchor it was opened at.
func (e *Editor) EditingText() (annotate.Point, bool) {
	if e.textPos == nil {
		return annotate.Point{}, false
	}
	return *e.textPos, true
}

// CommitText closes the text prompt, committing a text annotation at the
// recorded anchor when the entered string is non-empty.
func (e *Editor) CommitText(text string) {
	pos := e.textPos
	e.textPos = nil
	if pos == nil || text == "" {
		return
	}
	e.annotations = append(e.annotations, annotate.Label(*pos, text, e.color, e.textSize))
}

// CancelText closes the text prompt without committing.
func (e *Editor) CancelText() { e.textPos = nil }

// Remove deletes the annotation at i, clearing the selection.
func (e *Editor) Remove(i int) {
	if i < 0 || i >= len(e.annotations) {
		return
	}
	e.annotations = append(e.annotations[:i], e.annotations[i+1:]...)
	e.active = -1
}

// Clear drops every annotation.
func (e *Editor) Clear() {
	e.annotations = e.annotations[:0]
	e.active = -1
}

// cropTo replaces the image with the given image-space region clamped to the
// image bounds, clearing annotations. Empty results are ignored.
func (e *Editor) cropTo(r annotate.Rect) {
	if e.img == nil {
		return
	}
	rect := image.Rect(int(r.Min.X), int(r.Min.Y), int(r.Max.X), int(r.Max.Y))
	rect = rect.Intersect(e.img.Bounds())
	if rect.Empty() {
		return
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), e.img, rect.Min, draw.Src)
	e.LoadImage(out)
}
