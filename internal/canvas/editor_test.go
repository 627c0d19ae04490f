package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/snapcrab/internal/annotate"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

// display rect at 1:1 scale for a 200x100 image.
var display = image.Rect(0, 0, 200, 100)

func TestDragCommitsRectangle(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))
	e.SetTool(ToolRect)

	e.DragStart(annotate.Pt(10, 10), display)
	e.DragEnd(annotate.Pt(100, 60), display)

	anns := e.Annotations()
	if len(anns) != 1 {
		t.Fatalf("expected one annotation, got %d", len(anns))
	}
	got := anns[0]
	if got.Kind != annotate.KindRect {
		t.Fatalf("expected rect annotation, got kind %v", got.Kind)
	}
	want := annotate.RectFromPoints(annotate.Pt(10, 10), annotate.Pt(100, 60))
	if got.Bounds != want {
		t.Fatalf("rect bounds = %+v, want %+v", got.Bounds, want)
	}
}

func TestShortDragCommitsNothing(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))
	e.SetTool(ToolRect)

	e.DragStart(annotate.Pt(50, 50), display)
	e.DragEnd(annotate.Pt(50.5, 50.5), display)

	if n := len(e.Annotations()); n != 0 {
		t.Fatalf("sub-pixel drag committed %d annotations", n)
	}
}

func TestDragCommitsArrowInImageSpace(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))
	// Half-scale display: display coords are 2x image coords.
	half := image.Rect(0, 0, 100, 50)

	e.DragStart(annotate.Pt(10, 10), half)
	e.DragEnd(annotate.Pt(50, 30), half)

	anns := e.Annotations()
	if len(anns) != 1 {
		t.Fatalf("expected one annotation, got %d", len(anns))
	}
	if anns[0].Start != annotate.Pt(20, 20) || anns[0].End != annotate.Pt(100, 60) {
		t.Fatalf("arrow endpoints not mapped to image space: %+v", anns[0])
	}
}

func TestSelectionPrefersTopmost(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))
	e.SetTool(ToolRect)

	e.DragStart(annotate.Pt(10, 10), display)
	e.DragEnd(annotate.Pt(60, 60), display)
	// Start the second rect outside the first one's hit zone so the press
	// begins a new shape instead of selecting.
	e.DragStart(annotate.Pt(95, 5), display)
	e.DragEnd(annotate.Pt(40, 70), display)

	// Point inside both rect interiors.
	e.DragStart(annotate.Pt(50, 50), display)
	if e.ActiveIndex() != 1 {
		t.Fatalf("expected topmost annotation (1) selected, got %d", e.ActiveIndex())
	}
	e.DragEnd(annotate.Pt(50, 50), display)
}

func TestDragMoveTranslatesSelection(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))

	e.DragStart(annotate.Pt(10, 50), display)
	e.DragEnd(annotate.Pt(110, 50), display)

	// Half-scale display: a 10px display delta is 20 image pixels.
	half := image.Rect(0, 0, 100, 50)
	e.DragStart(annotate.Pt(30, 25), half)
	if e.ActiveIndex() != 0 {
		t.Fatalf("expected arrow selected, got %d", e.ActiveIndex())
	}
	e.DragMove(annotate.Pt(10, 0), half)
	e.DragEnd(annotate.Pt(40, 25), half)

	got := e.Annotations()[0]
	if got.Start != annotate.Pt(30, 50) || got.End != annotate.Pt(130, 50) {
		t.Fatalf("translated arrow = %+v", got)
	}
	if n := len(e.Annotations()); n != 1 {
		t.Fatalf("drag of a selection committed a new shape (%d annotations)", n)
	}
}

func TestCropReplacesImageAndClearsAnnotations(t *testing.T) {
	e := New()
	src := testImage(200, 100)
	e.LoadImage(src)

	e.DragStart(annotate.Pt(10, 10), display)
	e.DragEnd(annotate.Pt(60, 40), display)
	if len(e.Annotations()) != 1 {
		t.Fatal("setup: expected one annotation")
	}

	e.SetTool(ToolCrop)
	e.DragStart(annotate.Pt(20, 10), display)
	e.DragEnd(annotate.Pt(120, 60), display)

	img := e.Image()
	if img == nil {
		t.Fatal("expected cropped image")
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("cropped size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
	// Pixel (0,0) of the crop was (20,10) in the source.
	if got, want := img.RGBAAt(0, 0), src.RGBAAt(20, 10); got != want {
		t.Fatalf("crop content mismatch: %+v != %+v", got, want)
	}
	if len(e.Annotations()) != 0 {
		t.Fatal("crop should clear annotations")
	}
	if e.Tool() != ToolArrow {
		t.Fatalf("crop should reset tool to arrow, got %v", e.Tool())
	}
}

func TestCropClampedToImageBounds(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))
	e.SetTool(ToolCrop)

	e.DragStart(annotate.Pt(150, 50), display)
	e.DragEnd(annotate.Pt(400, 300), display)

	if b := e.Image().Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Fatalf("clamped crop size = %dx%d, want 50x50", b.Dx(), b.Dy())
	}
}

func TestTextPromptLifecycle(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))
	e.SetTool(ToolText)

	e.DragStart(annotate.Pt(40, 30), display)
	if _, ok := e.EditingText(); !ok {
		t.Fatal("text tool press should open the prompt")
	}
	e.DragEnd(annotate.Pt(40, 30), display)

	e.CommitText("hello")
	anns := e.Annotations()
	if len(anns) != 1 || anns[0].Kind != annotate.KindText {
		t.Fatalf("expected one text annotation, got %+v", anns)
	}
	if anns[0].Pos != annotate.Pt(40, 30) || anns[0].Text != "hello" {
		t.Fatalf("unexpected text annotation %+v", anns[0])
	}
	if _, ok := e.EditingText(); ok {
		t.Fatal("prompt should close after commit")
	}

	// Empty text closes the prompt without committing.
	e.DragStart(annotate.Pt(10, 10), display)
	e.DragEnd(annotate.Pt(10, 10), display)
	e.CommitText("")
	if len(e.Annotations()) != 1 {
		t.Fatal("empty text should not commit")
	}
	if _, ok := e.EditingText(); ok {
		t.Fatal("prompt should close even without text")
	}
}

func TestLoadImageClearsState(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))
	e.DragStart(annotate.Pt(10, 10), display)
	e.DragEnd(annotate.Pt(50, 50), display)
	e.SetActive(0)

	e.LoadImage(testImage(64, 64))
	if len(e.Annotations()) != 0 {
		t.Fatal("new image should clear annotations")
	}
	if e.ActiveIndex() != -1 {
		t.Fatal("new image should clear the selection")
	}
}

func TestRemoveAndClear(t *testing.T) {
	e := New()
	e.LoadImage(testImage(200, 100))
	for i := 0; i < 3; i++ {
		e.DragStart(annotate.Pt(float64(10+i*30), 80), display)
		e.DragEnd(annotate.Pt(float64(25+i*30), 95), display)
	}
	if len(e.Annotations()) != 3 {
		t.Fatalf("setup: expected 3 annotations, got %d", len(e.Annotations()))
	}

	e.Remove(1)
	if len(e.Annotations()) != 2 {
		t.Fatalf("after remove: %d annotations", len(e.Annotations()))
	}
	if e.ActiveIndex() != -1 {
		t.Fatal("remove should clear the selection")
	}

	e.Clear()
	if len(e.Annotations()) != 0 {
		t.Fatal("clear should drop all annotations")
	}
}
