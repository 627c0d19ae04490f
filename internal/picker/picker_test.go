package picker

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/snapcrab/internal/capture"
)

func TestCandidatesFiltering(t *testing.T) {
	wins := []capture.WindowInfo{
		{Title: "Editor", Class: "editor", Rect: image.Rect(0, 0, 800, 600)},
		{Title: "", Class: "anon", Rect: image.Rect(0, 0, 400, 400)},
		{Title: "Tiny", Class: "tiny", Rect: image.Rect(0, 0, 5, 5)},
		{Title: "Minimized", Class: "min", Rect: image.Rect(0, 0, 300, 300), Minimized: true},
		{Title: "SnapCrab", Class: "snapcrab", Rect: image.Rect(0, 0, 640, 480)},
		{Title: "Program Manager", Class: "shell", Rect: image.Rect(0, 0, 1920, 1080)},
		{Title: "ms-settings", Class: "settings", Rect: image.Rect(0, 0, 500, 500)},
		{Title: "Terminal", Class: "term", Rect: image.Rect(100, 100, 500, 300)},
	}

	got := Candidates(wins, "SnapCrab")
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	// Ascending area: Terminal (400x200) before Editor (800x600).
	if got[0].Title != "Terminal" || got[1].Title != "Editor" {
		t.Fatalf("unexpected order: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestCandidatesExcludesOwnAppByClass(t *testing.T) {
	wins := []capture.WindowInfo{
		{Title: "screenshot.png — SnapCrab", Class: "SnapCrab", Rect: image.Rect(0, 0, 1200, 800)},
	}
	if got := Candidates(wins, "SnapCrab"); len(got) != 0 {
		t.Fatalf("own window should be filtered, got %+v", got)
	}
}

func TestHoverIndexPrefersSmallestWindow(t *testing.T) {
	wins := []capture.WindowInfo{
		{Title: "Big", Class: "big", Rect: image.Rect(0, 0, 1000, 1000)},
		{Title: "Small", Class: "small", Rect: image.Rect(100, 100, 300, 300)},
	}
	sorted := Candidates(wins, "SnapCrab")

	if idx := HoverIndex(sorted, image.Pt(200, 200)); idx != 0 || sorted[idx].Title != "Small" {
		t.Fatalf("expected the small window first, got index %d", idx)
	}
	if idx := HoverIndex(sorted, image.Pt(900, 900)); sorted[idx].Title != "Big" {
		t.Fatalf("expected the big window, got index %d", idx)
	}
	if idx := HoverIndex(sorted, image.Pt(2000, 2000)); idx != -1 {
		t.Fatalf("expected no hover, got %d", idx)
	}
}

func TestMaskRectsCoverScreenAroundSelection(t *testing.T) {
	screen := image.Rect(0, 0, 1920, 1080)
	sel := image.Rect(500, 300, 900, 700)
	bands := MaskRects(screen, sel)

	area := 0
	for _, b := range bands {
		area += b.Dx() * b.Dy()
		if !b.In(screen) && !b.Empty() {
			t.Fatalf("band %v escapes the screen", b)
		}
		if !b.Intersect(sel).Empty() {
			t.Fatalf("band %v overlaps the selection", b)
		}
	}
	want := screen.Dx()*screen.Dy() - sel.Dx()*sel.Dy()
	if area != want {
		t.Fatalf("mask area = %d, want %d", area, want)
	}
}

func TestValidArea(t *testing.T) {
	if ValidArea(image.Rect(0, 0, 5, 5)) {
		t.Fatal("5x5 should not be a valid selection")
	}
	if ValidArea(image.Rect(0, 0, 100, 4)) {
		t.Fatal("thin selections should be rejected")
	}
	if !ValidArea(image.Rect(10, 10, 16, 16)) {
		t.Fatal("6x6 should be accepted")
	}
}

func TestCropToClampsToBounds(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			bg.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}

	got := CropTo(bg, image.Rect(80, 80, 200, 200))
	if got == nil {
		t.Fatal("expected cropped image")
	}
	if b := got.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("crop size = %dx%d, want 20x20", b.Dx(), b.Dy())
	}
	if px := got.RGBAAt(0, 0); px != bg.RGBAAt(80, 80) {
		t.Fatalf("crop content mismatch: %+v", px)
	}

	if CropTo(bg, image.Rect(200, 200, 300, 300)) != nil {
		t.Fatal("fully out-of-bounds selection should produce nothing")
	}
	if CropTo(nil, image.Rect(0, 0, 10, 10)) != nil {
		t.Fatal("nil background should produce nothing")
	}
}
