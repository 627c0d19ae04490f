package ui

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapcrab/internal/canvas"
	"github.com/example/snapcrab/internal/capture"
	"github.com/example/snapcrab/internal/theme"
)

type nopSender struct{}

func (nopSender) Send(interface{}) {}

func actionsOf(items []toolbarItem) map[string]bool {
	out := map[string]bool{}
	for _, it := range items {
		if it.kind == itemButton {
			out[it.action] = true
		}
	}
	return out
}

func TestLayoutToolbarButtons(t *testing.T) {
	items := layoutToolbar(canvas.ToolArrow)
	actions := actionsOf(items)
	for _, want := range []string{
		"capture-screen", "pick-window", "pick-region",
		"tool-arrow", "tool-box", "tool-text", "tool-crop",
		"save", "copy", "layers", "clear",
	} {
		if !actions[want] {
			t.Errorf("toolbar is missing the %q button", want)
		}
	}
	for _, it := range items {
		if it.rect.Min.X < 0 || it.rect.Max.X > toolbarWidth {
			t.Errorf("item %q overflows the toolbar: %v", it.label, it.rect)
		}
	}
}

func TestLayoutToolbarOptionsFollowTool(t *testing.T) {
	count := func(items []toolbarItem, kind itemKind) int {
		n := 0
		for _, it := range items {
			if it.kind == kind {
				n++
			}
		}
		return n
	}

	arrow := layoutToolbar(canvas.ToolArrow)
	if got := count(arrow, itemThickness); got != len(thicknessOptions) {
		t.Errorf("arrow tool shows %d thickness rows, want %d", got, len(thicknessOptions))
	}
	if got := count(arrow, itemTextSize); got != 0 {
		t.Errorf("arrow tool shows %d text size rows, want 0", got)
	}

	text := layoutToolbar(canvas.ToolText)
	if got := count(text, itemTextSize); got != len(textSizeOptions) {
		t.Errorf("text tool shows %d text size rows, want %d", got, len(textSizeOptions))
	}
	if got := count(text, itemThickness); got != 0 {
		t.Errorf("text tool shows %d thickness rows, want 0", got)
	}

	crop := layoutToolbar(canvas.ToolCrop)
	if got := count(crop, itemColor); got != len(palette) {
		t.Errorf("crop tool shows %d swatches, want %d", got, len(palette))
	}
}

func TestHitToolbar(t *testing.T) {
	items := layoutToolbar(canvas.ToolArrow)
	for i, it := range items {
		center := image.Pt((it.rect.Min.X+it.rect.Max.X)/2, (it.rect.Min.Y+it.rect.Max.Y)/2)
		if got := hitToolbar(items, center); got != i {
			t.Fatalf("hitToolbar(%v) = %d, want %d", center, got, i)
		}
	}
	if got := hitToolbar(items, image.Pt(toolbarWidth+10, 10)); got != -1 {
		t.Fatalf("hit outside the toolbar = %d, want -1", got)
	}
}

func TestLayoutStatus(t *testing.T) {
	editing := layoutStatus(1100, 700, true)
	if len(editing) != 2 {
		t.Fatalf("text mode shows %d hints, want 2", len(editing))
	}
	if editing[0].action != "text-commit" || editing[1].action != "text-cancel" {
		t.Fatalf("text mode hints = %q, %q", editing[0].action, editing[1].action)
	}

	normal := layoutStatus(1100, 700, false)
	if len(normal) < 5 {
		t.Fatalf("normal mode shows %d hints", len(normal))
	}
	for _, h := range normal {
		if h.rect.Max.Y > 700 || h.rect.Min.Y < 700-statusHeight-4 {
			t.Errorf("hint %q outside the status bar: %v", h.label, h.rect)
		}
	}
	if i := hitStatus(normal, image.Pt(normal[0].rect.Min.X+2, normal[0].rect.Min.Y+2)); i != 0 {
		t.Fatalf("hitStatus = %d, want 0", i)
	}
}

func TestLayoutLayersNewestFirst(t *testing.T) {
	rows := layoutLayers(3, 1100, 700)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, want := range []int{2, 1, 0} {
		if rows[i].index != want {
			t.Errorf("row %d refers to annotation %d, want %d", i, rows[i].index, want)
		}
		if !rows[i].deleteBox.In(rows[i].rect) {
			t.Errorf("row %d delete box %v outside row %v", i, rows[i].deleteBox, rows[i].rect)
		}
		if rows[i].rect.Min.X != 1100-layersWidth {
			t.Errorf("row %d starts at %d, want %d", i, rows[i].rect.Min.X, 1100-layersWidth)
		}
	}
}

func TestLayoutLayersClipsToWindow(t *testing.T) {
	rows := layoutLayers(1000, 1100, 200)
	for _, r := range rows {
		if r.rect.Max.Y > 200-statusHeight {
			t.Fatalf("row %v overlaps the status bar", r.rect)
		}
	}
	if len(rows) >= 1000 {
		t.Fatal("expected the list to be clipped")
	}
}

func TestCanvasRect(t *testing.T) {
	r := canvasRect(800, 600, 1100, 700, false)
	if r.Min.X < toolbarWidth || r.Max.Y > 700-statusHeight {
		t.Fatalf("canvas rect %v escapes the content area", r)
	}
	// 4:3 aspect is preserved by the scale-to-fit mapping.
	ratio := float64(r.Dx()) / float64(r.Dy())
	if ratio < 1.30 || ratio > 1.37 {
		t.Fatalf("aspect ratio %.3f, want ~1.333", ratio)
	}

	withPanel := canvasRect(800, 600, 1100, 700, true)
	if withPanel.Dx() >= r.Dx() {
		t.Fatalf("layers panel did not shrink the canvas: %v vs %v", withPanel, r)
	}
	if withPanel.Max.X > 1100-layersWidth {
		t.Fatalf("canvas %v overlaps the layers panel", withPanel)
	}
}

func TestOverlayGeomRoundTrip(t *testing.T) {
	// Snapshot with a non-zero origin, as a multi-monitor union can have.
	shot := image.NewRGBA(image.Rect(-100, 0, 900, 500))
	g := newOverlayGeom(shot, 1000, 500)

	gp := g.toGlobal(250, 100)
	if gp.X != 150 || gp.Y != 100 {
		t.Fatalf("toGlobal = %v, want (150,100)", gp)
	}

	r := g.fromGlobal(image.Rect(-100, 0, 900, 500))
	if r != g.display {
		t.Fatalf("fromGlobal(full shot) = %v, want %v", r, g.display)
	}
}

func TestCacheButtonInvalidation(t *testing.T) {
	th := theme.Default()
	calls := 0
	lb := &LabelButton{label: "Save", theme: th, onActivate: func() { calls++ }}
	cb := &CacheButton{Button: lb}
	cb.SetRect(image.Rect(0, 0, 80, 24))

	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	cb.Draw(dst, StateDefault)
	if cb.cache[StateDefault] == nil {
		t.Fatal("default state was not cached")
	}
	if got := dst.RGBAAt(2, 2); got != th.ButtonBackground {
		t.Fatalf("button background = %v, want %v", got, th.ButtonBackground)
	}
	cb.Draw(dst, StateHover)
	if cb.cache[StateHover] == nil {
		t.Fatal("hover state was not cached")
	}

	cb.SetRect(image.Rect(0, 30, 80, 54))
	if cb.cache[StateDefault] != nil || cb.cache[StateHover] != nil {
		t.Fatal("moving the button should drop the cache")
	}

	cb.Activate()
	if calls != 1 {
		t.Fatalf("Activate calls = %d, want 1", calls)
	}
}

func swapFreezeHooks(t *testing.T) {
	t.Helper()
	origHide, origSnap, origDelay := hideWindow, snapDesktop, pickDelay
	t.Cleanup(func() { hideWindow, snapDesktop, pickDelay = origHide, origSnap, origDelay })
	pickDelay = 0
}

func TestFreezeDesktopHidesWindowFirst(t *testing.T) {
	swapFreezeHooks(t)
	var calls []string
	hideWindow = func(title, app string) (func() error, error) {
		calls = append(calls, "hide "+title)
		return func() error {
			calls = append(calls, "restore")
			return nil
		}, nil
	}
	snapDesktop = func(display string, opts capture.CaptureOptions) (*image.RGBA, error) {
		calls = append(calls, "snapshot")
		return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
	}

	a := New()
	if _, err := a.freezeDesktop(); err != nil {
		t.Fatalf("freezeDesktop returned error: %v", err)
	}
	want := []string{"hide " + appTitle, "snapshot", "restore"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestFreezeDesktopSurvivesHideFailure(t *testing.T) {
	swapFreezeHooks(t)
	hideWindow = func(string, string) (func() error, error) {
		return nil, errors.New("no such window")
	}
	snapped := false
	snapDesktop = func(string, capture.CaptureOptions) (*image.RGBA, error) {
		snapped = true
		return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
	}

	a := New()
	if _, err := a.freezeDesktop(); err != nil {
		t.Fatalf("freezeDesktop returned error: %v", err)
	}
	if !snapped {
		t.Fatal("snapshot should still be taken when the hide fails")
	}
}

func TestSnackbarDismissesOnItsOwnRectOnly(t *testing.T) {
	a := New()
	a.width, a.height = 1100, 700
	a.editor.LoadImage(image.NewRGBA(image.Rect(0, 0, 400, 300)))
	a.message = "saved"
	a.messageUntil = time.Now().Add(time.Minute)
	noop := func(string) {}

	press := func(x, y int) mouse.Event {
		return mouse.Event{X: float32(x), Y: float32(y), Button: mouse.ButtonLeft, Direction: mouse.DirPress}
	}

	// A canvas press keeps the message and starts the drag as usual.
	a.handleMouse(press(400, 100), noop, nopSender{})
	if !a.dragging {
		t.Fatal("canvas press should start a drag")
	}
	if !time.Now().Before(a.messageUntil) {
		t.Fatal("canvas press should not dismiss the message")
	}
	a.handleMouse(mouse.Event{X: 400, Y: 100, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, noop, nopSender{})

	// A press on the snackbar dismisses it and goes no further.
	r := messageRect(a.message, a.width, a.height)
	a.handleMouse(press((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2), noop, nopSender{})
	if a.dragging {
		t.Fatal("snackbar press should not start a drag")
	}
	if time.Now().Before(a.messageUntil) {
		t.Fatal("snackbar press should dismiss the message")
	}
}

func TestDrawDashedRectAlternates(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	drawDashedRect(dst, image.Rect(0, 0, 40, 40), 4, 1, white, black)

	if got := dst.RGBAAt(1, 0); got != white {
		t.Fatalf("first dash = %v, want white", got)
	}
	if got := dst.RGBAAt(5, 0); got != black {
		t.Fatalf("second dash = %v, want black", got)
	}
}
