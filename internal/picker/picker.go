// Package picker implements the capture-target selection logic behind the
// full-screen picking overlay: which windows are offered, which one is
// hovered, and how an area drag is masked and clamped. It is pure logic; the
// overlay window itself lives in internal/ui.
package picker

import (
	"image"
	"sort"
	"strings"

	"github.com/example/snapcrab/internal/capture"
)

// minWindowSize excludes windows at or below this size from the candidate
// list; tiny utility windows are not useful capture targets.
const minWindowSize = 10

// minAreaSize is the smallest area selection that produces a capture.
const minAreaSize = 5

// Window is a capture candidate shown by the window picker. Rect is in
// global screen coordinates.
type Window struct {
	Rect  image.Rectangle
	Title string
	App   string
}

// appName picks the human-facing application name for a window.
func appName(w capture.WindowInfo) string {
	if w.Class != "" {
		return w.Class
	}
	return w.Executable
}

// Candidates filters and orders windows for the picker. Minimized windows,
// windows without a title, the application's own windows, desktop shells and
// "ms-" URI handler windows, and anything at or below 10x10 pixels are
// excluded. The result is sorted ascending by area so that small windows
// stacked on larger ones stay selectable under first-match hover testing.
func Candidates(wins []capture.WindowInfo, selfApp string) []Window {
	out := make([]Window, 0, len(wins))
	for _, w := range wins {
		title := w.Title
		app := appName(w)
		valid := !w.Minimized &&
			title != "" &&
			title != selfApp &&
			app != selfApp &&
			title != "Program Manager" &&
			!strings.HasPrefix(title, "ms-") &&
			w.Rect.Dx() > minWindowSize &&
			w.Rect.Dy() > minWindowSize
		if valid {
			out = append(out, Window{Rect: w.Rect, Title: title, App: app})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rect.Dx()*out[i].Rect.Dy() < out[j].Rect.Dx()*out[j].Rect.Dy()
	})
	return out
}

// HoverIndex returns the index of the first candidate containing p, or -1.
// With the ascending-area ordering from Candidates this yields the smallest
// window under the pointer.
func HoverIndex(wins []Window, p image.Point) int {
	for i, w := range wins {
		if p.In(w.Rect) {
			return i
		}
	}
	return -1
}

// MaskRects splits the screen into the four bands around sel (top, left,
// right, bottom) that the area picker dims while a drag is active. Bands
// outside the screen collapse to empty rectangles.
func MaskRects(screen, sel image.Rectangle) [4]image.Rectangle {
	return [4]image.Rectangle{
		image.Rect(screen.Min.X, screen.Min.Y, screen.Max.X, sel.Min.Y),
		image.Rect(screen.Min.X, sel.Min.Y, sel.Min.X, sel.Max.Y),
		image.Rect(sel.Max.X, sel.Min.Y, screen.Max.X, sel.Max.Y),
		image.Rect(screen.Min.X, sel.Max.Y, screen.Max.X, screen.Max.Y),
	}
}

// ValidArea reports whether a dragged selection is large enough to capture.
func ValidArea(sel image.Rectangle) bool {
	return sel.Dx() > minAreaSize && sel.Dy() > minAreaSize
}

// CropTo extracts the selection from the frozen background snapshot, clamped
// to the snapshot's bounds. It returns nil when nothing remains after
// clamping.
func CropTo(bg *image.RGBA, sel image.Rectangle) *image.RGBA {
	if bg == nil {
		return nil
	}
	sel = sel.Intersect(bg.Bounds())
	if sel.Empty() {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, sel.Dx(), sel.Dy()))
	for y := 0; y < sel.Dy(); y++ {
		srcOff := bg.PixOffset(sel.Min.X, sel.Min.Y+y)
		dstOff := out.PixOffset(0, y)
		copy(out.Pix[dstOff:dstOff+sel.Dx()*4], bg.Pix[srcOff:srcOff+sel.Dx()*4])
	}
	return out
}
