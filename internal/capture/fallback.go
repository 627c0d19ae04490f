package capture

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/kbinani/screenshot"
)

// fallbackScreenshot grabs the whole virtual desktop without the portal. It
// covers sessions with no portal service and non-Unix platforms.
func fallbackScreenshot(CaptureOptions) (*image.RGBA, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errNoMonitors
	}
	all := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		all = all.Union(screenshot.GetDisplayBounds(i))
	}
	img, err := screenshot.CaptureRect(all)
	if err != nil {
		return nil, fmt.Errorf("capture desktop: %w", err)
	}
	return img, nil
}

// fallbackMonitorScreenshot grabs a single display by index.
func fallbackMonitorScreenshot(index int) (*image.RGBA, error) {
	if index < 0 || index >= screenshot.NumActiveDisplays() {
		return nil, fmt.Errorf("display %d out of range", index)
	}
	img, err := screenshot.Capture(rectCoords(screenshot.GetDisplayBounds(index)))
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", index, err)
	}
	return img, nil
}

func rectCoords(r image.Rectangle) (x, y, w, h int) {
	return r.Min.X, r.Min.Y, r.Dx(), r.Dy()
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
