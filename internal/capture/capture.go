package capture

import (
	"fmt"
	"image"
)

// Swappable for tests.
var (
	portalScreenshotFn   = portalScreenshot
	fallbackScreenshotFn = fallbackScreenshot
)

// CaptureScreenshot captures the whole desktop. When a display selector is
// provided the result is cropped to the matching monitor. The portal is tried
// first; when no portal service is reachable the direct backend takes over.
func CaptureScreenshot(display string, opts CaptureOptions) (*image.RGBA, error) {
	img, err := desktopScreenshot(opts)
	if err != nil {
		return nil, err
	}
	if display == "" {
		return img, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return nil, err
	}
	monitor, err := FindMonitor(monitors, display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, monitor.Rect)
}

// CaptureMonitor captures a single monitor from the list.
func CaptureMonitor(mon MonitorInfo, opts CaptureOptions) (*image.RGBA, error) {
	img, directErr := backend.CaptureMonitorImage(mon)
	if directErr == nil {
		return img, nil
	}
	shot, err := desktopScreenshot(opts)
	if err != nil {
		return nil, fmt.Errorf("monitor capture: %v; fallback screenshot failed: %w", directErr, err)
	}
	return cropToRect(shot, mon.Rect)
}

// CaptureWindow captures the given window. It prefers a direct capture of the
// window's pixels and falls back to cropping a desktop screenshot when the
// compositor refuses to provide them.
func CaptureWindow(info WindowInfo, opts CaptureOptions) (*image.RGBA, error) {
	if info.Rect.Empty() {
		return nil, fmt.Errorf("window %q has empty geometry", info.Title)
	}
	img, directErr := backend.CaptureWindowImage(info.ID)
	if directErr == nil {
		return img, nil
	}
	shot, err := desktopScreenshot(opts)
	if err != nil {
		return nil, fmt.Errorf("window capture: %v; fallback screenshot failed: %w", directErr, err)
	}
	img, err = cropToRect(shot, info.Rect)
	if err != nil {
		return nil, fmt.Errorf("window capture: %v; fallback crop failed: %w", directErr, err)
	}
	return img, nil
}

// CaptureWindowByTitleApp re-resolves a window by its title and application
// name and captures it. The window picker uses this when the user clicks a
// candidate from the frozen snapshot.
func CaptureWindowByTitleApp(title, app string, opts CaptureOptions) (*image.RGBA, error) {
	windows, err := ListWindows()
	if err != nil {
		return nil, fmt.Errorf("capture window %q: %w", title, err)
	}
	info, err := FindWindow(windows, title, app)
	if err != nil {
		return nil, fmt.Errorf("capture window %q: %w", title, err)
	}
	return CaptureWindow(info, opts)
}

// HideWindow unmaps the window matching title and app so a subsequent
// desktop screenshot does not include it. The returned restore function maps
// the window again.
func HideWindow(title, app string) (restore func() error, err error) {
	windows, err := ListWindows()
	if err != nil {
		return nil, fmt.Errorf("hide window %q: %w", title, err)
	}
	info, err := FindWindow(windows, title, app)
	if err != nil {
		return nil, fmt.Errorf("hide window %q: %w", title, err)
	}
	if err := backend.SetWindowMapped(info.ID, false); err != nil {
		return nil, fmt.Errorf("hide window %q: %w", title, err)
	}
	return func() error {
		if err := backend.SetWindowMapped(info.ID, true); err != nil {
			return fmt.Errorf("restore window %q: %w", title, err)
		}
		return nil
	}, nil
}

// CaptureRegionRect captures a specific rectangle in global screen coordinates.
func CaptureRegionRect(rect image.Rectangle, opts CaptureOptions) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("region is empty")
	}
	shot, err := desktopScreenshot(opts)
	if err != nil {
		return nil, err
	}
	return cropToRect(shot, rect)
}

func desktopScreenshot(opts CaptureOptions) (*image.RGBA, error) {
	img, portalErr := portalScreenshotFn(false, opts)
	if portalErr == nil {
		return img, nil
	}
	if !isPortalUnsupportedError(portalErr) {
		return nil, portalErr
	}
	img, err := fallbackScreenshotFn(opts)
	if err != nil {
		return nil, fmt.Errorf("portal screenshot: %v; direct fallback: %w", portalErr, err)
	}
	return img, nil
}
