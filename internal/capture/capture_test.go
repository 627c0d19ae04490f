package capture

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

type mapCall struct {
	id     uint32
	mapped bool
}

type fakeBackend struct {
	monitors    []MonitorInfo
	windows     []WindowInfo
	monitorsErr error
	windowsErr  error
	windowImg   *image.RGBA
	captureErr  error
	mapErr      error
	mapCalls    *[]mapCall
}

func (f fakeBackend) ListMonitors() ([]MonitorInfo, error) {
	if f.monitorsErr != nil {
		return nil, f.monitorsErr
	}
	return f.monitors, nil
}

func (f fakeBackend) ListWindows() ([]WindowInfo, error) {
	if f.windowsErr != nil {
		return nil, f.windowsErr
	}
	return f.windows, nil
}

func (f fakeBackend) CaptureWindowImage(uint32) (*image.RGBA, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	if f.windowImg != nil {
		return f.windowImg, nil
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (f fakeBackend) CaptureMonitorImage(MonitorInfo) (*image.RGBA, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (f fakeBackend) SetWindowMapped(id uint32, mapped bool) error {
	if f.mapCalls != nil {
		*f.mapCalls = append(*f.mapCalls, mapCall{id, mapped})
	}
	return f.mapErr
}

func swapBackend(t *testing.T, b platformBackend) {
	t.Helper()
	original := backend
	backend = b
	t.Cleanup(func() { backend = original })
}

func swapPortal(t *testing.T, portal func(bool, CaptureOptions) (*image.RGBA, error), fallback func(CaptureOptions) (*image.RGBA, error)) {
	t.Helper()
	prevPortal := portalScreenshotFn
	prevFallback := fallbackScreenshotFn
	portalScreenshotFn = portal
	fallbackScreenshotFn = fallback
	t.Cleanup(func() {
		portalScreenshotFn = prevPortal
		fallbackScreenshotFn = prevFallback
	})
}

func TestCaptureWindowByTitleAppListWindowsError(t *testing.T) {
	windowsErr := errors.New("windows unavailable")
	swapBackend(t, fakeBackend{windowsErr: windowsErr})

	_, err := CaptureWindowByTitleApp("Editor", "editor", CaptureOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, windowsErr) {
		t.Fatalf("expected wrapped windows error, got %v", err)
	}
	if want := `capture window "Editor"`; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected window context, got %v", err)
	}
}

func TestCaptureWindowDirect(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 8, 8))
	swapBackend(t, fakeBackend{windowImg: want})

	got, err := CaptureWindow(WindowInfo{ID: 7, Rect: image.Rect(0, 0, 8, 8)}, CaptureOptions{})
	if err != nil {
		t.Fatalf("CaptureWindow returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected direct capture result")
	}
}

func TestCaptureWindowFallsBackToDesktopCrop(t *testing.T) {
	swapBackend(t, fakeBackend{captureErr: errors.New("compositor refused")})

	desktop := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			desktop.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	swapPortal(t,
		func(bool, CaptureOptions) (*image.RGBA, error) { return desktop, nil },
		func(CaptureOptions) (*image.RGBA, error) { return nil, errors.New("unused") },
	)

	got, err := CaptureWindow(WindowInfo{ID: 7, Rect: image.Rect(20, 30, 60, 70)}, CaptureOptions{})
	if err != nil {
		t.Fatalf("CaptureWindow returned error: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Fatalf("fallback crop size = %dx%d, want 40x40", b.Dx(), b.Dy())
	}
	if px := got.RGBAAt(0, 0); px != desktop.RGBAAt(20, 30) {
		t.Fatalf("fallback crop content mismatch: %+v", px)
	}
}

func TestCaptureWindowEmptyGeometry(t *testing.T) {
	swapBackend(t, fakeBackend{})
	if _, err := CaptureWindow(WindowInfo{Title: "Empty"}, CaptureOptions{}); err == nil {
		t.Fatalf("expected error for empty geometry")
	}
}

func TestCaptureRegionRectEmpty(t *testing.T) {
	if _, err := CaptureRegionRect(image.Rectangle{}, CaptureOptions{}); err == nil {
		t.Fatalf("expected error for empty region")
	}
}

func TestHideWindowRoundTrip(t *testing.T) {
	var calls []mapCall
	swapBackend(t, fakeBackend{
		windows:  []WindowInfo{{ID: 9, Title: "SnapCrab", Class: "snapcrab", Rect: image.Rect(0, 0, 10, 10)}},
		mapCalls: &calls,
	})

	restore, err := HideWindow("SnapCrab", "snapcrab")
	if err != nil {
		t.Fatalf("HideWindow returned error: %v", err)
	}
	if len(calls) != 1 || calls[0] != (mapCall{9, false}) {
		t.Fatalf("expected a single unmap of window 9, got %+v", calls)
	}
	if err := restore(); err != nil {
		t.Fatalf("restore returned error: %v", err)
	}
	if len(calls) != 2 || calls[1] != (mapCall{9, true}) {
		t.Fatalf("expected a remap of window 9, got %+v", calls)
	}
}

func TestHideWindowUnknown(t *testing.T) {
	var calls []mapCall
	swapBackend(t, fakeBackend{
		windows:  []WindowInfo{{ID: 1, Title: "Other", Class: "other"}},
		mapCalls: &calls,
	})

	if _, err := HideWindow("SnapCrab", "snapcrab"); err == nil {
		t.Fatal("expected error for unknown window")
	}
	if len(calls) != 0 {
		t.Fatalf("no mapping calls expected, got %+v", calls)
	}
}

func TestFindWindow(t *testing.T) {
	windows := []WindowInfo{
		{ID: 1, Title: "Notes", Class: "notes"},
		{ID: 2, Title: "Editor", Class: "editor"},
		{ID: 3, Title: "Editor", Class: "other"},
	}

	got, err := FindWindow(windows, "Editor", "editor")
	if err != nil || got.ID != 2 {
		t.Fatalf("FindWindow by title+app = %+v, %v", got, err)
	}
	// Title-only fallback when the app name no longer matches.
	got, err = FindWindow(windows, "Editor", "renamed")
	if err != nil || got.ID != 2 {
		t.Fatalf("FindWindow by title = %+v, %v", got, err)
	}
	if _, err := FindWindow(windows, "Missing", ""); err == nil {
		t.Fatalf("expected error for unknown window")
	}
	if _, err := FindWindow(nil, "Editor", "editor"); !errors.Is(err, errNoWindows) {
		t.Fatalf("expected errNoWindows, got %v", err)
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := []MonitorInfo{
		{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "HDMI-1", Rect: image.Rect(1920, 0, 3840, 1080), Primary: true},
	}

	tests := []struct {
		selector string
		want     int
		wantErr  bool
	}{
		{"", 0, false},
		{"primary", 1, false},
		{"1", 1, false},
		{"#0", 0, false},
		{"hdmi", 1, false},
		{"5", 0, true},
		{"DP-9", 0, true},
	}
	for _, tc := range tests {
		got, err := FindMonitor(monitors, tc.selector)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("selector %q: expected error", tc.selector)
			}
			continue
		}
		if err != nil || got.Index != tc.want {
			t.Fatalf("selector %q = %+v, %v; want index %d", tc.selector, got, err, tc.want)
		}
	}
	if _, err := FindMonitor(nil, ""); !errors.Is(err, errNoMonitors) {
		t.Fatalf("expected errNoMonitors, got %v", err)
	}
}
