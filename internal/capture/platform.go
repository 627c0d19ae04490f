// Package capture produces screenshots of the desktop, individual monitors
// and top-level windows. On Unix it talks to the XDG desktop portal first and
// falls back to direct capture when no portal is available.
package capture

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
	ListWindows() ([]WindowInfo, error)
	CaptureWindowImage(uint32) (*image.RGBA, error)
	CaptureMonitorImage(MonitorInfo) (*image.RGBA, error)
	SetWindowMapped(id uint32, mapped bool) error
}

var backend = newBackend()

var (
	errNoMonitors = errors.New("no monitors available")
	errNoWindows  = errors.New("no windows available")
)

// CaptureOptions tweaks how a screenshot is taken.
type CaptureOptions struct {
	IncludeCursor bool
}

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// WindowInfo describes a top-level window available for capture.
type WindowInfo struct {
	ID         uint32
	Title      string
	Class      string
	Instance   string
	PID        uint32
	Executable string
	Rect       image.Rectangle
	Minimized  bool
	Active     bool
}

// ListMonitors retrieves all monitors using the platform backend.
func ListMonitors() ([]MonitorInfo, error) {
	return backend.ListMonitors()
}

// ListWindows retrieves the available top-level windows using the platform backend.
func ListWindows() ([]WindowInfo, error) {
	return backend.ListWindows()
}

// FindMonitor resolves a monitor selector against the provided list. An empty
// selector picks the first monitor; "primary" prefers the primary output; a
// number selects by index; anything else matches the output name.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	sel = strings.TrimPrefix(sel, "#")
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// FindWindow locates a window by title and application name. The picker works
// from a frozen snapshot, so by the time the user clicks the window list may
// have shifted; matching by title+app rather than ID tolerates restacking.
func FindWindow(windows []WindowInfo, title, app string) (WindowInfo, error) {
	if len(windows) == 0 {
		return WindowInfo{}, errNoWindows
	}
	for _, win := range windows {
		if win.Title == title && (win.Class == app || win.Executable == app) {
			return win, nil
		}
	}
	for _, win := range windows {
		if win.Title == title {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window %q not found", title)
}
