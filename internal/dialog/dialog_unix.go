//go:build linux || freebsd || openbsd || netbsd || dragonfly

// Package dialog asks the user where to save a capture. It uses the XDG
// desktop portal FileChooser when available and falls back to a timestamped
// path in the configured save directory.
package dialog

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

var saveHandleToken = newSaveHandleToken

// ErrCancelled is returned when the user dismisses the save dialog.
var ErrCancelled = fmt.Errorf("save dialog cancelled")

// SaveFile opens the portal file chooser preconfigured for PNG output and
// returns the chosen path.
func SaveFile(defaultName string) (string, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return "", fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "dbus close: %v\n", cerr)
		}
	}()

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	opts := saveFileOptions(defaultName)
	var handle dbus.ObjectPath
	call := obj.Call("org.freedesktop.portal.FileChooser.SaveFile", 0, "", "Save Screenshot", opts)
	if call.Err != nil {
		return "", fmt.Errorf("portal save dialog call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return "", fmt.Errorf("portal save dialog response: %w", err)
	}

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return "", fmt.Errorf("portal save dialog subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for sig := range sigc {
		if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
			continue
		}
		if len(sig.Body) < 2 {
			break
		}
		code, _ := sig.Body[0].(uint32)
		if code != 0 {
			return "", ErrCancelled
		}
		res, _ := sig.Body[1].(map[string]dbus.Variant)
		urisVar, ok := res["uris"]
		if !ok {
			break
		}
		uris, _ := urisVar.Value().([]string)
		if len(uris) == 0 {
			break
		}
		return uriToPath(uris[0])
	}
	return "", fmt.Errorf("portal save dialog: response missing file location")
}

func newSaveHandleToken() string {
	return fmt.Sprintf("snapcrab-%d", time.Now().UnixNano())
}

func saveFileOptions(defaultName string) map[string]dbus.Variant {
	if defaultName == "" {
		defaultName = "screenshot.png"
	}
	pngFilter := []struct {
		Name    string
		Entries []struct {
			Kind  uint32
			Value string
		}
	}{
		{
			Name: "PNG images",
			Entries: []struct {
				Kind  uint32
				Value string
			}{{Kind: 1, Value: "image/png"}},
		},
	}
	return map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(saveHandleToken()),
		"current_name": dbus.MakeVariant(defaultName),
		"filters":      dbus.MakeVariant(pngFilter),
	}
}

func uriToPath(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return "", fmt.Errorf("unexpected uri scheme in %q", uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	return u.Path, nil
}
