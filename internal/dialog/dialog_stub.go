//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package dialog

import "fmt"

// ErrCancelled is returned when the user dismisses the save dialog.
var ErrCancelled = fmt.Errorf("save dialog cancelled")

func SaveFile(string) (string, error) {
	return "", fmt.Errorf("save dialog is not supported on this platform")
}
