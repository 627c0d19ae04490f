package dialog

import (
	"os"
	"path/filepath"
	"time"
)

var now = time.Now

// FallbackPath builds a timestamped destination inside dir for when no file
// chooser is available. An empty dir resolves to the user's Pictures folder,
// or the home directory if that does not exist.
func FallbackPath(dir string) string {
	if dir == "" {
		home, _ := os.UserHomeDir()
		pictures := filepath.Join(home, "Pictures")
		if _, err := os.Stat(pictures); err == nil {
			dir = pictures
		} else {
			dir = home
		}
	}
	name := now().Format("snapcrab-2006-01-02-150405.png")
	return filepath.Join(dir, name)
}
