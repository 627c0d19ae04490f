package theme

import "embed"

// EmbeddedThemes holds the themes shipped with the binary. They are always
// available regardless of what is installed on the system.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
