package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/snapcrab/internal/config"
	"github.com/example/snapcrab/internal/notify"
	"github.com/example/snapcrab/internal/theme"
	"github.com/example/snapcrab/internal/ui"
)

var (
	version            = "dev"
	configPathOverride = ""
)

func main() {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	fs := flag.NewFlagSet("snapcrab", flag.ExitOnError)
	captureAlerts := fs.Bool("notify-capture", cfg.Notify.Capture, "show a desktop notification after capturing a screenshot")
	saveAlerts := fs.Bool("notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	copyAlerts := fs.Bool("notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	themeName := fs.String("theme", "", "color theme to use (default, dark, high_contrast, or a file path)")
	shadow := fs.Bool("shadow", false, "add a drop shadow to saved images")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if *showVersion {
		fmt.Printf("snapcrab version %s\n", version)
		return
	}

	notifier := notify.New(notify.LoadPreferences())
	notifier.Enable(notify.EventCapture, *captureAlerts)
	notifier.Enable(notify.EventSave, *saveAlerts)
	notifier.Enable(notify.EventCopy, *copyAlerts)

	// Precedence: CLI > Env > Config > Default
	name := *themeName
	if name == "" {
		name = os.Getenv("SNAPCRAB_THEME")
	}
	if name == "" {
		name = cfg.Theme
	}

	var t *theme.Theme
	if cfgTheme, ok := cfg.Themes[name]; ok {
		t = cfgTheme
	} else {
		var loadErr error
		t, loadErr = theme.NewLoader().Load(name)
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme %q: %v\n", name, loadErr)
			t = theme.Default()
		}
	}

	app := ui.New(
		ui.WithConfig(cfg),
		ui.WithTheme(t),
		ui.WithNotifier(notifier),
		ui.WithShadow(*shadow),
	)
	app.Run()
}
