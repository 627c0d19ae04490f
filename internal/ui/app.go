// Package ui implements the SnapCrab window: the shiny event loop, the
// per-frame renderer, and the full-screen picking overlays. All capture and
// annotation logic lives in the other internal packages; this package wires
// them to mouse and keyboard input.
package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapcrab/internal/annotate"
	"github.com/example/snapcrab/internal/canvas"
	"github.com/example/snapcrab/internal/capture"
	"github.com/example/snapcrab/internal/clipboard"
	"github.com/example/snapcrab/internal/config"
	"github.com/example/snapcrab/internal/dialog"
	"github.com/example/snapcrab/internal/notify"
	"github.com/example/snapcrab/internal/render"
	"github.com/example/snapcrab/internal/theme"
)

// Mode is the top-level interaction state. Picking modes run a modal
// full-screen overlay; Normal is the annotation window.
type Mode int

const (
	ModeNormal Mode = iota
	ModePickingWindow
	ModePickingArea
)

const appTitle = "SnapCrab"

const messageDuration = 2 * time.Second

// App owns the main window state.
type App struct {
	cfg      *config.Config
	theme    *theme.Theme
	notifier *notify.Notifier
	editor   *canvas.Editor
	shadow   bool

	width, height int
	mode          Mode

	message      string
	messageUntil time.Time

	textInput string
	pointer   annotate.Point
	dragging  bool
	lastDrag  annotate.Point

	layersOpen   bool
	confirmClear bool
	hoverItem    int
	hoverHint    int
	hoverLayer   int

	buttons        map[string]*CacheButton
	actions        map[string]func()
	keyboardAction map[KeyShortcut]string
}

// Option modifies an App during creation.
type Option func(*App)

// WithConfig applies tool defaults and the save directory from configuration.
func WithConfig(cfg *config.Config) Option { return func(a *App) { a.cfg = cfg } }

// WithTheme sets the UI color theme.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.theme = t } }

// WithNotifier sets the desktop notifier for capture/save/copy events.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithShadow enables the drop shadow on saved images.
func WithShadow(enabled bool) Option { return func(a *App) { a.shadow = enabled } }

// New creates the application state. The window is not opened until Run.
func New(opts ...Option) *App {
	a := &App{
		theme:      theme.Default(),
		editor:     canvas.New(),
		hoverItem:  -1,
		hoverHint:  -1,
		hoverLayer: -1,
		buttons:    map[string]*CacheButton{},
	}
	for _, o := range opts {
		o(a)
	}
	if a.cfg != nil {
		a.editor.SetColor(a.cfg.Defaults.Color)
		a.editor.SetThickness(a.cfg.Defaults.Thickness)
		a.editor.SetTextSize(a.cfg.Defaults.TextSize)
	}
	return a
}

// Run executes the UI loop using shiny's driver. It blocks until the window
// closes.
func (a *App) Run() { driver.Main(a.main) }

func (a *App) captureOpts() capture.CaptureOptions {
	opts := capture.CaptureOptions{}
	if a.cfg != nil {
		opts.IncludeCursor = a.cfg.Defaults.IncludeCursor
	}
	return opts
}

func (a *App) saveDir() string {
	if a.cfg != nil {
		return a.cfg.SaveDir
	}
	return ""
}

func (a *App) say(msg string) {
	a.message = msg
	a.messageUntil = time.Now().Add(messageDuration)
	log.Print(msg)
}

// buttonFor returns the cached toolbar button for an action, creating it on
// first use. Activation goes through the same registry as the keyboard.
func (a *App) buttonFor(action, label string) *CacheButton {
	if cb, ok := a.buttons[action]; ok {
		return cb
	}
	act := action
	cb := &CacheButton{Button: &LabelButton{label: label, theme: a.theme, onActivate: func() {
		if fn, ok := a.actions[act]; ok {
			fn()
		}
	}}}
	a.buttons[action] = cb
	return cb
}

// display returns the rectangle the capture occupies in the window.
func (a *App) display() image.Rectangle {
	img := a.editor.Image()
	if img == nil {
		return image.Rectangle{}
	}
	b := img.Bounds()
	return canvasRect(b.Dx(), b.Dy(), a.width, a.height, a.layersOpen)
}

func (a *App) loadCapture(img *image.RGBA, detail string) {
	if img == nil {
		return
	}
	a.editor.LoadImage(img)
	a.textInput = ""
	a.dragging = false
	a.say("captured " + detail)
	a.notifier.Capture(detail, img)
}

func (a *App) saveImage() {
	flat := render.Flatten(a.editor.Image(), a.editor.Annotations())
	if flat == nil {
		a.say("nothing to save")
		return
	}
	if a.shadow {
		flat = render.ApplyShadow(flat, render.DefaultShadowOptions())
	}
	path, err := dialog.SaveFile("screenshot.png")
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			a.say("save cancelled")
			return
		}
		log.Printf("save dialog: %v", err)
		path = dialog.FallbackPath(a.saveDir())
	}
	f, err := os.Create(path)
	if err != nil {
		log.Printf("save: %v", err)
		a.say("save failed")
		return
	}
	if err := png.Encode(f, flat); err != nil {
		log.Printf("save: %v", err)
		if cerr := f.Close(); cerr != nil {
			log.Printf("save: closing file: %v", cerr)
		}
		a.say("save failed")
		return
	}
	if err := f.Close(); err != nil {
		log.Printf("save: closing file: %v", err)
		a.say("save failed")
		return
	}
	a.say(fmt.Sprintf("saved %s", path))
	a.notifier.Save(path)
}

func (a *App) copyImage() {
	flat := render.Flatten(a.editor.Image(), a.editor.Annotations())
	if flat == nil {
		a.say("nothing to copy")
		return
	}
	if err := clipboard.WriteImage(flat); err != nil {
		log.Printf("copy: %v", err)
		a.say("copy failed")
		return
	}
	a.say("image copied to clipboard")
	a.notifier.Copy("image")
}

func (a *App) main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: 1100, Height: 700, Title: appTitle})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	a.width = 1100
	a.height = 700

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			a.drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	a.actions = map[string]func(){}
	a.keyboardAction = map[KeyShortcut]string{}

	register := func(name string, keys KeyboardShortcuts, fn func()) {
		a.actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				a.keyboardAction[sc] = name
			}
		}
	}

	requestQuit := func() {
		w.Send(lifecycle.Event{To: lifecycle.StageDead})
	}

	register("capture-screen", shortcutList{{Rune: 'f'}}, func() {
		img, err := capture.CaptureScreenshot("", a.captureOpts())
		if err != nil {
			log.Printf("capture screenshot: %v", err)
			a.say("capture failed")
			return
		}
		a.loadCapture(img, "screen")
	})

	register("pick-window", shortcutList{{Rune: 'w'}}, func() {
		if capture.RunningOnWayland() {
			a.say("window picking needs X11; capturing full screen")
			img, err := capture.CaptureScreenshot("", a.captureOpts())
			if err != nil {
				log.Printf("capture screenshot: %v", err)
				return
			}
			a.loadCapture(img, "screen")
			return
		}
		a.mode = ModePickingWindow
		img, detail, ok := a.pickWindow(s)
		a.mode = ModeNormal
		if ok {
			a.loadCapture(img, detail)
		}
	})

	register("pick-region", shortcutList{{Rune: 'r'}}, func() {
		a.mode = ModePickingArea
		img, ok := a.pickArea(s)
		a.mode = ModeNormal
		if ok {
			a.loadCapture(img, "region")
		}
	})

	register("tool-arrow", shortcutList{{Rune: 'a'}}, func() { a.editor.SetTool(canvas.ToolArrow) })
	register("tool-box", shortcutList{{Rune: 'x'}}, func() { a.editor.SetTool(canvas.ToolRect) })
	register("tool-text", shortcutList{{Rune: 't'}}, func() { a.editor.SetTool(canvas.ToolText) })
	register("tool-crop", shortcutList{{Rune: 'c'}}, func() { a.editor.SetTool(canvas.ToolCrop) })

	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, a.saveImage)
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, a.copyImage)

	register("layers", shortcutList{{Rune: 'l'}}, func() { a.layersOpen = !a.layersOpen })
	register("clear", shortcutList{{Rune: 'd'}}, func() { a.editor.Clear() })
	register("remove", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, func() {
		a.editor.Remove(a.editor.ActiveIndex())
	})
	register("quit", shortcutList{{Rune: 'q'}}, requestQuit)

	register("text-commit", nil, func() {
		a.editor.CommitText(a.textInput)
		a.textInput = ""
	})
	register("text-cancel", nil, func() {
		a.editor.CancelText()
		a.textInput = ""
	})

	trigger := func(action string) {
		if fn, ok := a.actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			a.width = e.WidthPx
			a.height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := a.snapshot()
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			a.handleMouse(e, trigger, w)
		case key.Event:
			a.handleKey(e, trigger, w)
		}
	}
}

// snapshot builds the immutable frame state handed to the paint goroutine.
func (a *App) snapshot() paintState {
	st := paintState{
		width:        a.width,
		height:       a.height,
		theme:        a.theme,
		img:          a.editor.Image(),
		annotations:  append([]annotate.Annotation(nil), a.editor.Annotations()...),
		active:       a.editor.ActiveIndex(),
		tool:         a.editor.Tool(),
		color:        a.editor.Color(),
		thickness:    a.editor.Thickness(),
		textSize:     a.editor.TextSize(),
		textInput:    a.textInput,
		layersOpen:   a.layersOpen,
		hoverItem:    a.hoverItem,
		hoverHint:    a.hoverHint,
		hoverLayer:   a.hoverLayer,
		message:      a.message,
		messageUntil: a.messageUntil,
	}
	if anchor, editing := a.editor.EditingText(); editing {
		st.textEditing = true
		st.textAnchor = anchor
	}
	if a.dragging {
		if pv, ok := a.editor.PreviewAnnotation(a.pointer, a.display()); ok {
			st.preview = &pv
		}
	}
	return st
}

// eventSender is the part of screen.Window the input handlers use.
type eventSender interface {
	Send(event interface{})
}

func (a *App) handleMouse(e mouse.Event, trigger func(string), w eventSender) {
	p := image.Pt(int(e.X), int(e.Y))

	// Only a click on the snackbar itself dismisses it; everywhere else the
	// press keeps its normal meaning and the message times out on its own.
	if a.message != "" && time.Now().Before(a.messageUntil) && e.Direction == mouse.DirPress {
		if p.In(messageRect(a.message, a.width, a.height)) {
			a.messageUntil = time.Time{}
			w.Send(paint.Event{})
			return
		}
	}

	if p.Y >= a.height-statusHeight {
		a.hoverItem, a.hoverLayer = -1, -1
		hints := layoutStatus(a.width, a.height, a.textEditing())
		a.hoverHint = hitStatus(hints, p)
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && a.hoverHint >= 0 {
			trigger(hints[a.hoverHint].action)
		}
		if e.Direction == mouse.DirNone {
			w.Send(paint.Event{})
		}
		return
	}

	if p.X < toolbarWidth {
		a.hoverHint, a.hoverLayer = -1, -1
		items := layoutToolbar(a.editor.Tool())
		a.hoverItem = hitToolbar(items, p)
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && a.hoverItem >= 0 {
			it := items[a.hoverItem]
			switch it.kind {
			case itemButton:
				trigger(it.action)
			case itemColor:
				a.editor.SetColor(it.color)
			case itemThickness:
				a.editor.SetThickness(it.value)
			case itemTextSize:
				a.editor.SetTextSize(it.value)
			}
			w.Send(paint.Event{})
		}
		if e.Direction == mouse.DirNone {
			w.Send(paint.Event{})
		}
		return
	}

	if a.layersOpen && p.X >= a.width-layersWidth {
		a.hoverItem, a.hoverHint = -1, -1
		rows := layoutLayers(len(a.editor.Annotations()), a.width, a.height)
		a.hoverLayer = hitLayers(rows, p)
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && a.hoverLayer >= 0 {
			row := rows[a.hoverLayer]
			if p.In(row.deleteBox) {
				a.editor.Remove(row.index)
			} else {
				a.editor.SetActive(row.index)
			}
			w.Send(paint.Event{})
		}
		if e.Direction == mouse.DirNone {
			w.Send(paint.Event{})
		}
		return
	}

	a.hoverItem, a.hoverHint, a.hoverLayer = -1, -1, -1
	if a.editor.Image() == nil {
		return
	}
	display := a.display()
	pos := annotate.Pt(float64(e.X), float64(e.Y))
	a.pointer = pos

	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return
		}
		// A click elsewhere commits an open text prompt, as focus loss does.
		if a.textEditing() {
			a.editor.CommitText(a.textInput)
			a.textInput = ""
		}
		a.editor.DragStart(pos, display)
		if a.textEditing() {
			a.textInput = ""
		}
		a.dragging = true
		a.lastDrag = pos
		w.Send(paint.Event{})
	case mouse.DirNone:
		if a.dragging {
			a.editor.DragMove(pos.Sub(a.lastDrag), display)
			a.lastDrag = pos
			w.Send(paint.Event{})
		}
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || !a.dragging {
			return
		}
		a.dragging = false
		a.editor.DragEnd(pos, display)
		w.Send(paint.Event{})
	}
}

func (a *App) textEditing() bool {
	_, editing := a.editor.EditingText()
	return editing
}

func (a *App) handleKey(e key.Event, trigger func(string), w eventSender) {
	if e.Direction != key.DirPress {
		return
	}
	if a.textEditing() {
		switch e.Code {
		case key.CodeReturnEnter:
			trigger("text-commit")
			return
		case key.CodeEscape:
			trigger("text-cancel")
			return
		case key.CodeDeleteBackspace:
			if len(a.textInput) > 0 {
				a.textInput = a.textInput[:len(a.textInput)-1]
				w.Send(paint.Event{})
			}
			return
		}
		if e.Rune > 0 && !unicode.IsControl(e.Rune) {
			a.textInput += string(e.Rune)
			w.Send(paint.Event{})
		}
		return
	}

	// Printable keys match on rune, the rest on key code, so shortcuts can
	// be declared either way.
	ks := KeyShortcut{Modifiers: e.Modifiers}
	if e.Rune > 0 {
		ks.Rune = unicode.ToLower(e.Rune)
	} else {
		ks.Code = e.Code
	}
	if action, ok := a.keyboardAction[ks]; ok {
		if action == "clear" {
			if !a.confirmClear {
				a.confirmClear = true
				a.say("press D again to clear annotations")
				w.Send(paint.Event{})
				return
			}
			a.confirmClear = false
		} else {
			a.confirmClear = false
		}
		trigger(action)
		return
	}
	a.confirmClear = false
	if e.Code == key.CodeEscape {
		a.editor.SetActive(-1)
		w.Send(paint.Event{})
	}
}
