package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapcrab/internal/annotate"
	"github.com/example/snapcrab/internal/canvas"
	"github.com/example/snapcrab/internal/capture"
	"github.com/example/snapcrab/internal/picker"
)

// pickDelay gives the compositor time to settle after the main window is
// hidden, before the frozen snapshot is taken.
var pickDelay = 350 * time.Millisecond

// selfApp is the application name excluded from window candidates so the
// picker never offers SnapCrab's own windows.
const selfApp = "snapcrab"

// Swappable for tests.
var (
	hideWindow  = capture.HideWindow
	snapDesktop = capture.CaptureScreenshot
)

var maskColor = color.RGBA{0, 0, 0, 180}

// overlayGeom maps between the overlay window, the frozen snapshot, and
// global screen coordinates. The snapshot's bounds origin is the global
// origin of the captured desktop.
type overlayGeom struct {
	shot    *image.RGBA
	mapper  canvas.Mapper
	display image.Rectangle
}

func newOverlayGeom(shot *image.RGBA, winW, winH int) overlayGeom {
	b := shot.Bounds()
	return overlayGeom{
		shot:    shot,
		mapper:  canvas.Mapper{ImageW: b.Dx(), ImageH: b.Dy()},
		display: canvas.FitRect(b.Dx(), b.Dy(), image.Rect(0, 0, winW, winH)),
	}
}

func (g overlayGeom) toGlobal(x, y float32) image.Point {
	p := g.mapper.ToImage(annotate.Pt(float64(x), float64(y)), g.display)
	return image.Pt(int(p.X), int(p.Y)).Add(g.shot.Bounds().Min)
}

func (g overlayGeom) fromGlobal(r image.Rectangle) image.Rectangle {
	origin := g.shot.Bounds().Min
	min := g.mapper.ToDisplay(annotate.Pt(float64(r.Min.X-origin.X), float64(r.Min.Y-origin.Y)), g.display)
	max := g.mapper.ToDisplay(annotate.Pt(float64(r.Max.X-origin.X), float64(r.Max.Y-origin.Y)), g.display)
	return image.Rect(int(min.X), int(min.Y), int(max.X), int(max.Y))
}

// freezeDesktop hides the main window, waits for the compositor to settle
// and snapshots the whole desktop as the picking background. The window is
// restored before the overlay opens.
func (a *App) freezeDesktop() (*image.RGBA, error) {
	restore, err := hideWindow(appTitle, selfApp)
	if err != nil {
		log.Printf("hide window: %v", err)
	} else {
		defer func() {
			if err := restore(); err != nil {
				log.Printf("%v", err)
			}
		}()
	}
	time.Sleep(pickDelay)
	return snapDesktop("", a.captureOpts())
}

// pickWindow runs the modal window picker. It returns the captured image, a
// human-readable detail for the notification, and whether a capture was
// made.
func (a *App) pickWindow(s screen.Screen) (*image.RGBA, string, bool) {
	shot, err := a.freezeDesktop()
	if err != nil {
		log.Printf("picking snapshot: %v", err)
		a.say("capture failed")
		return nil, "", false
	}
	wins, err := capture.ListWindows()
	if err != nil {
		log.Printf("list windows: %v", err)
	}
	cands := picker.Candidates(wins, selfApp)

	b := shot.Bounds()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: b.Dx(), Height: b.Dy(), Title: "SnapCrab: pick a window"})
	if err != nil {
		log.Printf("picker window: %v", err)
		return nil, "", false
	}
	defer w.Release()

	winW, winH := b.Dx(), b.Dy()
	hover := -1
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil, "", false
			}
		case size.Event:
			winW, winH = e.WidthPx, e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			g := newOverlayGeom(shot, winW, winH)
			drawWindowOverlay(s, w, g, cands, hover, winW, winH)
		case key.Event:
			if e.Direction == key.DirPress && e.Code == key.CodeEscape {
				return nil, "", false
			}
		case mouse.Event:
			g := newOverlayGeom(shot, winW, winH)
			gp := g.toGlobal(e.X, e.Y)
			if e.Direction == mouse.DirNone {
				if h := picker.HoverIndex(cands, gp); h != hover {
					hover = h
					w.Send(paint.Event{})
				}
				continue
			}
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && hover >= 0 {
				cand := cands[hover]
				img, err := capture.CaptureWindowByTitleApp(cand.Title, cand.App, a.captureOpts())
				if err != nil {
					// The window may have moved or closed since the
					// snapshot; fall back to its frozen pixels.
					log.Printf("window capture: %v", err)
					img = picker.CropTo(shot, cand.Rect)
				}
				if img == nil {
					return nil, "", false
				}
				return img, fmt.Sprintf("window %q", cand.Title), true
			}
		}
	}
}

// pickArea runs the modal drag-to-select region picker.
func (a *App) pickArea(s screen.Screen) (*image.RGBA, bool) {
	shot, err := a.freezeDesktop()
	if err != nil {
		log.Printf("picking snapshot: %v", err)
		a.say("capture failed")
		return nil, false
	}

	b := shot.Bounds()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: b.Dx(), Height: b.Dy(), Title: "SnapCrab: select a region"})
	if err != nil {
		log.Printf("picker window: %v", err)
		return nil, false
	}
	defer w.Release()

	winW, winH := b.Dx(), b.Dy()
	var dragStart *image.Point
	var dragCur image.Point
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil, false
			}
		case size.Event:
			winW, winH = e.WidthPx, e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			g := newOverlayGeom(shot, winW, winH)
			var sel image.Rectangle
			if dragStart != nil {
				sel = image.Rect(dragStart.X, dragStart.Y, dragCur.X, dragCur.Y)
			}
			drawAreaOverlay(s, w, g, dragStart != nil, sel, winW, winH)
		case key.Event:
			if e.Direction == key.DirPress && e.Code == key.CodeEscape {
				return nil, false
			}
		case mouse.Event:
			g := newOverlayGeom(shot, winW, winH)
			gp := g.toGlobal(e.X, e.Y)
			switch e.Direction {
			case mouse.DirPress:
				if e.Button == mouse.ButtonLeft {
					p := gp
					dragStart = &p
					dragCur = gp
					w.Send(paint.Event{})
				}
			case mouse.DirNone:
				if dragStart != nil {
					dragCur = gp
					w.Send(paint.Event{})
				}
			case mouse.DirRelease:
				if e.Button != mouse.ButtonLeft || dragStart == nil {
					continue
				}
				sel := image.Rect(dragStart.X, dragStart.Y, gp.X, gp.Y)
				if !picker.ValidArea(sel) {
					return nil, false
				}
				return picker.CropTo(shot, sel), true
			}
		}
	}
}

func drawWindowOverlay(s screen.Screen, w screen.Window, g overlayGeom, cands []picker.Window, hover, winW, winH int) {
	buf, err := s.NewBuffer(image.Point{winW, winH})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer buf.Release()
	dst := buf.RGBA()

	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	xdraw.NearestNeighbor.Scale(dst, g.display, g.shot, g.shot.Bounds(), draw.Src, nil)

	if hover < 0 {
		draw.Draw(dst, g.display, &image.Uniform{maskColor}, image.Point{}, draw.Over)
		drawSmallText(dst, g.display.Min.X+8, g.display.Min.Y+8,
			"click a window to capture, Esc to cancel", color.White)
	} else {
		cand := cands[hover]
		sel := g.fromGlobal(cand.Rect).Intersect(g.display)
		for _, m := range picker.MaskRects(g.display, sel) {
			if !m.Empty() {
				draw.Draw(dst, m, &image.Uniform{maskColor}, image.Point{}, draw.Over)
			}
		}
		drawBorder(dst, sel, color.White, 2)

		label := cand.Title
		if cand.App != "" {
			label = fmt.Sprintf("%s [%s]", cand.Title, cand.App)
		}
		lw := smallTextWidth(label)
		lx, ly := sel.Min.X, sel.Min.Y-18
		if ly < g.display.Min.Y {
			ly = sel.Min.Y + 2
		}
		draw.Draw(dst, image.Rect(lx, ly, lx+lw+8, ly+16), image.Black, image.Point{}, draw.Over)
		drawSmallText(dst, lx+4, ly+2, label, color.White)
	}

	w.Upload(image.Point{}, buf, buf.Bounds())
	w.Publish()
}

func drawAreaOverlay(s screen.Screen, w screen.Window, g overlayGeom, dragging bool, globalSel image.Rectangle, winW, winH int) {
	buf, err := s.NewBuffer(image.Point{winW, winH})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer buf.Release()
	dst := buf.RGBA()

	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	xdraw.NearestNeighbor.Scale(dst, g.display, g.shot, g.shot.Bounds(), draw.Src, nil)

	if !dragging {
		drawSmallText(dst, g.display.Min.X+8, g.display.Min.Y+8,
			"drag to select a region, Esc to cancel", color.White)
	} else {
		sel := g.fromGlobal(globalSel).Intersect(g.display)
		for _, m := range picker.MaskRects(g.display, sel) {
			if !m.Empty() {
				draw.Draw(dst, m, &image.Uniform{maskColor}, image.Point{}, draw.Over)
			}
		}
		drawDashedRect(dst, sel, 4, 2, color.White, color.Black)

		dims := fmt.Sprintf("%d x %d", globalSel.Dx(), globalSel.Dy())
		drawSmallText(dst, sel.Min.X+4, sel.Max.Y+4, dims, color.White)
	}

	w.Upload(image.Point{}, buf, buf.Bounds())
	w.Publish()
}
