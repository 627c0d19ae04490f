package ui

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/example/snapcrab/assets"
	"github.com/example/snapcrab/internal/annotate"
	"github.com/example/snapcrab/internal/canvas"
	"github.com/example/snapcrab/internal/render"
	"github.com/example/snapcrab/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// paintState is an immutable snapshot of everything one frame needs. The
// event loop builds it and hands it to the paint goroutine so a slow frame
// never blocks input handling.
type paintState struct {
	width, height int
	theme         *theme.Theme

	img         *image.RGBA
	annotations []annotate.Annotation
	active      int
	preview     *annotate.Annotation

	tool      canvas.Tool
	color     color.RGBA
	thickness float64
	textSize  float64

	textEditing bool
	textInput   string
	textAnchor  annotate.Point

	layersOpen bool
	hoverItem  int
	hoverHint  int
	hoverLayer int

	message      string
	messageUntil time.Time
}

func (a *App) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), &image.Uniform{st.theme.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	if st.img == nil {
		drawEmptyState(dst, st)
	} else {
		drawCanvas(dst, st)
	}
	if ctx.Err() != nil {
		return
	}

	a.drawToolbar(dst, st)
	if ctx.Err() != nil {
		return
	}

	if st.layersOpen {
		drawLayers(dst, st)
	}
	drawStatusBar(dst, st)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawEmptyState(dst *image.RGBA, st paintState) {
	cx := toolbarWidth + (st.width-toolbarWidth)/2
	if icon, err := assets.IconImage(64); err == nil {
		ib := icon.Bounds()
		r := image.Rect(cx-ib.Dx()/2, st.height/2-110, cx+ib.Dx()/2, st.height/2-110+ib.Dy())
		draw.Draw(dst, r, icon, ib.Min, draw.Over)
	}

	face := render.Face(32)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: face}
	title := "SnapCrab"
	tw := d.MeasureString(title).Ceil()
	d.Dot = fixed.P(cx-tw/2, st.height/2-10)
	d.DrawString(title)

	hint := "Select a capture mode to begin"
	hw := smallTextWidth(hint)
	drawSmallText(dst, cx-hw/2, st.height/2+8, hint, st.theme.Foreground)
}

func drawCanvas(dst *image.RGBA, st paintState) {
	ib := st.img.Bounds()
	display := canvasRect(ib.Dx(), ib.Dy(), st.width, st.height, st.layersOpen)
	if display.Empty() {
		return
	}
	drawCheckerboard(dst, display, 8, st.theme.CheckerLight, st.theme.CheckerDark)
	xdraw.NearestNeighbor.Scale(dst, display, st.img, ib, draw.Over, nil)

	m := canvas.Mapper{ImageW: ib.Dx(), ImageH: ib.Dy()}
	render.Annotations(dst, display, m, st.annotations, st.active)

	scale := m.Scale(display)
	if st.preview != nil {
		dc := gg.NewContextForRGBA(dst)
		render.Annotation(dc, st.preview, m, display, scale)
	}
	if st.textEditing {
		p := m.ToDisplay(st.textAnchor, display)
		face := render.Face(st.textSize * scale)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.color), Face: face}
		d.Dot = fixed.P(int(p.X), int(p.Y)+face.Metrics().Ascent.Ceil())
		d.DrawString(st.textInput + "|")
	}
}

func (a *App) drawToolbar(dst *image.RGBA, st paintState) {
	draw.Draw(dst, image.Rect(0, 0, toolbarWidth, st.height),
		&image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	drawSmallText(dst, 4, 4, "SnapCrab", st.theme.Foreground)

	items := layoutToolbar(st.tool)
	for i, it := range items {
		switch it.kind {
		case itemButton:
			cb := a.buttonFor(it.action, it.label)
			cb.SetRect(it.rect)
			state := StateDefault
			if buttonActive(it.action, st) {
				state = StatePressed
			} else if i == st.hoverItem {
				state = StateHover
			}
			cb.Draw(dst, state)
		case itemColor:
			draw.Draw(dst, it.rect, &image.Uniform{it.color}, image.Point{}, draw.Src)
			if i == st.hoverItem {
				draw.Draw(dst, it.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
			}
			if it.color == st.color {
				drawBorder(dst, it.rect, st.theme.ButtonBorder, 2)
			}
		case itemThickness:
			bg := st.theme.ButtonBackground
			if it.value == st.thickness {
				bg = st.theme.ButtonBackgroundPress
			} else if i == st.hoverItem {
				bg = st.theme.ButtonBackgroundHover
			}
			draw.Draw(dst, it.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
			drawSmallText(dst, 4, it.rect.Min.Y+2, it.label, st.theme.ButtonText)
			lineY := (it.rect.Min.Y + it.rect.Max.Y) / 2
			drawHLine(dst, 34, toolbarWidth-4, lineY-int(it.value)/2, int(it.value), st.color)
		case itemTextSize:
			bg := st.theme.ButtonBackground
			if it.value == st.textSize {
				bg = st.theme.ButtonBackgroundPress
			} else if i == st.hoverItem {
				bg = st.theme.ButtonBackgroundHover
			}
			draw.Draw(dst, it.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
			drawSmallText(dst, 4, it.rect.Min.Y+6, it.label, st.theme.ButtonText)
		}
	}
}

// buttonActive reports whether a toolbar button should render pressed to
// reflect current state rather than a click in progress.
func buttonActive(action string, st paintState) bool {
	switch action {
	case "tool-arrow":
		return st.tool == canvas.ToolArrow
	case "tool-box":
		return st.tool == canvas.ToolRect
	case "tool-text":
		return st.tool == canvas.ToolText
	case "tool-crop":
		return st.tool == canvas.ToolCrop
	case "layers":
		return st.layersOpen
	}
	return false
}

func drawLayers(dst *image.RGBA, st paintState) {
	panel := image.Rect(st.width-layersWidth, 0, st.width, st.height-statusHeight)
	draw.Draw(dst, panel, &image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	drawVLine(dst, panel.Min.X, panel.Min.Y, panel.Max.Y, 1, st.theme.ButtonBorder)
	drawSmallText(dst, panel.Min.X+6, 4, "Layers", st.theme.Foreground)

	if len(st.annotations) == 0 {
		drawSmallText(dst, panel.Min.X+6, layerRowH+4, "no annotations", st.theme.Foreground)
		return
	}
	rows := layoutLayers(len(st.annotations), st.width, st.height)
	for i, row := range rows {
		bg := st.theme.TabBackground
		if row.index == st.active {
			bg = st.theme.TabActive
		} else if i == st.hoverLayer {
			bg = st.theme.TabHover
		}
		draw.Draw(dst, row.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
		ann := st.annotations[row.index]
		drawSmallText(dst, row.rect.Min.X+6, row.rect.Min.Y+4, ann.Label(), st.theme.TabText)
		drawSmallText(dst, row.deleteBox.Min.X+6, row.deleteBox.Min.Y+4, "x", st.theme.TabText)
	}
}

func drawStatusBar(dst *image.RGBA, st paintState) {
	bar := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, bar, &image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	for i, h := range layoutStatus(st.width, st.height, st.textEditing) {
		bg := st.theme.ButtonBackground
		if i == st.hoverHint {
			bg = st.theme.ButtonBackgroundHover
		}
		draw.Draw(dst, h.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
		drawBorder(dst, h.rect, st.theme.ButtonBorder, 1)
		drawSmallText(dst, h.rect.Min.X+2, h.rect.Min.Y+3, h.label, st.theme.ButtonText)
	}
}

// messageRect returns the snackbar footprint for msg in a window of the
// given size. Mouse handling hit-tests dismissal against the same rectangle.
func messageRect(msg string, width, height int) image.Rectangle {
	face := render.Face(20)
	d := &font.Drawer{Face: face}
	w := d.MeasureString(msg).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	px := (width - w) / 2
	py := height - statusHeight - 40
	return image.Rect(px-8, py-ascent-6, px+w+8, py+descent+6)
}

// drawMessage renders the transient snackbar centred over the canvas.
func drawMessage(dst *image.RGBA, st paintState) {
	face := render.Face(20)
	rect := messageRect(st.message, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	drawBorder(dst, rect, st.theme.ButtonBorder, 2)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: face}
	d.Dot = fixed.P(rect.Min.X+8, rect.Max.Y-face.Metrics().Descent.Ceil()-6)
	d.DrawString(st.message)
}
