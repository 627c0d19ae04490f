package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/snapcrab/internal/canvas"
)

const (
	toolbarWidth = 120
	statusHeight = 24
	layersWidth  = 180
	canvasPad    = 8
	buttonHeight = 24
	swatchSize   = 16
	swatchGap    = 2
	layerRowH    = 20
)

// palette lists the stroke colors offered in the toolbar. The editor default
// (red) sits at index 2.
var palette = []color.RGBA{
	{0, 0, 0, 255},
	{255, 255, 255, 255},
	{255, 0, 0, 255},
	{255, 165, 0, 255},
	{255, 255, 0, 255},
	{0, 200, 0, 255},
	{0, 128, 255, 255},
	{255, 0, 255, 255},
}

var thicknessOptions = []float64{1, 2, 4, 6, 8, 12}
var textSizeOptions = []float64{12, 16, 20, 24, 32, 48}

type itemKind int

const (
	itemButton itemKind = iota
	itemColor
	itemThickness
	itemTextSize
)

// toolbarItem is one interactive cell in the left toolbar. Buttons carry an
// action name for the registry; the option kinds carry the value they set.
type toolbarItem struct {
	kind   itemKind
	rect   image.Rectangle
	action string
	label  string
	color  color.RGBA
	value  float64
}

// layoutToolbar computes the toolbar cells for the current tool. The same
// layout is used to paint the frame and to hit-test mouse events, so the two
// can never disagree.
func layoutToolbar(tool canvas.Tool) []toolbarItem {
	var items []toolbarItem
	y := 20 // below the program title

	button := func(action, label string) {
		items = append(items, toolbarItem{
			kind:   itemButton,
			rect:   image.Rect(0, y, toolbarWidth, y+buttonHeight),
			action: action,
			label:  label,
		})
		y += buttonHeight
	}

	button("capture-screen", "F:Screen")
	button("pick-window", "W:Window")
	button("pick-region", "R:Region")
	y += 4

	button("tool-arrow", "A:Arrow")
	button("tool-box", "X:Box")
	button("tool-text", "T:Text")
	button("tool-crop", "C:Crop")
	y += 4

	x := canvasPad / 2
	for _, c := range palette {
		step := swatchSize + swatchGap
		if x+swatchSize > toolbarWidth-canvasPad/2 {
			x = canvasPad / 2
			y += step
		}
		items = append(items, toolbarItem{
			kind:  itemColor,
			rect:  image.Rect(x, y, x+swatchSize, y+swatchSize),
			color: c,
		})
		x += step
	}
	y += swatchSize + swatchGap + 4

	switch tool {
	case canvas.ToolArrow, canvas.ToolRect:
		for _, t := range thicknessOptions {
			items = append(items, toolbarItem{
				kind:  itemThickness,
				rect:  image.Rect(0, y, toolbarWidth, y+16),
				label: fmt.Sprintf("%g", t),
				value: t,
			})
			y += 16
		}
	case canvas.ToolText:
		for _, s := range textSizeOptions {
			items = append(items, toolbarItem{
				kind:  itemTextSize,
				rect:  image.Rect(0, y, toolbarWidth, y+buttonHeight),
				label: fmt.Sprintf("%gpt", s),
				value: s,
			})
			y += buttonHeight
		}
	}
	y += 4

	button("save", "^S:Save")
	button("copy", "^C:Copy")
	button("layers", "L:Layers")
	button("clear", "D:Clear")

	return items
}

func hitToolbar(items []toolbarItem, p image.Point) int {
	for i, it := range items {
		if p.In(it.rect) {
			return i
		}
	}
	return -1
}

// statusHint is a clickable shortcut reminder in the bottom bar.
type statusHint struct {
	rect   image.Rectangle
	action string
	label  string
}

// layoutStatus lays out the bottom shortcut bar. While the text prompt is
// open only its two bindings are shown.
func layoutStatus(width, height int, textEditing bool) []statusHint {
	var labels [][2]string
	if textEditing {
		labels = [][2]string{
			{"text-commit", "Enter:place"},
			{"text-cancel", "Esc:cancel"},
		}
	} else {
		labels = [][2]string{
			{"capture-screen", "F:screen"},
			{"pick-window", "W:window"},
			{"pick-region", "R:region"},
			{"copy", "^C:copy"},
			{"save", "^S:save"},
			{"remove", "Del:remove"},
			{"quit", "Q:quit"},
		}
	}
	hints := make([]statusHint, 0, len(labels))
	x := toolbarWidth + 4
	y := height - statusHeight + 16
	for _, l := range labels {
		w := measureLabel(l[1])
		hints = append(hints, statusHint{
			rect:   image.Rect(x-2, y-14, x+w+2, y+4),
			action: l[0],
			label:  l[1],
		})
		x += w + 12
		if x >= width {
			break
		}
	}
	return hints
}

func hitStatus(hints []statusHint, p image.Point) int {
	for i, h := range hints {
		if p.In(h.rect) {
			return i
		}
	}
	return -1
}

// layerRow is one entry in the layers panel. index is the annotation index
// the row refers to; rows run newest-first so row 0 shows the last
// annotation.
type layerRow struct {
	index     int
	rect      image.Rectangle
	deleteBox image.Rectangle
}

// layoutLayers computes the panel rows for count annotations in a window of
// the given size.
func layoutLayers(count, width, height int) []layerRow {
	rows := make([]layerRow, 0, count)
	x0 := width - layersWidth
	y := layerRowH // header row above
	for i := 0; i < count; i++ {
		if y+layerRowH > height-statusHeight {
			break
		}
		rows = append(rows, layerRow{
			index:     count - 1 - i,
			rect:      image.Rect(x0, y, width, y+layerRowH),
			deleteBox: image.Rect(width-layerRowH, y, width, y+layerRowH),
		})
		y += layerRowH
	}
	return rows
}

func hitLayers(rows []layerRow, p image.Point) int {
	for i, r := range rows {
		if p.In(r.rect) {
			return i
		}
	}
	return -1
}

// canvasRect returns the display rectangle the captured image occupies:
// scale-to-fit inside the area right of the toolbar, above the status bar,
// and left of the layers panel when it is open.
func canvasRect(imgW, imgH, width, height int, layersOpen bool) image.Rectangle {
	maxX := width - canvasPad
	if layersOpen {
		maxX = width - layersWidth - canvasPad
	}
	avail := image.Rect(toolbarWidth+canvasPad, canvasPad, maxX, height-statusHeight-canvasPad)
	return canvas.FitRect(imgW, imgH, avail)
}
