package ui

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawHLine(dst *image.RGBA, x0, x1, y, thick int, col color.Color) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	draw.Draw(dst, image.Rect(x0, y, x1, y+thick).Intersect(dst.Bounds()),
		&image.Uniform{col}, image.Point{}, draw.Src)
}

func drawVLine(dst *image.RGBA, x, y0, y1, thick int, col color.Color) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	draw.Draw(dst, image.Rect(x, y0, x+thick, y1).Intersect(dst.Bounds()),
		&image.Uniform{col}, image.Point{}, draw.Src)
}

// drawBorder strokes rect's outline with the given thickness, inside the
// rectangle.
func drawBorder(dst *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawHLine(dst, rect.Min.X, rect.Max.X, rect.Min.Y, thick, col)
	drawHLine(dst, rect.Min.X, rect.Max.X, rect.Max.Y-thick, thick, col)
	drawVLine(dst, rect.Min.X, rect.Min.Y, rect.Max.Y, thick, col)
	drawVLine(dst, rect.Max.X-thick, rect.Min.Y, rect.Max.Y, thick, col)
}

func drawDashedHLine(dst *image.RGBA, x0, x1, y, dash, thick int, c1, c2 color.Color) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x < x1; x += dash {
		end := x + dash
		if end > x1 {
			end = x1
		}
		col := c1
		if ((x-x0)/dash)%2 == 1 {
			col = c2
		}
		drawHLine(dst, x, end, y, thick, col)
	}
}

func drawDashedVLine(dst *image.RGBA, x, y0, y1, dash, thick int, c1, c2 color.Color) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y < y1; y += dash {
		end := y + dash
		if end > y1 {
			end = y1
		}
		col := c1
		if ((y-y0)/dash)%2 == 1 {
			col = c2
		}
		drawVLine(dst, x, y, end, thick, col)
	}
}

// drawDashedRect strokes a two-color dashed outline, used for the area
// selection marquee.
func drawDashedRect(dst *image.RGBA, rect image.Rectangle, dash, thick int, c1, c2 color.Color) {
	drawDashedHLine(dst, rect.Min.X, rect.Max.X, rect.Min.Y, dash, thick, c1, c2)
	drawDashedHLine(dst, rect.Min.X, rect.Max.X, rect.Max.Y-thick, dash, thick, c1, c2)
	drawDashedVLine(dst, rect.Min.X, rect.Min.Y, rect.Max.Y, dash, thick, c1, c2)
	drawDashedVLine(dst, rect.Max.X-thick, rect.Min.Y, rect.Max.Y, dash, thick, c1, c2)
}

// drawSmallText renders a line of UI chrome text with its top-left corner at
// (x, y) using the fixed 7x13 face.
func drawSmallText(dst *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13,
		Dot: fixed.P(x, y+11)}
	d.DrawString(text)
}

func smallTextWidth(text string) int { return measureLabel(text) }
