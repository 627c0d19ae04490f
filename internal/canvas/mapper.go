package canvas

import (
	"image"

	"github.com/example/snapcrab/internal/annotate"
)

// Mapper converts between display coordinates (pixels inside the rectangle
// the image is rendered into) and the captured image's native pixel
// coordinates. The transform is the uniform scale-to-fit map; with no image
// loaded both directions are the identity.
type Mapper struct {
	ImageW, ImageH int
}

// ToImage maps a display-space point to image space given the rectangle the
// image currently occupies on screen.
func (m Mapper) ToImage(p annotate.Point, display image.Rectangle) annotate.Point {
	if m.ImageW <= 0 || m.ImageH <= 0 || display.Dx() <= 0 || display.Dy() <= 0 {
		return p
	}
	nx := (p.X - float64(display.Min.X)) / float64(display.Dx())
	ny := (p.Y - float64(display.Min.Y)) / float64(display.Dy())
	return annotate.Pt(nx*float64(m.ImageW), ny*float64(m.ImageH))
}

// ToDisplay maps an image-space point back into the display rectangle.
func (m Mapper) ToDisplay(p annotate.Point, display image.Rectangle) annotate.Point {
	if m.ImageW <= 0 || m.ImageH <= 0 || display.Dx() <= 0 || display.Dy() <= 0 {
		return p
	}
	nx := p.X / float64(m.ImageW)
	ny := p.Y / float64(m.ImageH)
	return annotate.Pt(
		float64(display.Min.X)+nx*float64(display.Dx()),
		float64(display.Min.Y)+ny*float64(display.Dy()),
	)
}

// Scale returns the display/image scale factor for the given display
// rectangle, used to keep stroke weight and hit thresholds consistent at
// any zoom.
func (m Mapper) Scale(display image.Rectangle) float64 {
	if m.ImageW <= 0 {
		return 1
	}
	return float64(display.Dx()) / float64(m.ImageW)
}

// FitScale computes the uniform scale-to-fit factor for an image inside the
// available area, capped at 1 so images are never upscaled.
func FitScale(imgW, imgH, availW, availH int) float64 {
	if imgW <= 0 || imgH <= 0 {
		return 1
	}
	s := float64(availW) / float64(imgW)
	if sy := float64(availH) / float64(imgH); sy < s {
		s = sy
	}
	if s > 1 {
		return 1
	}
	return s
}

// FitRect returns the rectangle an image occupies when scale-to-fit rendered
// inside avail, anchored at avail's top-left corner.
func FitRect(imgW, imgH int, avail image.Rectangle) image.Rectangle {
	s := FitScale(imgW, imgH, avail.Dx(), avail.Dy())
	w := int(float64(imgW) * s)
	h := int(float64(imgH) * s)
	return image.Rect(avail.Min.X, avail.Min.Y, avail.Min.X+w, avail.Min.Y+h)
}
