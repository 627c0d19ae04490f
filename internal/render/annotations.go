package render

import (
	"image"
	"image/draw"
	"log"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/example/snapcrab/internal/annotate"
	"github.com/example/snapcrab/internal/canvas"
)

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font
	faceMu     sync.Mutex
	faces      = map[float64]font.Face{}
)

func faceForSize(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Fatalf("parse font: %v", err)
		}
		parsedFont = f
	})
	if size < 1 {
		size = 1
	}
	size = math.Round(size*4) / 4
	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
	faces[size] = face
	return face
}

// Face returns the cached annotation font face for the given point size. The
// UI uses it to draw the inline text prompt with the same face the committed
// annotation will render with.
func Face(size float64) font.Face { return faceForSize(size) }

// Annotations draws the annotation list into dst over the display rectangle
// the image occupies. Stroke widths are multiplied by the display scale so
// the visual weight of a shape is independent of the zoom level. The active
// annotation gets a translucent white highlight beneath it.
func Annotations(dst *image.RGBA, display image.Rectangle, m canvas.Mapper, anns []annotate.Annotation, active int) {
	dc := gg.NewContextForRGBA(dst)
	scale := m.Scale(display)
	for i := range anns {
		ann := &anns[i]
		if i == active {
			highlight(dc, ann, m, display, scale)
		}
		Annotation(dc, ann, m, display, scale)
	}
}

// Annotation draws a single annotation into the gg context using the mapper
// for the given display rectangle.
func Annotation(dc *gg.Context, ann *annotate.Annotation, m canvas.Mapper, display image.Rectangle, scale float64) {
	switch ann.Kind {
	case annotate.KindArrow:
		s := m.ToDisplay(ann.Start, display)
		e := m.ToDisplay(ann.End, display)
		thick := ann.Thickness * scale
		dc.SetColor(ann.Color)
		dc.SetLineWidth(thick)
		dc.DrawLine(s.X, s.Y, e.X, e.Y)
		dc.Stroke()

		dir := e.Sub(s)
		length := math.Hypot(dir.X, dir.Y)
		// Zero-length arrows have no direction; skip the head.
		if length > 0 && !math.IsInf(length, 0) {
			dir = dir.Mul(1 / length)
			side := annotate.Pt(-dir.Y, dir.X)
			head := thick * 3
			for _, sign := range []float64{1, -1} {
				tip := e.Sub(dir.Mul(head)).Add(side.Mul(head * sign))
				dc.DrawLine(e.X, e.Y, tip.X, tip.Y)
				dc.Stroke()
			}
		}
	case annotate.KindRect:
		min := m.ToDisplay(ann.Bounds.Min, display)
		max := m.ToDisplay(ann.Bounds.Max, display)
		dc.SetColor(ann.Color)
		dc.SetLineWidth(ann.Thickness * scale)
		dc.DrawRectangle(min.X, min.Y, max.X-min.X, max.Y-min.Y)
		dc.Stroke()
	case annotate.KindText:
		p := m.ToDisplay(ann.Pos, display)
		face := faceForSize(ann.Size * scale)
		dc.SetFontFace(face)
		dc.SetColor(ann.Color)
		baseline := p.Y + float64(face.Metrics().Ascent.Ceil())
		dc.DrawString(ann.Text, p.X, baseline)
	}
}

func highlight(dc *gg.Context, ann *annotate.Annotation, m canvas.Mapper, display image.Rectangle, scale float64) {
	switch ann.Kind {
	case annotate.KindArrow:
		s := m.ToDisplay(ann.Start, display)
		e := m.ToDisplay(ann.End, display)
		dc.SetRGBA255(255, 255, 255, 30)
		dc.SetLineWidth(10 * scale)
		dc.DrawLine(s.X, s.Y, e.X, e.Y)
		dc.Stroke()
	case annotate.KindRect:
		min := m.ToDisplay(ann.Bounds.Min, display)
		max := m.ToDisplay(ann.Bounds.Max, display)
		dc.SetRGBA255(255, 255, 255, 20)
		dc.DrawRectangle(min.X-2, min.Y-2, max.X-min.X+4, max.Y-min.Y+4)
		dc.Fill()
	case annotate.KindText:
		p := m.ToDisplay(ann.Pos, display)
		s := ann.Size * scale
		w := float64(len([]rune(ann.Text))) * s * 0.6
		dc.SetRGBA255(255, 255, 255, 30)
		dc.DrawRectangle(p.X-4, p.Y-4, w+8, s+8)
		dc.Fill()
	}
}

// Flatten renders the annotations into a copy of the captured image at its
// native resolution. The result is what save and copy export.
func Flatten(img *image.RGBA, anns []annotate.Annotation) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	if len(anns) == 0 {
		return out
	}
	m := canvas.Mapper{ImageW: b.Dx(), ImageH: b.Dy()}
	Annotations(out, out.Bounds(), m, anns, -1)
	return out
}
