package trackmap

import (
	"image"
	"image/color"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dsvg"
	"github.com/pkg/errors"

	"f1dashbot/pkg/model"
)

const (
	layoutSize = 900.0
	margin     = 40.0
	lineWidth  = 6.0
)

// ErrNoTelemetry marks a telemetry trace with too few distinct points to
// draw an outline.
var ErrNoTelemetry = errors.New("trackmap: telemetry trace too short to draw")

type bounds struct {
	minX, maxX float64
	minY, maxY float64
	rotate     bool
	rect       image.Rectangle
}

// trackBounds fits the outline into a landscape rectangle; portrait
// circuits get rotated a quarter turn. Traces with fewer than two distinct
// points have no extent to scale and are rejected.
func trackBounds(points []model.TrackPoint) (bounds, error) {
	if len(points) < 2 {
		return bounds{}, ErrNoTelemetry
	}

	b := bounds{
		minX: math.Inf(1), maxX: math.Inf(-1),
		minY: math.Inf(1), maxY: math.Inf(-1),
	}
	for _, p := range points {
		b.minX = math.Min(b.minX, p.X)
		b.maxX = math.Max(b.maxX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxY = math.Max(b.maxY, p.Y)
	}

	width := b.maxX - b.minX
	height := b.maxY - b.minY
	if height > width {
		b.rotate = true
		width, height = height, width
	}
	if width == 0 {
		return bounds{}, ErrNoTelemetry
	}

	scale := (layoutSize - 2*margin) / width
	b.rect = image.Rect(0, 0, int(layoutSize), int(height*scale+2*margin))
	return b, nil
}

func (b bounds) transform(p model.TrackPoint) (float64, float64) {
	x, y := p.X, p.Y
	minX, minY := b.minX, b.minY
	width := b.maxX - b.minX
	if b.rotate {
		// quarter turn into landscape
		x, y = y, -x
		minX, minY = b.minY, -b.maxX
		width = b.maxY - b.minY
	}
	scale := (layoutSize - 2*margin) / width
	// invert Y so north stays up
	return margin + (x-minX)*scale, float64(b.rect.Max.Y) - margin - (y-minY)*scale
}

func drawOutline(gc draw2d.GraphicContext, points []model.TrackPoint, b bounds) {
	gc.Save()
	gc.SetStrokeColor(color.RGBA{0x15, 0x15, 0x1E, 0xff})
	gc.SetLineWidth(lineWidth)

	for i, p := range points {
		x, y := b.transform(p)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	// close the lap back to the start/finish line
	if len(points) > 0 {
		x, y := b.transform(points[0])
		gc.LineTo(x, y)
	}
	gc.Stroke()
	gc.Restore()

	drawStartFinish(gc, points, b)
}

// drawStartFinish marks the first telemetry sample with a dot.
func drawStartFinish(gc draw2d.GraphicContext, points []model.TrackPoint, b bounds) {
	if len(points) == 0 {
		return
	}
	x, y := b.transform(points[0])
	gc.Save()
	gc.SetFillColor(color.RGBA{0xE1, 0x06, 0x00, 0xff})
	gc.MoveTo(x+lineWidth, y)
	gc.ArcTo(x, y, lineWidth, lineWidth, 0, 2*math.Pi)
	gc.Fill()
	gc.Restore()
}

// BuildLayoutSVG renders the track outline to an SVG file.
func BuildLayoutSVG(path string, points []model.TrackPoint) error {
	b, err := trackBounds(points)
	if err != nil {
		return err
	}
	dest := draw2dsvg.NewSvg()
	gc := draw2dsvg.NewGraphicContext(dest)
	drawOutline(gc, points, b)
	return draw2dsvg.SaveToSvgFile(path, dest)
}

// BuildLayoutPNG renders the track outline to a PNG file.
func BuildLayoutPNG(path string, points []model.TrackPoint) error {
	b, err := trackBounds(points)
	if err != nil {
		return err
	}
	dest := image.NewRGBA(b.rect)
	gc := draw2dimg.NewGraphicContext(dest)
	drawOutline(gc, points, b)
	return draw2dimg.SaveToPngFile(path, dest)
}
