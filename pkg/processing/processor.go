package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/routesetter/hold-detector/pkg/types"
)

// Processor handles image loading, preprocessing and overlay rendering
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read image %s: %w", path, err)
	}
	defer f.Close()

	if strings.Contains(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("could not read image %s: unknown format", path)
}

// Downscale bounds an image to maxDim on its longest side. Images already
// within the ceiling pass through unchanged. Downscaling uses the Box
// filter, which averages source areas and so avoids aliasing artifacts
// that would confuse the detection model.
func (p *Processor) Downscale(img image.Image, maxDim int) (image.Image, bool) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longest := max(w, h)
	if longest <= maxDim {
		return img, false
	}

	scale := float64(maxDim) / float64(longest)
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	return imaging.Resize(img, newW, newH, imaging.Box), true
}

// EncodeJPEGBase64 encodes an image as a base64 JPEG payload for the
// inference API.
func (p *Processor) EncodeJPEGBase64(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("failed to encode tile: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Quality: float32(quality)})
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// DrawDetections renders an overlay of the detected holds onto a copy of
// the working image: polygon outlines in green and center markers in blue.
func (p *Processor) DrawDetections(img image.Image, holds []types.Hold) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()

	green := color.NRGBA{0, 255, 0, 255}
	blue := color.NRGBA{0, 102, 255, 255}

	for _, hold := range holds {
		if len(hold.Polygon) == 0 {
			continue
		}

		pts := make([]image.Point, len(hold.Polygon))
		for i, pt := range hold.Polygon {
			pts[i] = image.Point{
				X: int(pt.X / 100 * float64(w)),
				Y: int(pt.Y / 100 * float64(h)),
			}
		}
		for i := range pts {
			next := pts[(i+1)%len(pts)]
			drawLine(nrgba, pts[i].X, pts[i].Y, next.X, next.Y, green)
		}

		cx := int(hold.Center.X / 100 * float64(w))
		cy := int(hold.Center.Y / 100 * float64(h))
		fillCircle(nrgba, cx, cy, 3, blue)
	}

	return nrgba
}

// drawLine draws a 1px line between two points using Bresenham's
// algorithm, clipped to the image bounds.
func drawLine(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		setPixel(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func fillCircle(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				setPixel(img, cx+x, cy+y, c)
			}
		}
	}
}

func setPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() || y < 0 || y >= img.Bounds().Dy() {
		return
	}
	i := y*img.Stride + x*4
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
