// Package assembler turns deduplicated working-image-space predictions
// into the final normalized hold records.
package assembler

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/routesetter/hold-detector/pkg/types"
)

// Config holds configuration for result assembly
type Config struct {
	// SampleHalfWidth is the half-width in pixels of the square
	// neighborhood sampled around each hold center for its dominant color.
	SampleHalfWidth int
	// FallbackColor is emitted when the clamped sampling region is empty.
	FallbackColor string
	// DefaultClass labels predictions that arrive without a class.
	DefaultClass string
}

// Assembler converts surviving predictions into Hold records: it applies
// the confidence filter, normalizes geometry to percentage-of-image
// coordinates and samples a representative color for each hold.
type Assembler struct {
	config Config
}

// New creates a new Assembler with default configuration
func New() *Assembler {
	return &Assembler{
		config: Config{
			SampleHalfWidth: 5,
			FallbackColor:   "#888888",
			DefaultClass:    "hold",
		},
	}
}

// NewWithConfig creates a new Assembler with custom configuration
func NewWithConfig(config Config) *Assembler {
	return &Assembler{config: config}
}

// Assemble builds the final hold list from predictions in working-image
// pixel space. Predictions below the confidence threshold are skipped;
// a prediction with confidence exactly equal to the threshold is kept.
// Output order matches input order.
func (a *Assembler) Assemble(preds []types.Prediction, img image.Image, confidence float64) []types.Hold {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	holds := make([]types.Hold, 0, len(preds))
	for _, pred := range preds {
		if pred.HasEmptyPolygon() {
			continue
		}
		if pred.Confidence < confidence {
			continue
		}

		var polygon []types.PercentPoint
		var centerX, centerY float64

		if pred.IsPolygon() {
			polygon = make([]types.PercentPoint, len(pred.Points))
			for i, pt := range pred.Points {
				polygon[i] = types.PercentPoint{
					X: round2(pt.X / float64(w) * 100),
					Y: round2(pt.Y / float64(h) * 100),
				}
			}
			// Center is the mean of the already-converted points, not the
			// converted mean. Box-form predictions below take the other
			// route on purpose.
			for _, pt := range polygon {
				centerX += pt.X
				centerY += pt.Y
			}
			n := float64(len(polygon))
			centerX /= n
			centerY /= n
		} else {
			x, y := pred.X, pred.Y
			hw, hh := pred.Width/2, pred.Height/2
			polygon = []types.PercentPoint{
				{X: round2((x - hw) / float64(w) * 100), Y: round2((y - hh) / float64(h) * 100)},
				{X: round2((x + hw) / float64(w) * 100), Y: round2((y - hh) / float64(h) * 100)},
				{X: round2((x + hw) / float64(w) * 100), Y: round2((y + hh) / float64(h) * 100)},
				{X: round2((x - hw) / float64(w) * 100), Y: round2((y + hh) / float64(h) * 100)},
			}
			centerX = round2(x / float64(w) * 100)
			centerY = round2(y / float64(h) * 100)
		}

		class := pred.Class
		if class == "" {
			class = a.config.DefaultClass
		}

		holds = append(holds, types.Hold{
			Polygon:       polygon,
			Center:        types.PercentPoint{X: round2(centerX), Y: round2(centerY)},
			DominantColor: a.sampleColor(img, centerX, centerY),
			Confidence:    round3(pred.Confidence),
			Class:         class,
		})
	}
	return holds
}

// sampleColor maps a percentage center back to pixel space and returns the
// mean color of the clamped square neighborhood around it as a lowercase
// "#rrggbb" string.
func (a *Assembler) sampleColor(img image.Image, centerX, centerY float64) string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	cx := int(centerX / 100 * float64(w))
	cy := int(centerY / 100 * float64(h))

	x1 := max(0, cx-a.config.SampleHalfWidth)
	x2 := min(w, cx+a.config.SampleHalfWidth)
	y1 := max(0, cy-a.config.SampleHalfWidth)
	y2 := min(h, cy+a.config.SampleHalfWidth)

	if x2 <= x1 || y2 <= y1 {
		return a.config.FallbackColor
	}

	var sumR, sumG, sumB float64
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			sumR += float64(r >> 8)
			sumG += float64(g >> 8)
			sumB += float64(b >> 8)
		}
	}
	n := float64((x2 - x1) * (y2 - y1))

	c := colorful.Color{
		R: math.Trunc(sumR/n) / 255,
		G: math.Trunc(sumG/n) / 255,
		B: math.Trunc(sumB/n) / 255,
	}
	return c.Hex()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
