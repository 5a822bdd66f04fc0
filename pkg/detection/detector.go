// Package detection orchestrates the hold detection pipeline: tiling,
// per-tile inference, coordinate remapping, deduplication and assembly.
package detection

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/routesetter/hold-detector/internal/config"
	"github.com/routesetter/hold-detector/pkg/assembler"
	"github.com/routesetter/hold-detector/pkg/client"
	"github.com/routesetter/hold-detector/pkg/dedup"
	"github.com/routesetter/hold-detector/pkg/processing"
	"github.com/routesetter/hold-detector/pkg/tiling"
	"github.com/routesetter/hold-detector/pkg/types"
)

// Detector runs hold detection over a working image using a detection
// backend for per-tile inference.
type Detector struct {
	client    client.DetectionClient
	cfg       *config.Config
	processor *processing.Processor
	assembler *assembler.Assembler
}

// NewDetector creates a new detector with a detection backend and
// configuration. A nil config selects the defaults.
func NewDetector(c client.DetectionClient, cfg *config.Config) *Detector {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Detector{
		client:    c,
		cfg:       cfg,
		processor: processing.NewProcessor(),
		assembler: assembler.NewWithConfig(assembler.Config{
			SampleHalfWidth: cfg.Sampling.HalfWidth,
			FallbackColor:   cfg.Sampling.FallbackColor,
			DefaultClass:    cfg.Sampling.DefaultClass,
		}),
	}
}

// DetectHolds detects holds on the working image. Tiles are processed
// strictly sequentially in row-major order; deduplication tie-breaks
// depend on that ordering, so tiles must not be reordered (a parallel
// version would have to reassemble results in tile order before
// deduplicating).
func (d *Detector) DetectHolds(ctx context.Context, img image.Image) ([]types.Hold, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	tiles := tiling.Grid(w, h, d.cfg.Tiling.Rows, d.cfg.Tiling.Cols, d.cfg.Tiling.Overlap)

	log.Printf("Processing %dx%d tiles...", d.cfg.Tiling.Cols, d.cfg.Tiling.Rows)
	var all []types.Prediction
	for _, tile := range tiles {
		imgB64, err := d.processor.EncodeJPEGBase64(tile.Crop(img), d.cfg.Detection.JPEGQuality)
		if err != nil {
			return nil, fmt.Errorf("tile (%d,%d): %w", tile.Row, tile.Col, err)
		}

		preds, err := d.client.Detect(ctx, imgB64, d.cfg.Detection.Confidence)
		if err != nil {
			return nil, fmt.Errorf("tile (%d,%d): %w", tile.Row, tile.Col, err)
		}
		log.Printf("  Tile (%d,%d): %dx%d, found %d holds", tile.Row, tile.Col, tile.Width(), tile.Height(), len(preds))

		for _, pred := range preds {
			all = append(all, tile.ToImageSpace(pred))
		}
	}

	log.Printf("Total before dedup: %d", len(all))
	survivors := dedup.Deduplicate(all, d.cfg.Detection.DedupThreshold)
	log.Printf("After dedup: %d", len(survivors))

	return d.assembler.Assemble(survivors, img, d.cfg.Detection.Confidence), nil
}
