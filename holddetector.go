// Package holddetector detects climbing holds in wall photos using a
// hosted instance-segmentation model.
//
// The hosted API caps the number of objects it returns per call, so a
// single whole-image request silently truncates results on dense walls.
// This package works around the cap by splitting the image into an
// overlapping grid of tiles, running inference per tile, translating
// tile-local detections back into image space and removing the duplicates
// the overlap introduces. Final results are normalized to
// percentage-of-image coordinates and annotated with a representative
// color sample.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		holddetector "github.com/routesetter/hold-detector"
//	)
//
//	func main() {
//		hd, err := holddetector.New(os.Getenv("ROBOFLOW_API_KEY"))
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		holds, err := hd.DetectFile(context.Background(), "wall.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if err := holddetector.WriteHolds(holds, "wall-detected-holds.json"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The pipeline components live in their own packages and can be wired
// individually:
//
// 1. Processing (pkg/processing): image loading, downscaling, payload encoding
// 2. Tiling (pkg/tiling): the overlapping grid and coordinate remapping
// 3. Roboflow (pkg/roboflow): the hosted inference client with retry/backoff
// 4. Dedup (pkg/dedup): cross-tile duplicate removal
// 5. Assembler (pkg/assembler): normalization and color annotation
// 6. Detection (pkg/detection): the orchestrated pipeline
package holddetector

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/routesetter/hold-detector/internal/config"
	"github.com/routesetter/hold-detector/pkg/client"
	"github.com/routesetter/hold-detector/pkg/detection"
	"github.com/routesetter/hold-detector/pkg/processing"
	"github.com/routesetter/hold-detector/pkg/roboflow"
	"github.com/routesetter/hold-detector/pkg/types"
)

// Version of the hold detector library
const Version = "1.0.0"

// HoldDetector provides a high-level interface for detecting holds in
// wall photos.
type HoldDetector struct {
	processor *processing.Processor
	detector  *detection.Detector
	cfg       *config.Config
}

// New creates a HoldDetector backed by the hosted Roboflow model with
// default configuration.
func New(apiKey string) (*HoldDetector, error) {
	cfg := config.Default()
	rc, err := roboflow.NewClient(cfg.Detection.Endpoint, apiKey)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(rc, cfg), nil
}

// NewWithConfig creates a HoldDetector with a custom detection backend
// and configuration. A nil config selects the defaults.
func NewWithConfig(c client.DetectionClient, cfg *config.Config) *HoldDetector {
	if cfg == nil {
		cfg = config.Default()
	}
	return &HoldDetector{
		processor: processing.NewProcessor(),
		detector:  detection.NewDetector(c, cfg),
		cfg:       cfg,
	}
}

// DetectFile loads an image from disk, bounds it to the configured
// maximum dimension and runs the detection pipeline on it.
func (hd *HoldDetector) DetectFile(ctx context.Context, path string) ([]types.Hold, error) {
	img, err := hd.processor.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return hd.Detect(ctx, img)
}

// Detect runs the detection pipeline on an already-decoded image.
func (hd *HoldDetector) Detect(ctx context.Context, img image.Image) ([]types.Hold, error) {
	working, _ := hd.processor.Downscale(img, hd.cfg.Processing.MaxDimension)
	return hd.detector.DetectHolds(ctx, working)
}

// WriteHolds serializes holds as a 2-space-indented JSON array to path.
// A nil slice is written as an empty array.
func WriteHolds(holds []types.Hold, path string) error {
	if holds == nil {
		holds = []types.Hold{}
	}
	data, err := json.MarshalIndent(holds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal holds: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
