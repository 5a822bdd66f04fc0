package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/routesetter/hold-detector/internal/config"
	"github.com/routesetter/hold-detector/internal/utils"
	"github.com/routesetter/hold-detector/pkg/detection"
	"github.com/routesetter/hold-detector/pkg/processing"
	"github.com/routesetter/hold-detector/pkg/roboflow"

	holddetector "github.com/routesetter/hold-detector"
)

func main() {
	var output, configPath string
	var confidence float64
	var preview bool

	flag.StringVar(&output, "output", "", "output JSON file path (default: <input-stem>-detected-holds.json next to the input)")
	flag.Float64Var(&confidence, "confidence", 0.5, "minimum confidence threshold (0-1)")
	flag.BoolVar(&preview, "preview", false, "write an overlay image with the detected holds next to the input")
	flag.StringVar(&configPath, "config", "", "optional JSON config file")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [-output out.json] [-confidence 0.5] [-preview] [-config config.json] <image>", filepath.Base(os.Args[0]))
	}
	imagePath := flag.Arg(0)
	if !utils.IsImageFile(imagePath) {
		log.Fatalf("%s does not look like an image file", imagePath)
	}

	// Best effort; the key can also come from the environment directly.
	_ = godotenv.Load()

	apiKey := os.Getenv("ROBOFLOW_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: ROBOFLOW_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "Get your API key from https://app.roboflow.com/settings/api")
		os.Exit(1)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	cfg.Detection.Confidence = confidence
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	rc, err := roboflow.NewClient(cfg.Detection.Endpoint, apiKey)
	if err != nil {
		log.Fatal(err)
	}
	rc.SetMaxAttempts(cfg.Detection.MaxAttempts)

	processor := processing.NewProcessor()
	img, err := processor.LoadImage(imagePath)
	if err != nil {
		log.Fatal(err)
	}

	bounds := img.Bounds()
	working, resized := processor.Downscale(img, cfg.Processing.MaxDimension)
	if resized {
		wb := working.Bounds()
		log.Printf("Resized image from %dx%d to %dx%d", bounds.Dx(), bounds.Dy(), wb.Dx(), wb.Dy())
	}

	detector := detection.NewDetector(rc, cfg)
	holds, err := detector.DetectHolds(context.Background(), working)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Detected %d holds", len(holds))

	if output == "" {
		output = utils.DetectionsPath(imagePath)
	}
	if err := holddetector.WriteHolds(holds, output); err != nil {
		log.Fatal(err)
	}
	log.Printf("Saved %d detected holds to %s", len(holds), output)

	if preview {
		overlay := processor.DrawDetections(working, holds)
		overlayPath := utils.OverlayPath(imagePath)
		if err := processor.SaveImage(overlay, overlayPath, "png", 0); err != nil {
			log.Printf("overlay save failed: %v", err)
		} else {
			log.Printf("wrote %s", overlayPath)
		}
	}
}
