package processing

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"

	"github.com/routesetter/hold-detector/pkg/types"
)

// createTestImage creates a simple gradient test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			img.Set(x, y, color.RGBA{r, g, 128, 255})
		}
	}
	return img
}

func TestLoadImageMissingFile(t *testing.T) {
	p := NewProcessor()
	if _, err := p.LoadImage(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadImageRoundTrip(t *testing.T) {
	p := NewProcessor()

	path := filepath.Join(t.TempDir(), "test.png")
	if err := p.SaveImage(createTestImage(64, 48), path, "png", 0); err != nil {
		t.Fatal(err)
	}

	img, err := p.LoadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("expected 64x48, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDownscalePassThrough(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(800, 600)

	out, resized := p.Downscale(img, 4096)
	if resized {
		t.Error("image within the ceiling must pass through unchanged")
	}
	if out != img {
		t.Error("pass-through must return the original image")
	}
}

func TestDownscaleBoundsLongestSide(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(800, 600)

	out, resized := p.Downscale(img, 400)
	if !resized {
		t.Fatal("expected the image to be downscaled")
	}
	if out.Bounds().Dx() != 400 || out.Bounds().Dy() != 300 {
		t.Errorf("expected 400x300, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestDownscalePortrait(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(300, 900)

	out, resized := p.Downscale(img, 450)
	if !resized {
		t.Fatal("expected the image to be downscaled")
	}
	if out.Bounds().Dx() != 150 || out.Bounds().Dy() != 450 {
		t.Errorf("expected 150x450, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestEncodeJPEGBase64(t *testing.T) {
	p := NewProcessor()

	b64, err := p.EncodeJPEGBase64(createTestImage(120, 80), 90)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("payload is not a valid JPEG: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
		t.Errorf("expected 120x80 payload, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDrawDetections(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(200, 200)

	holds := []types.Hold{
		{
			Polygon: []types.PercentPoint{
				{X: 10, Y: 10}, {X: 40, Y: 10}, {X: 40, Y: 40}, {X: 10, Y: 40},
			},
			Center:     types.PercentPoint{X: 25, Y: 25},
			Confidence: 0.9,
			Class:      "hold",
		},
	}

	overlay := p.DrawDetections(img, holds)
	if overlay == img {
		t.Fatal("overlay must be drawn on a copy")
	}

	// The top edge of the polygon runs along y=20 from x=20 to x=80
	r, g, b, _ := overlay.At(50, 20).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("expected a green outline pixel at (50,20), got #%02x%02x%02x", r>>8, g>>8, b>>8)
	}

	// The center marker sits at (50,50)
	r, g, b, _ = overlay.At(50, 50).RGBA()
	if r>>8 != 0 || g>>8 != 102 || b>>8 != 255 {
		t.Errorf("expected a blue center pixel at (50,50), got #%02x%02x%02x", r>>8, g>>8, b>>8)
	}
}
