package tiling

import (
	"testing"

	"github.com/routesetter/hold-detector/pkg/types"
)

func TestGridTileCount(t *testing.T) {
	tiles := Grid(300, 300, 3, 3, 0.3)
	if len(tiles) != 9 {
		t.Fatalf("expected 9 tiles, got %d", len(tiles))
	}

	// Row-major order
	for i, tile := range tiles {
		if tile.Row != i/3 || tile.Col != i%3 {
			t.Errorf("tile %d: expected (%d,%d), got (%d,%d)", i, i/3, i%3, tile.Row, tile.Col)
		}
	}
}

func TestGridBounds(t *testing.T) {
	tiles := Grid(300, 300, 3, 3, 0.3)

	// Nominal cell is 100x100, overlap margin 30px. Corner tile clamps to
	// the image edge, interior tile grows on all sides.
	first := tiles[0]
	if first.X1 != 0 || first.Y1 != 0 || first.X2 != 130 || first.Y2 != 130 {
		t.Errorf("corner tile bounds: got (%d,%d)-(%d,%d)", first.X1, first.Y1, first.X2, first.Y2)
	}

	center := tiles[4]
	if center.X1 != 70 || center.Y1 != 70 || center.X2 != 230 || center.Y2 != 230 {
		t.Errorf("center tile bounds: got (%d,%d)-(%d,%d)", center.X1, center.Y1, center.X2, center.Y2)
	}

	last := tiles[8]
	if last.X2 != 300 || last.Y2 != 300 {
		t.Errorf("last tile must clamp to image bounds, got (%d,%d)", last.X2, last.Y2)
	}
}

func TestGridCoverage(t *testing.T) {
	const size = 300
	tiles := Grid(size, size, 3, 3, 0.3)

	// Internal grid lines for a 300x300 3x3 split
	lines := []int{100, 200}
	margin := 30

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			count := 0
			for _, tile := range tiles {
				if x >= tile.X1 && x < tile.X2 && y >= tile.Y1 && y < tile.Y2 {
					count++
				}
			}
			if count < 1 {
				t.Fatalf("pixel (%d,%d) not covered by any tile", x, y)
			}

			nearLine := false
			for _, l := range lines {
				if abs(x-l) < margin || abs(y-l) < margin {
					nearLine = true
				}
			}
			if nearLine && count < 2 {
				t.Fatalf("pixel (%d,%d) near a grid line covered by only %d tile(s)", x, y, count)
			}
		}
	}
}

func TestGridUnevenDimensions(t *testing.T) {
	// Width not divisible by cols: the last tile must still reach the
	// image edge thanks to the overlap margin.
	tiles := Grid(310, 305, 3, 3, 0.3)

	maxX, maxY := 0, 0
	for _, tile := range tiles {
		if tile.X2 > maxX {
			maxX = tile.X2
		}
		if tile.Y2 > maxY {
			maxY = tile.Y2
		}
		if tile.X1 < 0 || tile.Y1 < 0 || tile.X2 > 310 || tile.Y2 > 305 {
			t.Errorf("tile (%d,%d) exceeds image bounds: (%d,%d)-(%d,%d)",
				tile.Row, tile.Col, tile.X1, tile.Y1, tile.X2, tile.Y2)
		}
	}
	if maxX != 310 || maxY != 305 {
		t.Errorf("tiles do not reach image edge: max (%d,%d)", maxX, maxY)
	}
}

func TestToImageSpacePolygon(t *testing.T) {
	tile := Tile{Row: 1, Col: 2, X1: 170, Y1: 70, X2: 300, Y2: 230}

	pred := types.Prediction{
		Points:     []types.Point{{X: 10, Y: 20}, {X: 30, Y: 40}, {X: 50, Y: 60}},
		Confidence: 0.8,
		Class:      "hold",
	}

	mapped := tile.ToImageSpace(pred)
	want := []types.Point{{X: 180, Y: 90}, {X: 200, Y: 110}, {X: 220, Y: 130}}
	for i, pt := range mapped.Points {
		if pt != want[i] {
			t.Errorf("point %d: expected %v, got %v", i, want[i], pt)
		}
	}

	if mapped.Confidence != 0.8 || mapped.Class != "hold" {
		t.Error("confidence and class must pass through unchanged")
	}

	// The input prediction must not be mutated
	if pred.Points[0].X != 10 {
		t.Error("ToImageSpace mutated the input polygon")
	}
}

func TestToImageSpaceBox(t *testing.T) {
	tile := Tile{Row: 0, Col: 1, X1: 70, Y1: 0, X2: 230, Y2: 130}

	pred := types.Prediction{X: 40, Y: 50, Width: 12, Height: 16, Confidence: 0.6}
	mapped := tile.ToImageSpace(pred)

	if mapped.X != 110 || mapped.Y != 50 {
		t.Errorf("expected box center (110,50), got (%v,%v)", mapped.X, mapped.Y)
	}
	if mapped.Width != 12 || mapped.Height != 16 {
		t.Error("box extents must pass through unchanged")
	}
	if mapped.IsPolygon() {
		t.Error("box-form prediction must stay box-form")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
