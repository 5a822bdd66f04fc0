// Package tiling splits the working image into an overlapping grid of
// tiles so that each region can be submitted to the inference API
// independently, and maps tile-local detections back into image space.
//
// The hosted model caps the number of objects returned per call, which
// silently truncates results on dense walls. Tiling with overlap keeps
// every region below that cap while guaranteeing that holds straddling a
// grid boundary are fully contained in at least one tile.
package tiling

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/routesetter/hold-detector/pkg/types"
)

// Tile is a rectangular sub-region of the working image. X1, Y1 is the
// tile origin in working-image pixel space; X2, Y2 is the exclusive
// bottom-right corner. Border tiles are clamped to the image bounds, so
// they can be narrower than interior tiles.
type Tile struct {
	Row int
	Col int
	X1  int
	Y1  int
	X2  int
	Y2  int
}

// Width returns the tile width in pixels.
func (t Tile) Width() int {
	return t.X2 - t.X1
}

// Height returns the tile height in pixels.
func (t Tile) Height() int {
	return t.Y2 - t.Y1
}

// Rect returns the tile bounds as an image.Rectangle.
func (t Tile) Rect() image.Rectangle {
	return image.Rect(t.X1, t.Y1, t.X2, t.Y2)
}

// Crop extracts the tile's pixel region from the working image.
func (t Tile) Crop(img image.Image) image.Image {
	return imaging.Crop(img, t.Rect())
}

// ToImageSpace translates a tile-local prediction into working-image
// pixel space by adding the tile origin to every coordinate. Polygon-form
// predictions stay polygon-form, box-form stay box-form; confidence and
// class are untouched.
func (t Tile) ToImageSpace(p types.Prediction) types.Prediction {
	if p.IsPolygon() {
		points := make([]types.Point, len(p.Points))
		for i, pt := range p.Points {
			points[i] = types.Point{
				X: pt.X + float64(t.X1),
				Y: pt.Y + float64(t.Y1),
			}
		}
		p.Points = points
		return p
	}
	p.X += float64(t.X1)
	p.Y += float64(t.Y1)
	return p
}

// Grid partitions a w x h image into rows x cols overlapping tiles in
// row-major order. The nominal tile size is w/cols by h/rows (integer
// division); each tile is then grown by overlap (a ratio of the nominal
// size, e.g. 0.3 for 30%) on every side and clamped to the image bounds.
// Every point within one overlap margin of an interior grid line is
// covered by at least two tiles.
func Grid(w, h, rows, cols int, overlap float64) []Tile {
	tileW := w / cols
	tileH := h / rows
	overlapX := int(float64(tileW) * overlap)
	overlapY := int(float64(tileH) * overlap)

	tiles := make([]Tile, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			tiles = append(tiles, Tile{
				Row: row,
				Col: col,
				X1:  max(0, col*tileW-overlapX),
				Y1:  max(0, row*tileH-overlapY),
				X2:  min(w, (col+1)*tileW+overlapX),
				Y2:  min(h, (row+1)*tileH+overlapY),
			})
		}
	}
	return tiles
}
