package types

// Point is a polygon vertex in working-image pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Prediction represents a raw detection as returned by the inference API,
// in the coordinate space of the region that was submitted.
//
// Polygon-form predictions carry Points; box-form predictions carry the box
// center (X, Y) plus Width and Height. Exactly one form is populated.
type Prediction struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Points     []Point `json:"points,omitempty"`
	Confidence float64 `json:"confidence"`
	Class      string  `json:"class"`
}

// IsPolygon reports whether the prediction carries polygon geometry.
func (p Prediction) IsPolygon() bool {
	return len(p.Points) > 0
}

// HasEmptyPolygon reports whether the points field was present in the API
// response but contained no vertices. Such predictions are invalid and are
// discarded before deduplication.
func (p Prediction) HasEmptyPolygon() bool {
	return p.Points != nil && len(p.Points) == 0
}

// Center returns the prediction center: the mean of the polygon vertices
// for polygon-form predictions, or the stored box center otherwise.
func (p Prediction) Center() (float64, float64) {
	if !p.IsPolygon() {
		return p.X, p.Y
	}
	var cx, cy float64
	for _, pt := range p.Points {
		cx += pt.X
		cy += pt.Y
	}
	n := float64(len(p.Points))
	return cx / n, cy / n
}

// PercentPoint is a polygon vertex expressed as a percentage of the working
// image dimensions, in [0, 100].
type PercentPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Hold is the final normalized output record for a single detected hold.
// All coordinates are percentages of the working image dimensions.
type Hold struct {
	Polygon       []PercentPoint `json:"polygon"`
	Center        PercentPoint   `json:"center"`
	DominantColor string         `json:"dominant_color"`
	Confidence    float64        `json:"confidence"`
	Class         string         `json:"class"`
}
