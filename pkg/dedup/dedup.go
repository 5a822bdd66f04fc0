// Package dedup removes duplicate detections introduced by tile overlap.
package dedup

import (
	"math"

	"github.com/routesetter/hold-detector/pkg/types"
)

// DefaultThreshold is the default maximum center-to-center distance, in
// working-image pixels, for two detections to be considered duplicates.
const DefaultThreshold = 20

// Deduplicate reduces a set of working-image-space predictions to at most
// one survivor per spatial cluster. Predictions whose polygon field is
// present but empty are discarded first. For every pair whose centers lie
// closer than threshold, the lower-confidence prediction is removed; on a
// confidence tie the later prediction loses. Input order is preserved in
// the output, and the pairwise scan runs in index order, so results are
// deterministic for a fixed input ordering.
//
// Deduplicate is idempotent: applying it to its own output is a no-op.
func Deduplicate(preds []types.Prediction, threshold float64) []types.Prediction {
	if len(preds) == 0 {
		return nil
	}

	valid := make([]types.Prediction, 0, len(preds))
	for _, p := range preds {
		if p.HasEmptyPolygon() {
			continue
		}
		valid = append(valid, p)
	}

	centers := make([][2]float64, len(valid))
	for i, p := range valid {
		cx, cy := p.Center()
		centers[i] = [2]float64{cx, cy}
	}

	keep := make([]bool, len(valid))
	for i := range keep {
		keep[i] = true
	}

	for i := 0; i < len(valid); i++ {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(valid); j++ {
			if !keep[j] {
				continue
			}
			dist := math.Hypot(centers[i][0]-centers[j][0], centers[i][1]-centers[j][1])
			if dist >= threshold {
				continue
			}
			if valid[i].Confidence >= valid[j].Confidence {
				keep[j] = false
			} else {
				keep[i] = false
				break
			}
		}
	}

	out := make([]types.Prediction, 0, len(valid))
	for i, p := range valid {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
