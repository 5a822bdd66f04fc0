package client

import (
	"context"

	"github.com/routesetter/hold-detector/pkg/types"
)

// DetectionClient is implemented by backends that run hold inference on a
// single image region. The image is passed as a base64-encoded JPEG and the
// returned predictions are in the coordinate space of that region.
type DetectionClient interface {
	Detect(ctx context.Context, imgB64 string, confidence float64) ([]types.Prediction, error)
}
