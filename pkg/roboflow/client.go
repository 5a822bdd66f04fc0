// Package roboflow implements the DetectionClient interface against the
// Roboflow serverless inference API.
package roboflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/routesetter/hold-detector/pkg/types"
)

// DefaultEndpoint is the hosted instance-segmentation model for climbing
// holds.
const DefaultEndpoint = "https://serverless.roboflow.com/hold-detector-rnvkl/2"

// StatusError is returned when the API responds with a non-retryable
// status. It carries the status code and response body and aborts the
// whole run.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.Code, e.Body)
}

// detectResponse is the wire format of a successful inference response.
type detectResponse struct {
	Predictions []types.Prediction `json:"predictions"`
}

// Client calls the Roboflow hosted API for a single image region.
//
// Up to maxAttempts requests are made per region. Server-side errors (5xx)
// back off exponentially (1s, 2s, ...) between attempts; if the final
// attempt still fails server-side the region yields zero predictions
// rather than an error, so a transient outage degrades detection coverage
// instead of aborting the run. Any other non-200 status is returned as a
// *StatusError immediately.
type Client struct {
	endpoint    string
	apiKey      string
	httpClient  *http.Client
	maxAttempts int
	backoffBase time.Duration
}

// NewClient creates a client for the given model endpoint. An empty
// endpoint selects DefaultEndpoint.
func NewClient(endpoint, apiKey string) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if apiKey == "" {
		return nil, fmt.Errorf("roboflow: API key is required")
	}

	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		maxAttempts: 3,
		backoffBase: time.Second,
	}, nil
}

// SetMaxAttempts overrides the total number of attempts per region.
func (c *Client) SetMaxAttempts(n int) {
	if n >= 1 {
		c.maxAttempts = n
	}
}

// SetBackoffBase overrides the first retry delay. Each subsequent retry
// doubles it.
func (c *Client) SetBackoffBase(d time.Duration) {
	c.backoffBase = d
}

// Detect runs inference on one base64-encoded JPEG region and returns the
// raw predictions in that region's coordinate space.
func (c *Client) Detect(ctx context.Context, imgB64 string, confidence float64) ([]types.Prediction, error) {
	requestURL := c.endpoint + "?" + url.Values{
		"api_key":    {c.apiKey},
		"confidence": {strconv.Itoa(int(confidence * 100))},
	}.Encode()

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, strings.NewReader(imgB64))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("inference request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			var parsed detectResponse
			if err := json.Unmarshal(body, &parsed); err != nil {
				return nil, fmt.Errorf("failed to parse response: %w", err)
			}
			return parsed.Predictions, nil
		}

		if resp.StatusCode >= 500 {
			if attempt < c.maxAttempts-1 {
				wait := c.backoffBase << attempt
				log.Printf("API returned %d, retrying in %s...", resp.StatusCode, wait)
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				continue
			}
			// Retries exhausted: this region contributes no detections.
			log.Printf("API returned %d after %d attempts, skipping region", resp.StatusCode, c.maxAttempts)
			return nil, nil
		}

		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return nil, nil
}
