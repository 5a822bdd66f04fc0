package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Detection  DetectionConfig  `json:"detection"`
	Tiling     TilingConfig     `json:"tiling"`
	Processing ProcessingConfig `json:"processing"`
	Sampling   SamplingConfig   `json:"sampling"`
}

// DetectionConfig holds configuration for the inference client and the
// post-inference filtering steps
type DetectionConfig struct {
	Endpoint       string  `json:"endpoint"`
	Confidence     float64 `json:"confidence"`
	DedupThreshold float64 `json:"dedup_threshold"`
	MaxAttempts    int     `json:"max_attempts"`
	JPEGQuality    int     `json:"jpeg_quality"`
}

// TilingConfig holds configuration for the tiling grid
type TilingConfig struct {
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Overlap float64 `json:"overlap"`
}

// ProcessingConfig holds configuration for input preprocessing
type ProcessingConfig struct {
	MaxDimension int `json:"max_dimension"`
}

// SamplingConfig holds configuration for dominant color sampling
type SamplingConfig struct {
	HalfWidth     int    `json:"half_width"`
	FallbackColor string `json:"fallback_color"`
	DefaultClass  string `json:"default_class"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Endpoint:       "https://serverless.roboflow.com/hold-detector-rnvkl/2",
			Confidence:     0.5,
			DedupThreshold: 20,
			MaxAttempts:    3,
			JPEGQuality:    90,
		},
		Tiling: TilingConfig{
			Rows:    3,
			Cols:    3,
			Overlap: 0.3,
		},
		Processing: ProcessingConfig{
			MaxDimension: 4096,
		},
		Sampling: SamplingConfig{
			HalfWidth:     5,
			FallbackColor: "#888888",
			DefaultClass:  "hold",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Detection.Endpoint == "" {
		return fmt.Errorf("detection.endpoint cannot be empty")
	}

	if c.Detection.Confidence <= 0 || c.Detection.Confidence > 1 {
		return fmt.Errorf("detection.confidence must be in (0, 1]")
	}

	if c.Detection.DedupThreshold < 0 {
		return fmt.Errorf("detection.dedup_threshold must be non-negative")
	}

	if c.Detection.MaxAttempts < 1 {
		return fmt.Errorf("detection.max_attempts must be at least 1")
	}

	if c.Detection.JPEGQuality < 1 || c.Detection.JPEGQuality > 100 {
		return fmt.Errorf("detection.jpeg_quality must be between 1 and 100")
	}

	if c.Tiling.Rows < 1 || c.Tiling.Cols < 1 {
		return fmt.Errorf("tiling.rows and tiling.cols must be at least 1")
	}

	if c.Tiling.Overlap < 0 || c.Tiling.Overlap >= 1 {
		return fmt.Errorf("tiling.overlap must be in [0, 1)")
	}

	if c.Processing.MaxDimension < 1 {
		return fmt.Errorf("processing.max_dimension must be positive")
	}

	if c.Sampling.HalfWidth < 0 {
		return fmt.Errorf("sampling.half_width must be non-negative")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "hold-detector", "config.json")
}
