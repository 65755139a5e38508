package det2dfile

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/cyclopcam/det2d/pkg/det2d"
)

// Config controls how a Loader slices a detection stream into windows
type Config struct {
	WindowLength        int           `json:"windowLength"`        // Number of frames in each window (L)
	WindowInterval      int           `json:"windowInterval"`      // Distance in frames between the starts of two windows (I)
	ConfidenceThreshold float64       `json:"confidenceThreshold"` // Keypoints below this confidence are treated as undetected
	Fill                string        `json:"fill"`                // Gap fill policy of tracklet loaders ("zero" or "linear")
	KeypointIndices     map[int][]int `json:"keypointIndices"`     // Per category, the keypoints to keep. Categories that are absent keep all keypoints.

	// Resolves category names in streams that use names instead of indices. Optional.
	Categories *det2d.Categories `json:"-"`
}

// DefaultConfig yields one frame per window
func DefaultConfig() Config {
	return Config{
		WindowLength:   1,
		WindowInterval: 1,
		Fill:           "zero",
	}
}

// LoadConfig reads a JSON config file. Fields that are missing from the file keep their defaults.
func LoadConfig(filename string) (*Config, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config %v: %w", filename, err)
	}
	return &cfg, nil
}

// Returns an error if there is anything invalid about the config, or nil if everything is OK
func (c *Config) Validate() error {
	if c.WindowLength <= 0 {
		return fmt.Errorf("%w: window length must be greater than 0, but was %v", det2d.ErrInvalidArgument, c.WindowLength)
	}
	if c.WindowInterval <= 0 {
		return fmt.Errorf("%w: window interval must be greater than 0, but was %v", det2d.ErrInvalidArgument, c.WindowInterval)
	}
	if err := det2d.CheckConfidenceThreshold(c.ConfidenceThreshold); err != nil {
		return err
	}
	if _, err := c.FillPolicy(); err != nil {
		return err
	}
	for category, indices := range c.KeypointIndices {
		for _, idx := range indices {
			if idx < 0 {
				return fmt.Errorf("%w: keypoint index %v of category %v is negative", det2d.ErrInvalidArgument, idx, category)
			}
		}
	}
	return nil
}

func (c *Config) FillPolicy() (det2d.FillPolicy, error) {
	return det2d.ParseFillPolicy(c.Fill)
}

// Apply the keypoint filter of the category to a pose
func (c *Config) selectKeypoints(category int, pose det2d.Pose) (det2d.Pose, error) {
	indices, ok := c.KeypointIndices[category]
	if !ok {
		return pose, nil
	}
	for _, idx := range indices {
		if idx >= len(pose) {
			return nil, fmt.Errorf("%w: keypoint index %v is out of range for a pose of %v keypoints (category %v)", det2d.ErrInvalidArgument, idx, len(pose), category)
		}
	}
	return pose.Select(indices), nil
}
