// Package config loads the tracker and pipeline tuning parameters from a
// JSON file.  Fields omitted from the file keep their default values.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/swdee/go-reidtrack/tracker"
)

// maxFileSize is the largest config file accepted
const maxFileSize = 1 * 1024 * 1024

// Config holds the tuning parameters for a tracking run
type Config struct {
	// IoUThreshold is the exclusive minimum overlap for geometric matching
	IoUThreshold float64 `json:"iou_threshold"`
	// AppearanceThreshold is the exclusive minimum histogram correlation
	// for re-identification
	AppearanceThreshold float64 `json:"appearance_threshold"`
	// MaxAge is the number of consecutive missed frames before a track is
	// removed, zero keeps tracks forever
	MaxAge int `json:"max_age"`
	// MatchStrategy is "greedy" or "optimal"
	MatchStrategy string `json:"match_strategy"`
	// MinConfidence drops detections scoring below it
	MinConfidence float64 `json:"min_confidence"`
	// TrailSize is the number of box centers drawn behind each track, zero
	// disables the trail
	TrailSize int `json:"trail_size"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		IoUThreshold:        tracker.DefaultIoUThreshold,
		AppearanceThreshold: tracker.DefaultAppearanceThreshold,
		MaxAge:              tracker.DefaultMaxAge,
		MatchStrategy:       tracker.Greedy.String(),
		MinConfidence:       0,
		TrailSize:           30,
	}
}

// Load reads a JSON config file over the defaults and validates the result.
// The file must have a .json extension and be under 1MB.
func Load(path string) (*Config, error) {

	cleanPath := filepath.Clean(path)

	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)

	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}

	if info.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)",
			info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)

	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := Default()

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// Validate checks the configuration values are within range
func (c *Config) Validate() error {

	if c.IoUThreshold < 0 || c.IoUThreshold >= 1 {
		return errors.Errorf("iou_threshold must be in [0, 1), got %g", c.IoUThreshold)
	}

	if c.AppearanceThreshold < -1 || c.AppearanceThreshold >= 1 {
		return errors.Errorf("appearance_threshold must be in [-1, 1), got %g",
			c.AppearanceThreshold)
	}

	if c.MaxAge < 0 {
		return errors.Errorf("max_age must not be negative, got %d", c.MaxAge)
	}

	if _, err := tracker.ParseMatchStrategy(c.MatchStrategy); err != nil {
		return errors.Wrap(err, "match_strategy")
	}

	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return errors.Errorf("min_confidence must be between 0 and 1, got %g", c.MinConfidence)
	}

	if c.TrailSize < 0 {
		return errors.Errorf("trail_size must not be negative, got %d", c.TrailSize)
	}

	return nil
}

// NewTracker returns a tracker configured with these parameters
func (c *Config) NewTracker() (*tracker.Tracker, error) {

	strategy, err := tracker.ParseMatchStrategy(c.MatchStrategy)

	if err != nil {
		return nil, errors.Wrap(err, "match_strategy")
	}

	tr := tracker.NewTracker(c.IoUThreshold, c.AppearanceThreshold, c.MaxAge)
	tr.SetMatchStrategy(strategy)

	return tr, nil
}

// JSON returns the configuration encoded as compact JSON, used to record the
// parameters of a run
func (c *Config) JSON() string {
	// a struct of plain values always marshals
	data, _ := json.Marshal(c)
	return string(data)
}
