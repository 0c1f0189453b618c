package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-reidtrack/tracker"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefault(t *testing.T) {

	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.3, cfg.IoUThreshold)
	assert.Equal(t, 0.85, cfg.AppearanceThreshold)
	assert.Equal(t, 30, cfg.MaxAge)
	assert.Equal(t, "greedy", cfg.MatchStrategy)
}

func TestLoadPartial(t *testing.T) {

	path := writeConfig(t, "tuning.json", `{"iou_threshold": 0.5, "match_strategy": "optimal"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.IoUThreshold)
	assert.Equal(t, "optimal", cfg.MatchStrategy)

	// omitted fields keep defaults
	assert.Equal(t, 0.85, cfg.AppearanceThreshold)
	assert.Equal(t, 30, cfg.MaxAge)
}

func TestLoadErrors(t *testing.T) {

	_, err := Load(writeConfig(t, "tuning.yaml", `{}`))
	assert.ErrorContains(t, err, ".json extension")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "stat")

	_, err = Load(writeConfig(t, "bad.json", `{"iou_threshold": `))
	assert.ErrorContains(t, err, "parse")

	_, err = Load(writeConfig(t, "range.json", `{"max_age": -1}`))
	assert.ErrorContains(t, err, "max_age")

	big := `{"match_strategy": "greedy"` + strings.Repeat(" ", maxFileSize) + `}`
	_, err = Load(writeConfig(t, "big.json", big))
	assert.ErrorContains(t, err, "too large")
}

func TestValidate(t *testing.T) {

	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"iou too high", func(c *Config) { c.IoUThreshold = 1 }, "iou_threshold"},
		{"iou negative", func(c *Config) { c.IoUThreshold = -0.1 }, "iou_threshold"},
		{"appearance", func(c *Config) { c.AppearanceThreshold = 1.5 }, "appearance_threshold"},
		{"strategy", func(c *Config) { c.MatchStrategy = "hungarian" }, "match_strategy"},
		{"confidence", func(c *Config) { c.MinConfidence = 2 }, "min_confidence"},
		{"trail", func(c *Config) { c.TrailSize = -3 }, "trail_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestNewTracker(t *testing.T) {

	cfg := Default()
	cfg.MatchStrategy = "optimal"

	tr, err := cfg.NewTracker()
	require.NoError(t, err)
	require.NotNil(t, tr)

	tracks, err := tr.Update([]tracker.Object{
		tracker.NewObject(tracker.NewRect(0, 0, 10, 10), 0, 0.9, 0),
	}, nil)
	require.NoError(t, err)
	assert.Len(t, tracks, 1)

	cfg.MatchStrategy = "nope"
	_, err = cfg.NewTracker()
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {

	js := Default().JSON()

	assert.Contains(t, js, `"iou_threshold":0.3`)
	assert.Contains(t, js, `"match_strategy":"greedy"`)
}
