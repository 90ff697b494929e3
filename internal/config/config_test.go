package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 25, cfg.TotalRooms)
	assert.Equal(t, 2000, cfg.Safety.MaxSafetyIterations)
	assert.Equal(t, 20*time.Second, cfg.Safety.Timeout())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/backrooms.yaml")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 0.5, cfg.Ratios.Room)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "backrooms.yaml")

	content := `
generation:
  total_rooms: 40
  ratios:
    room: 0
    hallway: 0
    stairs: 1
  safety:
    max_generation_time: 0.5
logging:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.TotalRooms)
	assert.Equal(t, RatioConfig{Room: 0, Hallway: 0, Stairs: 1}, cfg.Ratios)
	assert.Equal(t, 500*time.Millisecond, cfg.Safety.Timeout())

	// Fields not in the file keep their defaults.
	assert.Equal(t, 2000, cfg.Safety.MaxSafetyIterations)
	assert.Equal(t, 35.0, cfg.Hallways.LongThreshold)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("generation: [unterminated"), 0644))

	cfg, err := LoadConfig(configPath)
	assert.Error(t, err)
	require.NotNil(t, cfg, "defaults come back alongside the parse error")
	assert.Equal(t, 25, cfg.TotalRooms)
}

func TestNormalizedRatios(t *testing.T) {
	tests := []struct {
		name                  string
		room, hallway, stairs float64
		wantR, wantH, wantS   float64
	}{
		{"defaults", 0.5, 0.3, 0.2, 0.5, 0.3, 0.2},
		{"unnormalised", 2, 1, 1, 0.5, 0.25, 0.25},
		{"all zero", 0, 0, 0, 1.0 / 3, 1.0 / 3, 1.0 / 3},
		{"negative clamps", -1, 1, 0, 0, 1, 0},
		{"all negative", -1, -2, -3, 1.0 / 3, 1.0 / 3, 1.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Ratios = RatioConfig{Room: tt.room, Hallway: tt.hallway, Stairs: tt.stairs}

			r, h, s := cfg.NormalizedRatios()
			assert.InDelta(t, tt.wantR, r, 1e-9)
			assert.InDelta(t, tt.wantH, h, 1e-9)
			assert.InDelta(t, tt.wantS, s, 1e-9)
		})
	}
}

func TestNormalizedHallwayRatios(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hallways.ShortRatio = 1
	cfg.Hallways.MediumRatio = 1
	cfg.Hallways.LongRatio = 2

	short, medium, long := cfg.NormalizedHallwayRatios()
	assert.InDelta(t, 0.25, short, 1e-9)
	assert.InDelta(t, 0.25, medium, 1e-9)
	assert.InDelta(t, 0.5, long, 1e-9)

	cfg.Hallways.ShortRatio, cfg.Hallways.MediumRatio, cfg.Hallways.LongRatio = 0, 0, 0
	short, medium, long = cfg.NormalizedHallwayRatios()
	assert.InDelta(t, 0.2, short, 1e-9, "zero ratios fall back to the default split")
	assert.InDelta(t, 0.3, medium, 1e-9)
	assert.InDelta(t, 0.5, long, 1e-9)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rooms.MinSize = 10
	cfg.Rooms.MaxSize = 5
	cfg.Stairs.MinHeight = -1
	cfg.Connections.DoorwayRatio = 2

	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{"room size range", "stair height range", "doorway_ratio"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig("../../data/backrooms.yaml")
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate(), "shipped config validates")
	assert.Equal(t, DefaultConfig(), cfg, "shipped config drifted from DefaultConfig")
}
