// Package config holds the tunables for a layout generation run.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GenerationConfig holds every tunable of a generation run. It is treated as
// immutable once a run has started.
type GenerationConfig struct {
	// TotalRooms is the target unit count, including the initial room.
	TotalRooms int `yaml:"total_rooms"`

	Ratios      RatioConfig      `yaml:"ratios"`
	Dimensions  DimensionConfig  `yaml:"dimensions"`
	Connections ConnectionConfig `yaml:"connections"`
	Rooms       RoomConfig       `yaml:"rooms"`
	Hallways    HallwayConfig    `yaml:"hallways"`
	Stairs      StairsConfig     `yaml:"stairs"`
	Safety      SafetyConfig     `yaml:"safety"`
	Bias        BiasConfig       `yaml:"bias"`

	// LoggingInterval is how many main loop iterations pass between progress logs.
	LoggingInterval int `yaml:"logging_interval"`
}

// RatioConfig is the relative weight of each unit category. The values do not
// need to sum to one.
type RatioConfig struct {
	Room    float64 `yaml:"room"`
	Hallway float64 `yaml:"hallway"`
	Stairs  float64 `yaml:"stairs"`
}

// DimensionConfig holds shared geometry settings, all in metres.
type DimensionConfig struct {
	StandardRoomHeight float64 `yaml:"standard_room_height"`
	WallThickness      float64 `yaml:"wall_thickness"`
	CollisionBuffer    float64 `yaml:"collision_buffer"`

	// VerticalSeparation is the elevation difference above which two units are
	// considered to be on different levels.
	VerticalSeparation float64 `yaml:"vertical_separation"`
}

// ConnectionConfig controls how linked units are joined.
type ConnectionConfig struct {
	// DoorwayRatio is the probability that a link becomes a doorway rather
	// than an open archway.
	DoorwayRatio  float64 `yaml:"doorway_ratio"`
	DoorwayWidth  float64 `yaml:"doorway_width"`
	DoorwayHeight float64 `yaml:"doorway_height"`
	OpeningHeight float64 `yaml:"opening_height"`

	// Opening widths are drawn as a fraction of the smaller joined wall and
	// capped at OpeningWallCap of that wall.
	OpeningMinFraction float64 `yaml:"opening_min_fraction"`
	OpeningMaxFraction float64 `yaml:"opening_max_fraction"`
	OpeningWallCap     float64 `yaml:"opening_wall_cap"`
}

// RoomConfig is the size range of standard rooms, in metres.
type RoomConfig struct {
	MinSize float64 `yaml:"min_size"`
	MaxSize float64 `yaml:"max_size"`
}

// HallwayConfig controls hallway dimensions. Lengths below MediumThreshold are
// short, lengths from LongThreshold upward are long.
type HallwayConfig struct {
	MinWidth  float64 `yaml:"min_width"`
	MaxWidth  float64 `yaml:"max_width"`
	MinLength float64 `yaml:"min_length"`
	MaxLength float64 `yaml:"max_length"`

	ShortRatio  float64 `yaml:"short_ratio"`
	MediumRatio float64 `yaml:"medium_ratio"`
	LongRatio   float64 `yaml:"long_ratio"`

	MediumThreshold float64 `yaml:"medium_threshold"`
	LongThreshold   float64 `yaml:"long_threshold"`
}

// StairsConfig is the range of elevation change a flight produces, in metres.
type StairsConfig struct {
	MinHeight float64 `yaml:"min_height"`
	MaxHeight float64 `yaml:"max_height"`
}

// SafetyConfig bounds the work a single run may do.
type SafetyConfig struct {
	MaxAttemptsPerConnection int     `yaml:"max_attempts_per_connection"`
	MaxConnectionRetries     int     `yaml:"max_connection_retries"`
	MaxGenerationTime        float64 `yaml:"max_generation_time"` // seconds
	MaxSafetyIterations      int     `yaml:"max_safety_iterations"`
}

// Timeout returns MaxGenerationTime as a duration.
func (s SafetyConfig) Timeout() time.Duration {
	return time.Duration(s.MaxGenerationTime * float64(time.Second))
}

// Weights is a multiplier per category.
type Weights struct {
	Room    float64 `yaml:"room"`
	Hallway float64 `yaml:"hallway"`
	Stairs  float64 `yaml:"stairs"`
}

// ElevationSuppression damps stairs once a stair source sits more than
// Threshold metres from the ground plane.
type ElevationSuppression struct {
	Threshold float64 `yaml:"threshold"`
	Stairs    float64 `yaml:"stairs"`
	Room      float64 `yaml:"room"`
}

// BiasConfig holds the contextual multipliers the selector applies depending
// on the category of the unit being extended.
type BiasConfig struct {
	FromRoom    Weights `yaml:"from_room"`
	FromHallway Weights `yaml:"from_hallway"`
	FromStairs  Weights `yaml:"from_stairs"`

	HighElevation     ElevationSuppression `yaml:"high_elevation"`
	ModerateElevation ElevationSuppression `yaml:"moderate_elevation"`
}

// generationFile wraps GenerationConfig for YAML parsing so one file can
// carry both the generation and logging blocks.
type generationFile struct {
	Generation GenerationConfig `yaml:"generation"`
}

// DefaultConfig returns a GenerationConfig with the standard tuning.
func DefaultConfig() *GenerationConfig {
	return &GenerationConfig{
		TotalRooms: 25,
		Ratios: RatioConfig{
			Room:    0.5,
			Hallway: 0.3,
			Stairs:  0.2,
		},
		Dimensions: DimensionConfig{
			StandardRoomHeight: 3.0,
			WallThickness:      0.2,
			CollisionBuffer:    0.02,
			VerticalSeparation: 2.0,
		},
		Connections: ConnectionConfig{
			DoorwayRatio:       0.3,
			DoorwayWidth:       0.8,
			DoorwayHeight:      2.0,
			OpeningHeight:      2.5,
			OpeningMinFraction: 0.6,
			OpeningMaxFraction: 0.8,
			OpeningWallCap:     0.9,
		},
		Rooms: RoomConfig{
			MinSize: 2.0,
			MaxSize: 15.0,
		},
		Hallways: HallwayConfig{
			MinWidth:        2.5,
			MaxWidth:        5.0,
			MinLength:       12.0,
			MaxLength:       50.0,
			ShortRatio:      0.2,
			MediumRatio:     0.3,
			LongRatio:       0.5,
			MediumThreshold: 20.0,
			LongThreshold:   35.0,
		},
		Stairs: StairsConfig{
			MinHeight: 2.0,
			MaxHeight: 6.0,
		},
		Safety: SafetyConfig{
			MaxAttemptsPerConnection: 5,
			MaxConnectionRetries:     10,
			MaxGenerationTime:        20.0,
			MaxSafetyIterations:      2000,
		},
		Bias: BiasConfig{
			FromRoom:    Weights{Room: 1.0, Hallway: 1.3, Stairs: 0.8},
			FromHallway: Weights{Room: 1.4, Hallway: 0.6, Stairs: 1.2},
			FromStairs:  Weights{Room: 1.8, Hallway: 1.1, Stairs: 0.3},
			HighElevation: ElevationSuppression{
				Threshold: 15.0,
				Stairs:    0.1,
				Room:      1.5,
			},
			ModerateElevation: ElevationSuppression{
				Threshold: 8.0,
				Stairs:    0.5,
				Room:      1.2,
			},
		},
		LoggingInterval: 50,
	}
}

// LoadConfig loads the generation block of a YAML file over the defaults.
// A missing file yields the defaults; a malformed one yields the defaults and
// the parse error.
func LoadConfig(path string) (*GenerationConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	file := generationFile{Generation: *config}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse generation config: %w", err)
	}

	return &file.Generation, nil
}

// NormalizedRatios returns the category ratios scaled to sum to one.
// Negative ratios count as zero; if nothing is left each category gets a third.
func (c *GenerationConfig) NormalizedRatios() (room, hallway, stairs float64) {
	room = max(c.Ratios.Room, 0)
	hallway = max(c.Ratios.Hallway, 0)
	stairs = max(c.Ratios.Stairs, 0)

	total := room + hallway + stairs
	if total <= 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return room / total, hallway / total, stairs / total
}

// NormalizedHallwayRatios returns the short/medium/long ratios scaled to sum
// to one, falling back to the default split when all are zero.
func (c *GenerationConfig) NormalizedHallwayRatios() (short, medium, long float64) {
	short = max(c.Hallways.ShortRatio, 0)
	medium = max(c.Hallways.MediumRatio, 0)
	long = max(c.Hallways.LongRatio, 0)

	total := short + medium + long
	if total <= 0 {
		return 0.2, 0.3, 0.5
	}
	return short / total, medium / total, long / total
}

// Validate reports every setting the strategies will have to replace with a
// fallback. A non-nil result never prevents a run.
func (c *GenerationConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.TotalRooms >= 1, "total_rooms must be at least 1, got %d", c.TotalRooms)

	r := c.Ratios
	check(r.Room >= 0 && r.Hallway >= 0 && r.Stairs >= 0, "ratios must not be negative")
	check(r.Room+r.Hallway+r.Stairs > 0, "at least one category ratio must be positive")

	check(c.Rooms.MinSize > 0 && c.Rooms.MinSize < c.Rooms.MaxSize,
		"room size range [%g, %g] must be positive and increasing", c.Rooms.MinSize, c.Rooms.MaxSize)

	h := c.Hallways
	check(h.MinWidth > 0 && h.MinWidth < h.MaxWidth,
		"hallway width range [%g, %g] must be positive and increasing", h.MinWidth, h.MaxWidth)
	check(h.MinLength > 0 && h.MinLength < h.MaxLength,
		"hallway length range [%g, %g] must be positive and increasing", h.MinLength, h.MaxLength)
	check(h.MediumThreshold < h.LongThreshold,
		"hallway thresholds must increase, got medium %g long %g", h.MediumThreshold, h.LongThreshold)

	check(c.Stairs.MinHeight > 0 && c.Stairs.MinHeight < c.Stairs.MaxHeight,
		"stair height range [%g, %g] must be positive and increasing", c.Stairs.MinHeight, c.Stairs.MaxHeight)

	check(c.Connections.DoorwayRatio >= 0 && c.Connections.DoorwayRatio <= 1,
		"doorway_ratio must be within [0, 1], got %g", c.Connections.DoorwayRatio)
	check(c.Dimensions.WallThickness >= 0, "wall_thickness must not be negative")
	check(c.Dimensions.StandardRoomHeight > 0, "standard_room_height must be positive")

	s := c.Safety
	check(s.MaxAttemptsPerConnection > 0, "max_attempts_per_connection must be positive")
	check(s.MaxConnectionRetries > 0, "max_connection_retries must be positive")
	check(s.MaxGenerationTime > 0, "max_generation_time must be positive")
	check(s.MaxSafetyIterations > 0, "max_safety_iterations must be positive")

	return errors.Join(errs...)
}
