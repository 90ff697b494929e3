package strategy

import (
	"math/rand"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

const (
	maxRoomAspect   = 3.0
	maxRoomBump     = 0.2
	maxUnitDiameter = 100.0
)

// Standard produces square-ish rooms with a door slot on every wall.
type Standard struct{}

func (Standard) Category() layout.Category { return layout.Room }

func (s Standard) Generate(cfg *config.GenerationConfig, rng *rand.Rand, index int) layout.Unit {
	u := newUnit(cfg, layout.Room, index)
	u.Width, u.Length = s.dimensions(cfg, rng)
	u.Connections = wallConnections(cfg, layout.Walls()...)
	return u
}

// GenerateConnected ignores the source; rooms look the same from every side.
func (s Standard) GenerateConnected(cfg *config.GenerationConfig, rng *rand.Rand, index int, _ *layout.Unit, _ int) layout.Unit {
	return s.Generate(cfg, rng, index)
}

func (Standard) CanGenerate(cfg *config.GenerationConfig, _ *layout.Unit) bool {
	r := cfg.Rooms
	return r.MinSize > 0 && r.MinSize < r.MaxSize && r.MaxSize <= maxUnitDiameter
}

// dimensions draws a base size and bumps one side by up to 20%. Shapes that
// break the size range or the 3:1 aspect limit become a perfect square.
func (Standard) dimensions(cfg *config.GenerationConfig, rng *rand.Rand) (width, length float64) {
	lo, hi := roomSizeRange(cfg)

	base := randRange(rng, lo, hi)
	width, length = base, base

	bump := base * randRange(rng, 0, maxRoomBump)
	if rng.Intn(2) == 0 {
		width += bump
	} else {
		length += bump
	}
	width = clamp(width, lo, hi)
	length = clamp(length, lo, hi)

	aspect := max(width, length) / min(width, length)
	if aspect > maxRoomAspect || width < lo || length < lo {
		return base, base
	}
	return width, length
}

// roomSizeRange returns a usable [lo, hi] even for a broken configuration.
func roomSizeRange(cfg *config.GenerationConfig) (lo, hi float64) {
	lo = max(1.0, cfg.Rooms.MinSize)
	hi = max(lo+0.5, min(cfg.Rooms.MaxSize, maxUnitDiameter))
	return lo, hi
}
