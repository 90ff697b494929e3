package strategy

import (
	"math/rand"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

const (
	minHallwayAspect  = 1.2
	maxHallwayAspect  = 10.0
	hallwaySwapChance = 0.25
	minHallwaySide    = 1.0
)

// HallwayClass buckets hallways by their long dimension.
type HallwayClass int

const (
	ShortHallway HallwayClass = iota
	MediumHallway
	LongHallway
)

func (c HallwayClass) String() string {
	switch c {
	case ShortHallway:
		return "short"
	case MediumHallway:
		return "medium"
	case LongHallway:
		return "long"
	}
	return "unknown"
}

// Hallway produces long narrow corridors.
type Hallway struct{}

func (Hallway) Category() layout.Category { return layout.Hallway }

func (h Hallway) Generate(cfg *config.GenerationConfig, rng *rand.Rand, index int) layout.Unit {
	u := newUnit(cfg, layout.Hallway, index)
	u.Width, u.Length, _ = h.dimensions(cfg, rng)
	u.Connections = wallConnections(cfg, layout.Walls()...)
	return u
}

// GenerateConnected orients the hallway so it runs away from the source wall:
// north/south sources get a hallway long in Y, east/west sources long in X.
func (h Hallway) GenerateConnected(cfg *config.GenerationConfig, rng *rand.Rand, index int, source *layout.Unit, connIndex int) layout.Unit {
	u := h.Generate(cfg, rng, index)

	switch sourceWall(source, connIndex) {
	case layout.North, layout.South:
		if u.Width > u.Length {
			u.Width, u.Length = u.Length, u.Width
		}
	case layout.East, layout.West:
		if u.Length > u.Width {
			u.Width, u.Length = u.Length, u.Width
		}
	}
	return u
}

func (Hallway) CanGenerate(cfg *config.GenerationConfig, _ *layout.Unit) bool {
	c := cfg.Hallways
	validRange := c.MinWidth > 0 && c.MaxWidth > c.MinWidth &&
		c.MinLength > 0 && c.MaxLength > c.MinLength &&
		c.MaxWidth <= maxUnitDiameter && c.MaxLength <= maxUnitDiameter
	return validRange && c.MinLength > c.MaxWidth*0.8
}

// LengthRange returns the [lo, hi] length sub-range of a class.
func (Hallway) LengthRange(cfg *config.GenerationConfig, class HallwayClass) (lo, hi float64) {
	c := cfg.Hallways
	maxLen := min(c.MaxLength, maxUnitDiameter)

	switch class {
	case ShortHallway:
		lo, hi = max(2.0, c.MinLength), min(c.MediumThreshold, maxLen)
	case MediumHallway:
		lo, hi = c.MediumThreshold, min(c.LongThreshold, maxLen)
	default:
		lo, hi = c.LongThreshold, maxLen
	}

	lo = max(lo, minHallwaySide)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func (h Hallway) pickClass(cfg *config.GenerationConfig, rng *rand.Rand) HallwayClass {
	short, medium, _ := cfg.NormalizedHallwayRatios()

	r := rng.Float64()
	switch {
	case r < short:
		return ShortHallway
	case r < short+medium:
		return MediumHallway
	default:
		return LongHallway
	}
}

// dimensions returns a hallway footprint whose long side always lies in the
// range of the returned class.
func (h Hallway) dimensions(cfg *config.GenerationConfig, rng *rand.Rand) (width, length float64, class HallwayClass) {
	minW := max(minHallwaySide, cfg.Hallways.MinWidth)
	maxW := max(minW+0.5, cfg.Hallways.MaxWidth)

	width = randRange(rng, minW, maxW)
	class = h.pickClass(cfg, rng)
	lo, hi := h.LengthRange(cfg, class)
	length = randRange(rng, lo, hi)

	// Length must be at least twice the width. When the class cannot reach
	// that the hallway gets narrower instead.
	if length < 2*width {
		length = min(2*width, hi)
		if length < 2*width {
			width = length / 2
		}
	}

	if rng.Float64() < hallwaySwapChance {
		width, length = length, width
	}

	if !validHallway(width, length) {
		class = LongHallway
		lo, hi = h.LengthRange(cfg, class)
		length = randRange(rng, lo, hi)
		width = clamp(max(2.5, length/maxHallwayAspect), minW, maxW)
		width = min(width, length/minHallwayAspect)
	}
	return width, length, class
}

func validHallway(width, length float64) bool {
	if width < minHallwaySide/2 || length < minHallwaySide/2 {
		return false
	}
	if width > maxUnitDiameter || length > maxUnitDiameter {
		return false
	}
	aspect := max(width, length) / min(width, length)
	return aspect >= minHallwayAspect && aspect <= maxHallwayAspect
}
