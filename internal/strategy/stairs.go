package strategy

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

const (
	minStairSide       = 2.5
	maxStairSide       = 12.0
	maxStairVariation  = 0.1
	maxStairAspect     = 2.0
	maxStairRise       = 20.0 // metres
	maxStairSourceElev = 30.0 // metres from the ground plane
	maxStairRoomSize   = 50.0
	tallStairFactor    = 1.5
)

// Stairs produces near-square flights that change elevation. A flight has a
// single connection, at its foot, on the wall opposite its ascent direction.
type Stairs struct{}

func (Stairs) Category() layout.Category { return layout.Stairs }

func (s Stairs) Generate(cfg *config.GenerationConfig, rng *rand.Rand, index int) layout.Unit {
	u := newUnit(cfg, layout.Stairs, index)
	u.Width, u.Length = s.dimensions(cfg, rng)
	u.StairDirection = layout.Walls()[rng.Intn(4)]
	u.Elevation = s.elevationChange(cfg, rng, rng.Intn(2) == 0)
	s.adjustHeight(cfg, &u, u.Elevation)
	u.Connections = wallConnections(cfg, u.StairDirection.Opposite())
	return u
}

// GenerateConnected ascends away from the source so the foot of the flight
// faces the connection it hangs off. Flights starting above the ground plane
// prefer to go down and flights below it prefer to go up.
func (s Stairs) GenerateConnected(cfg *config.GenerationConfig, rng *rand.Rand, index int, source *layout.Unit, connIndex int) layout.Unit {
	if source == nil {
		return s.Generate(cfg, rng, index)
	}

	u := newUnit(cfg, layout.Stairs, index)
	u.Width, u.Length = s.dimensions(cfg, rng)

	u.StairDirection = sourceWall(source, connIndex)
	if u.StairDirection == layout.WallNone {
		u.StairDirection = layout.Walls()[rng.Intn(4)]
	}

	upChance := 0.5
	switch {
	case source.Elevation > 0:
		upChance = 0.3
	case source.Elevation < 0:
		upChance = 0.7
	}

	change := s.elevationChange(cfg, rng, rng.Float64() < upChance)
	u.Elevation = source.Elevation + change
	s.adjustHeight(cfg, &u, change)
	u.Connections = wallConnections(cfg, u.StairDirection.Opposite())
	return u
}

func (Stairs) CanGenerate(cfg *config.GenerationConfig, source *layout.Unit) bool {
	st := cfg.Stairs
	if st.MinHeight <= 0 || st.MaxHeight <= st.MinHeight || st.MaxHeight > maxStairRise {
		return false
	}
	r := cfg.Rooms
	if r.MinSize <= 0 || r.MaxSize <= r.MinSize || r.MaxSize > maxStairRoomSize {
		return false
	}
	if source != nil && source.Category == layout.Stairs &&
		math.Abs(layout.WorldToMeters(source.Elevation)) > maxStairSourceElev {
		return false
	}
	return true
}

// dimensions draws a near-square footprint; more than 2:1 falls back to a square.
func (Stairs) dimensions(cfg *config.GenerationConfig, rng *rand.Rand) (width, length float64) {
	lo := max(minStairSide, cfg.Rooms.MinSize)
	hi := max(lo+1, min(cfg.Rooms.MaxSize, maxStairSide))

	base := randRange(rng, lo, hi)
	variation := base * randRange(rng, 0, maxStairVariation)
	if rng.Intn(2) == 0 {
		variation = -variation
	}

	width, length = base, base
	if rng.Intn(2) == 0 {
		length += variation
	} else {
		width += variation
	}
	width = clamp(width, lo, hi)
	length = clamp(length, lo, hi)

	if max(width, length)/min(width, length) > maxStairAspect {
		return base, base
	}
	return width, length
}

// elevationChange returns a signed rise in world units.
func (Stairs) elevationChange(cfg *config.GenerationConfig, rng *rand.Rand, up bool) float64 {
	lo := max(1.0, cfg.Stairs.MinHeight)
	hi := max(lo+0.5, cfg.Stairs.MaxHeight)

	change := layout.MetersToWorld(randRange(rng, lo, hi))
	if !up {
		change = -change
	}
	return change
}

// adjustHeight gives very tall flights extra headroom.
func (Stairs) adjustHeight(cfg *config.GenerationConfig, u *layout.Unit, change float64) {
	rise := math.Abs(layout.WorldToMeters(change))
	standard := cfg.Dimensions.StandardRoomHeight
	if standard > 0 && rise > standard*tallStairFactor {
		u.Height = standard + rise/2
	}
}
