// Package strategy produces candidate units for each category and chooses
// which category to place next.
package strategy

import (
	"math/rand"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

// Strategy builds unpositioned candidate units of one category.
type Strategy interface {
	Category() layout.Category

	// Generate builds a unit with no knowledge of where it will attach.
	Generate(cfg *config.GenerationConfig, rng *rand.Rand, index int) layout.Unit

	// GenerateConnected builds a unit that will attach to connection
	// connIndex of source.
	GenerateConnected(cfg *config.GenerationConfig, rng *rand.Rand, index int, source *layout.Unit, connIndex int) layout.Unit

	// CanGenerate reports whether the configuration (and source, if any)
	// allow this category at all.
	CanGenerate(cfg *config.GenerationConfig, source *layout.Unit) bool
}

// randRange returns a uniform value in [lo, hi).
func randRange(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// newUnit returns an unpositioned unit with the shared defaults filled in.
func newUnit(cfg *config.GenerationConfig, category layout.Category, index int) layout.Unit {
	height := cfg.Dimensions.StandardRoomHeight
	if height <= 0 {
		height = 3.0
	}
	return layout.Unit{
		Index:          index,
		Category:       category,
		Height:         height,
		StairDirection: layout.WallNone,
	}
}

// wallConnections returns one open doorway connection per wall given.
// Points are filled in once the unit is positioned.
func wallConnections(cfg *config.GenerationConfig, walls ...layout.Wall) []layout.Connection {
	conns := make([]layout.Connection, 0, len(walls))
	for _, w := range walls {
		conns = append(conns, layout.Connection{
			Wall:          w,
			ConnectedUnit: -1,
			Type:          layout.Doorway,
			Width:         cfg.Connections.DoorwayWidth,
		})
	}
	return conns
}

// sourceWall returns the wall of source's connection connIndex, or WallNone.
func sourceWall(source *layout.Unit, connIndex int) layout.Wall {
	if source == nil || connIndex < 0 || connIndex >= len(source.Connections) {
		return layout.WallNone
	}
	return source.Connections[connIndex].Wall
}
