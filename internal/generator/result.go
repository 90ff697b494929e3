package generator

import (
	"time"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

// Stats describes how a run went.
type Stats struct {
	MainLoops         int
	ConnectionRetries int
	PlacementAttempts int
	Elapsed           time.Duration

	// StoppedBySafety is set when a time or iteration limit halted the run.
	StoppedBySafety bool

	// Exhausted is set when the run ended because no open connection was
	// left to extend.
	Exhausted bool
}

// Result is the outcome of a run.
type Result struct {
	Units []layout.Unit
	Stats Stats
}

// Counts returns the number of placed units per category.
func (r *Result) Counts() map[layout.Category]int {
	counts := make(map[layout.Category]int, 3)
	for _, u := range r.Units {
		counts[u.Category]++
	}
	return counts
}

// InitialRoom returns the default 5x5m starting room with its floor at origin.
// Run fills in its connections.
func InitialRoom(cfg *config.GenerationConfig, origin layout.Vec3) layout.Unit {
	height := cfg.Dimensions.StandardRoomHeight
	if height <= 0 {
		height = 3
	}
	return layout.Unit{
		Index:          0,
		Category:       layout.Room,
		Position:       origin,
		Width:          5,
		Length:         5,
		Height:         height,
		StairDirection: layout.WallNone,
	}
}
