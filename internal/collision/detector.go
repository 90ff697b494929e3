// Package collision rejects candidate units whose bounds are broken or that
// overlap units already placed.
package collision

import (
	"log/slog"
	"math"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

const (
	maxDimension = 100.0   // metres
	maxElevation = 10000.0 // world units
)

// Detector tests candidates against the placed units of a run.
type Detector struct {
	cfg *config.GenerationConfig
	log *slog.Logger
}

// NewDetector returns a detector for cfg. A nil logger discards output.
func NewDetector(cfg *config.GenerationConfig, log *slog.Logger) *Detector {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Detector{cfg: cfg, log: log}
}

// ValidateBounds reports whether u has sane dimensions, elevation and box.
func (d *Detector) ValidateBounds(u *layout.Unit) bool {
	for _, v := range []float64{u.Width, u.Length, u.Height} {
		if math.IsNaN(v) || v <= 0 || v > maxDimension {
			return false
		}
	}
	if math.IsNaN(u.Elevation) || math.Abs(u.Elevation) > maxElevation {
		return false
	}
	return u.BoundingBox(d.cfg.Dimensions.WallThickness).Valid()
}

// ExpandedBounds returns u's box grown by the collision buffer.
func (d *Detector) ExpandedBounds(u *layout.Unit) layout.Box {
	box := u.BoundingBox(d.cfg.Dimensions.WallThickness)
	return box.ExpandBy(layout.MetersToWorld(d.cfg.Dimensions.CollisionBuffer))
}

// OnDifferentLevels reports whether the floors of a and b are further apart
// than the configured separation. A flight of stairs stands on the floor it
// starts from, whatever its rise.
func (d *Detector) OnDifferentLevels(a, b *layout.Unit) bool {
	diff := math.Abs(layout.WorldToMeters(a.FloorZ() - b.FloorZ()))
	return diff > d.cfg.Dimensions.VerticalSeparation
}

// Check reports whether candidate collides with any unit in existing other
// than the one at index exclude. Pass -1 to test against everything. An
// invalid candidate always collides; invalid existing units are ignored.
func (d *Detector) Check(candidate *layout.Unit, existing []layout.Unit, exclude int) bool {
	if !d.ValidateBounds(candidate) {
		d.log.Debug("candidate rejected by bounds validation",
			"index", candidate.Index,
			"category", candidate.Category,
			"width", candidate.Width,
			"length", candidate.Length,
			"elevation", candidate.Elevation)
		return true
	}

	box := d.ExpandedBounds(candidate)
	wt := d.cfg.Dimensions.WallThickness

	for i := range existing {
		if i == exclude {
			continue
		}
		other := &existing[i]
		if !d.ValidateBounds(other) {
			d.log.Warn("skipping placed unit with invalid bounds", "index", other.Index)
			continue
		}
		if !box.Intersects(other.BoundingBox(wt)) {
			continue
		}

		if d.OnDifferentLevels(candidate, other) {
			d.log.Warn("collision between units on different levels",
				"candidate", candidate.Index,
				"existing", other.Index,
				"candidate_elevation", candidate.Elevation,
				"existing_elevation", other.Elevation)
		} else {
			d.log.Debug("collision detected", "candidate", candidate.Index, "existing", other.Index)
		}
		return true
	}
	return false
}
