package strategy

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

// minProbability keeps every enabled category reachable after biasing.
const minProbability = 0.01

// Probabilities is a distribution over the three categories.
type Probabilities struct {
	Room, Hallway, Stairs float64
}

func (p Probabilities) total() float64 {
	return p.Room + p.Hallway + p.Stairs
}

func (p Probabilities) normalized() Probabilities {
	t := p.total()
	if t <= 0 {
		return Probabilities{Room: 1.0 / 3, Hallway: 1.0 / 3, Stairs: 1.0 / 3}
	}
	return Probabilities{Room: p.Room / t, Hallway: p.Hallway / t, Stairs: p.Stairs / t}
}

func (p Probabilities) scaled(w config.Weights) Probabilities {
	return Probabilities{Room: p.Room * w.Room, Hallway: p.Hallway * w.Hallway, Stairs: p.Stairs * w.Stairs}
}

// Selector picks the category of the next unit.
type Selector struct {
	cfg *config.GenerationConfig
}

func NewSelector(cfg *config.GenerationConfig) *Selector {
	return &Selector{cfg: cfg}
}

// Probabilities returns the distribution Select draws from when extending
// source. A nil source yields the configured ratios.
func (s *Selector) Probabilities(source *layout.Unit) Probabilities {
	room, hallway, stairs := s.cfg.NormalizedRatios()
	base := Probabilities{Room: room, Hallway: hallway, Stairs: stairs}
	if source == nil {
		return base
	}

	bias := s.cfg.Bias
	p := base
	switch source.Category {
	case layout.Room:
		p = p.scaled(bias.FromRoom)
	case layout.Hallway:
		p = p.scaled(bias.FromHallway)
	case layout.Stairs:
		p = p.scaled(bias.FromStairs)
		elev := math.Abs(layout.WorldToMeters(source.Elevation))
		switch {
		case elev > bias.HighElevation.Threshold:
			p.Stairs *= bias.HighElevation.Stairs
			p.Room *= bias.HighElevation.Room
		case elev > bias.ModerateElevation.Threshold:
			p.Stairs *= bias.ModerateElevation.Stairs
			p.Room *= bias.ModerateElevation.Room
		}
	}
	p = p.normalized()

	// Floor only the categories the configuration enables, so a zero ratio
	// stays unreachable.
	if base.Room > 0 {
		p.Room = max(p.Room, minProbability)
	}
	if base.Hallway > 0 {
		p.Hallway = max(p.Hallway, minProbability)
	}
	if base.Stairs > 0 {
		p.Stairs = max(p.Stairs, minProbability)
	}

	// Stairs never lead straight into more stairs.
	if source.Category == layout.Stairs {
		sub := Probabilities{Room: p.Room, Hallway: p.Hallway}
		if sub.total() <= 0 {
			return Probabilities{Room: 0.5, Hallway: 0.5}
		}
		return sub.normalized()
	}
	return p.normalized()
}

// Select draws a category for a unit attached to source.
func (s *Selector) Select(rng *rand.Rand, source *layout.Unit) layout.Category {
	p := s.Probabilities(source)

	r := rng.Float64() * p.total()
	switch {
	case r < p.Room:
		return layout.Room
	case r < p.Room+p.Hallway:
		return layout.Hallway
	case p.Stairs > 0:
		return layout.Stairs
	case p.Hallway > 0:
		return layout.Hallway
	default:
		return layout.Room
	}
}
