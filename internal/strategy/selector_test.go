package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

func TestSelectorBaseRatios(t *testing.T) {
	cfg := config.DefaultConfig()
	p := NewSelector(cfg).Probabilities(nil)

	assert.InDelta(t, 0.5, p.Room, 1e-9)
	assert.InDelta(t, 0.3, p.Hallway, 1e-9)
	assert.InDelta(t, 0.2, p.Stairs, 1e-9)
}

func TestSelectorBiasFromHallway(t *testing.T) {
	cfg := config.DefaultConfig()
	p := NewSelector(cfg).Probabilities(&layout.Unit{Category: layout.Hallway})

	// 0.5*1.4, 0.3*0.6, 0.2*1.2 renormalised.
	total := 0.7 + 0.18 + 0.24
	assert.InDelta(t, 0.7/total, p.Room, 1e-9)
	assert.InDelta(t, 0.18/total, p.Hallway, 1e-9)
	assert.InDelta(t, 0.24/total, p.Stairs, 1e-9)
}

func TestSelectorNeverStairsAfterStairs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ratios = config.RatioConfig{Stairs: 1}
	s := NewSelector(cfg)
	rng := seeded(10)

	stairs := &layout.Unit{Category: layout.Stairs}
	p := s.Probabilities(stairs)
	assert.Zero(t, p.Stairs)
	assert.InDelta(t, 0.5, p.Room, 1e-9)
	assert.InDelta(t, 0.5, p.Hallway, 1e-9)

	for i := 0; i < 1000; i++ {
		assert.NotEqual(t, layout.Stairs, s.Select(rng, stairs))
	}
}

func TestSelectorAllStairsFromRoom(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ratios = config.RatioConfig{Room: 0, Hallway: 0, Stairs: 1}
	s := NewSelector(cfg)
	rng := seeded(11)

	room := &layout.Unit{Category: layout.Room}
	for i := 0; i < 500; i++ {
		assert.Equal(t, layout.Stairs, s.Select(rng, room))
	}
}

func TestSelectorFloorsEnabledCategories(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ratios = config.RatioConfig{Room: 1, Hallway: 0.001, Stairs: 0}
	p := NewSelector(cfg).Probabilities(&layout.Unit{Category: layout.Room})

	assert.GreaterOrEqual(t, p.Hallway, minProbability*0.99)
	assert.Zero(t, p.Stairs)
	assert.InDelta(t, 1, p.total(), 1e-9)
}

func TestSelectorElevationSuppression(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSelector(cfg)

	ground := s.Probabilities(&layout.Unit{Category: layout.Stairs})
	moderate := s.Probabilities(&layout.Unit{Category: layout.Stairs, Elevation: layout.MetersToWorld(10)})
	high := s.Probabilities(&layout.Unit{Category: layout.Stairs, Elevation: layout.MetersToWorld(-20)})

	assert.Greater(t, moderate.Room, ground.Room)
	assert.Greater(t, high.Room, moderate.Room)
	assert.Zero(t, high.Stairs)
}

func TestSelectorDistribution(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSelector(cfg)
	rng := seeded(12)

	counts := map[layout.Category]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[s.Select(rng, nil)]++
	}

	assert.InDelta(t, 0.5, float64(counts[layout.Room])/n, 0.02)
	assert.InDelta(t, 0.3, float64(counts[layout.Hallway])/n, 0.02)
	assert.InDelta(t, 0.2, float64(counts[layout.Stairs])/n, 0.02)
}
