package generator

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/backrooms/internal/collision"
	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
	"github.com/lawnchairsociety/backrooms/internal/strategy"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// frozen keeps the time limit out of the way so runs replay exactly.
func frozen() time.Time { return epoch }

// ticking returns a clock that advances by step on every reading.
func ticking(step time.Duration) func() time.Time {
	now := epoch
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func newTestOrchestrator(cfg *config.GenerationConfig, seed int64) *Orchestrator {
	o := New(cfg, seed)
	o.SetClock(frozen)
	return o
}

func run(t *testing.T, o *Orchestrator, cfg *config.GenerationConfig) *Result {
	t.Helper()
	res, err := o.Run(InitialRoom(cfg, layout.Vec3{}))
	require.NoError(t, err)
	require.NotEmpty(t, res.Units)
	return res
}

// sourceOf returns the unit that unit i was attached to. Every later link
// from i points at a higher index, so the only lower one is the source.
func sourceOf(units []layout.Unit, i int) int {
	for _, c := range units[i].Connections {
		if c.Used && c.ConnectedUnit < i {
			return c.ConnectedUnit
		}
	}
	return -1
}

func TestSingleRoomTargetSkipsLoop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 1

	res := run(t, newTestOrchestrator(cfg, 1), cfg)

	assert.Len(t, res.Units, 1)
	assert.Equal(t, layout.Room, res.Units[0].Category)
	assert.Zero(t, res.Stats.MainLoops)
	assert.False(t, res.Stats.StoppedBySafety)
	assert.False(t, res.Stats.Exhausted)
	assert.Len(t, res.Units[0].Connections, 4)
}

func TestAllStairsConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 2
	cfg.Ratios = config.RatioConfig{Room: 0, Hallway: 0, Stairs: 1}

	o := newTestOrchestrator(cfg, 2)
	res := run(t, o, cfg)

	require.Len(t, res.Units, 2)
	first := res.Units[1]
	assert.Equal(t, layout.Stairs, first.Category)

	// Whatever is attached to that flight next must not be another flight.
	for i := 0; i < 200; i++ {
		next := o.selector.Select(o.rng, &first)
		assert.NotEqual(t, layout.Stairs, next)
	}
}

func TestAllStairsRunTerminates(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 50
	cfg.Ratios = config.RatioConfig{Stairs: 1}

	res := run(t, newTestOrchestrator(cfg, 3), cfg)

	assert.LessOrEqual(t, len(res.Units), cfg.TotalRooms)
	assert.True(t, res.Stats.Exhausted || res.Stats.StoppedBySafety)
	for i := 1; i < len(res.Units); i++ {
		assert.Equal(t, layout.Stairs, res.Units[i].Category)
	}
}

func TestExhaustedIsNotASafetyStop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 10
	cfg.Safety.MaxConnectionRetries = 1

	builds := 0
	o := newTestOrchestrator(cfg, 4)
	o.SetBuilder(BuilderFunc(func(layout.Unit) error {
		builds++
		return errors.New("no room to build")
	}))

	res := run(t, o, cfg)

	assert.Len(t, res.Units, 1)
	assert.Less(t, len(res.Units), cfg.TotalRooms)
	assert.True(t, res.Stats.Exhausted)
	assert.False(t, res.Stats.StoppedBySafety)
	assert.Positive(t, builds)
	assert.Equal(t, 4, res.Stats.MainLoops, "one slot attempt per initial connection")
}

func TestTimeLimitStopsRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 100000
	cfg.Safety.MaxGenerationTime = 0.01

	o := New(cfg, 5)
	o.SetClock(ticking(time.Millisecond))
	res := run(t, o, cfg)

	assert.True(t, res.Stats.StoppedBySafety)
	assert.False(t, res.Stats.Exhausted)
	assert.Less(t, len(res.Units), 20)
	assert.Greater(t, res.Stats.Elapsed, 10*time.Millisecond)
}

func TestTimeLimitWithWallClock(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 100000
	cfg.Safety.MaxGenerationTime = 0.01

	res := run(t, New(cfg, 6), cfg)

	assert.True(t, res.Stats.StoppedBySafety)
	assert.Less(t, len(res.Units), cfg.TotalRooms)
	assert.Less(t, res.Stats.Elapsed, 5*time.Second)
}

func TestIterationLimitStopsRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 100000
	cfg.Safety.MaxSafetyIterations = 50

	res := run(t, newTestOrchestrator(cfg, 7), cfg)

	assert.True(t, res.Stats.StoppedBySafety)
	assert.LessOrEqual(t, res.Stats.PlacementAttempts, 50)
	assert.LessOrEqual(t, res.Stats.ConnectionRetries, 50)
	assert.LessOrEqual(t, res.Stats.MainLoops, 50)
}

func TestRunRejectsInvalidInitialUnit(t *testing.T) {
	cfg := config.DefaultConfig()
	o := newTestOrchestrator(cfg, 8)

	hall := InitialRoom(cfg, layout.Vec3{})
	hall.Category = layout.Hallway
	_, err := o.Run(hall)
	assert.ErrorIs(t, err, ErrInvalidInitialUnit)

	flat := InitialRoom(cfg, layout.Vec3{})
	flat.Height = 0
	_, err = o.Run(flat)
	assert.ErrorIs(t, err, ErrInvalidInitialUnit)
}

func TestSameSeedReplaysLayout(t *testing.T) {
	cfg := config.DefaultConfig()

	a := run(t, newTestOrchestrator(cfg, 42), cfg)
	b := run(t, newTestOrchestrator(cfg, 42), cfg)

	assert.Equal(t, a.Units, b.Units)
	assert.Equal(t, a.Stats, b.Stats)
}

type countingOpener struct{ cuts int }

func (c *countingOpener) CutOpening(layout.Unit, layout.Wall, layout.ConnectionType, float64, float64) error {
	c.cuts++
	return nil
}

func TestCollaboratorsSeeEveryPlacement(t *testing.T) {
	cfg := config.DefaultConfig()
	o := newTestOrchestrator(cfg, 9)

	var built []int
	o.SetBuilder(BuilderFunc(func(u layout.Unit) error {
		built = append(built, u.Index)
		return nil
	}))
	opener := &countingOpener{}
	o.SetWallOpener(opener)

	res := run(t, o, cfg)

	require.Greater(t, len(res.Units), 1)
	assert.Len(t, built, len(res.Units)-1)
	for i, idx := range built {
		assert.Equal(t, i+1, idx)
	}
	assert.Equal(t, 2*(len(res.Units)-1), opener.cuts)
}

func TestOpenerFailureIsRetried(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 5
	o := newTestOrchestrator(cfg, 10)

	calls := 0
	o.SetWallOpener(openerFunc(func() error {
		calls++
		if calls%3 == 0 {
			return errors.New("drill jammed")
		}
		return nil
	}))

	res := run(t, o, cfg)
	assertInvariants(t, cfg, res)
}

func TestFailedCutDropsBuiltUnit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 4
	o := newTestOrchestrator(cfg, 12)

	builds := 0
	o.SetBuilder(BuilderFunc(func(layout.Unit) error {
		builds++
		return nil
	}))
	cuts := 0
	o.SetWallOpener(openerFunc(func() error {
		cuts++
		if cuts == 1 {
			return errors.New("wall would not open")
		}
		return nil
	}))

	res := run(t, o, cfg)

	require.Len(t, res.Units, cfg.TotalRooms)
	assert.Equal(t, len(res.Units), builds, "the candidate whose cut failed was built but not placed")
	assertInvariants(t, cfg, res)
}

type openerFunc func() error

func (f openerFunc) CutOpening(layout.Unit, layout.Wall, layout.ConnectionType, float64, float64) error {
	return f()
}

func TestCustomStrategyIsUsed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 6
	cfg.Ratios = config.RatioConfig{Room: 1}

	o := newTestOrchestrator(cfg, 11)
	o.Register(fixedRoom{})
	res := run(t, o, cfg)

	for _, u := range res.Units[1:] {
		assert.Equal(t, 3.0, u.Width)
		assert.Equal(t, 3.0, u.Length)
	}
}

type fixedRoom struct{ strategy.Standard }

func (fixedRoom) GenerateConnected(_ *config.GenerationConfig, _ *rand.Rand, index int, _ *layout.Unit, _ int) layout.Unit {
	return layout.Unit{Index: index, Category: layout.Room, Width: 3, Length: 3, Height: 3}
}

func TestLayoutInvariantsAcrossSeeds(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		cfg := config.DefaultConfig()
		res := run(t, newTestOrchestrator(cfg, seed), cfg)
		assertInvariants(t, cfg, res)
	}
}

func TestLayoutInvariantsLargeRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TotalRooms = 120
	cfg.Safety.MaxSafetyIterations = 5000

	res := run(t, newTestOrchestrator(cfg, 99), cfg)
	assertInvariants(t, cfg, res)
	assert.Greater(t, len(res.Units), 10)
}

func assertInvariants(t *testing.T, cfg *config.GenerationConfig, res *Result) {
	t.Helper()
	units := res.Units
	detector := collision.NewDetector(cfg, nil)

	assert.LessOrEqual(t, len(units), cfg.TotalRooms, "cap respected")
	assert.Equal(t, layout.Room, units[0].Category)

	for i := range units {
		u := &units[i]
		assert.Equal(t, i, u.Index, "indices are sequential")

		switch u.Category {
		case layout.Stairs:
			assert.Len(t, u.Connections, 1, "unit %d", i)
		default:
			assert.Len(t, u.Connections, 4, "unit %d", i)
		}

		for _, c := range u.Connections {
			if !c.Used {
				assert.Equal(t, -1, c.ConnectedUnit)
				continue
			}
			require.GreaterOrEqual(t, c.ConnectedUnit, 0)
			require.Less(t, c.ConnectedUnit, len(units))

			partner := &units[c.ConnectedUnit]
			pi := partner.ConnectionOn(c.Wall.Opposite())
			require.GreaterOrEqual(t, pi, 0, "unit %d has no wall facing unit %d", c.ConnectedUnit, i)
			pc := partner.Connections[pi]
			assert.True(t, pc.Used)
			assert.Equal(t, i, pc.ConnectedUnit, "reciprocal link")
			assert.Equal(t, c.Type, pc.Type)
			assert.Equal(t, c.Width, pc.Width)
		}

		if i > 0 {
			src := sourceOf(units, i)
			require.GreaterOrEqual(t, src, 0, "unit %d has no source", i)
			if u.Category == layout.Stairs {
				assert.NotEqual(t, layout.Stairs, units[src].Category, "stairs after stairs at %d", i)
			}
		}
	}

	for j := 1; j < len(units); j++ {
		src := sourceOf(units, j)
		grown := detector.ExpandedBounds(&units[j])
		for i := 0; i < j; i++ {
			if i == src {
				continue
			}
			box := units[i].BoundingBox(cfg.Dimensions.WallThickness)
			assert.False(t, grown.Intersects(box), "units %d and %d overlap", i, j)
		}
	}
}
