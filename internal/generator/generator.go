// Package generator grows a layout from an initial room by repeatedly
// attaching new units to open connections until the target count is reached,
// nothing more fits, or a safety limit trips.
package generator

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/backrooms/internal/collision"
	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/connection"
	"github.com/lawnchairsociety/backrooms/internal/layout"
	"github.com/lawnchairsociety/backrooms/internal/strategy"
)

// ErrInvalidInitialUnit is returned by Run when the starting unit is not a
// room or has broken bounds.
var ErrInvalidInitialUnit = errors.New("invalid initial unit")

// Builder materialises a unit that passed collision testing. An error
// rejects the candidate exactly like a collision.
//
// Build is called before the openings between the unit and its source are
// cut. If a cut then fails the candidate is dropped without another call, so
// a builder can see units that never join the layout. Result.Units is the
// authoritative list.
type Builder interface {
	Build(u layout.Unit) error
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(u layout.Unit) error

func (f BuilderFunc) Build(u layout.Unit) error { return f(u) }

// WallOpener cuts openings for finalised connections.
type WallOpener = connection.WallOpener

type noopBuilder struct{}

func (noopBuilder) Build(layout.Unit) error { return nil }

// connKey identifies one connection of one placed unit.
type connKey struct {
	unit, conn int
}

// Orchestrator runs one generation at a time. It is not safe for concurrent use.
type Orchestrator struct {
	cfg     *config.GenerationConfig
	rng     *rand.Rand
	log     *slog.Logger
	now     func() time.Time
	builder Builder
	opener  WallOpener

	selector    *strategy.Selector
	registry    *strategy.Registry
	detector    *collision.Detector
	connections *connection.Manager

	// Per-run state.
	units     []layout.Unit
	frontier  []int
	exhausted mapset.Set[connKey]
	stats     Stats
	start     time.Time
}

// New creates an orchestrator whose random stream is seeded with seed, so
// the same seed and configuration replay the same layout.
func New(cfg *config.GenerationConfig, seed int64) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
		builder:  noopBuilder{},
		selector: strategy.NewSelector(cfg),
		registry: strategy.NewRegistry(),
	}
	o.wire()
	return o
}

// wire rebuilds the services that capture the logger or opener.
func (o *Orchestrator) wire() {
	o.detector = collision.NewDetector(o.cfg, o.log)
	o.connections = connection.NewManager(o.cfg, o.opener, o.log)
}

// SetBuilder installs the collaborator that materialises placed units.
func (o *Orchestrator) SetBuilder(b Builder) {
	if b == nil {
		b = noopBuilder{}
	}
	o.builder = b
}

// SetWallOpener installs the collaborator that cuts openings.
func (o *Orchestrator) SetWallOpener(w WallOpener) {
	o.opener = w
	o.wire()
}

// SetLogger installs the logger used by the run and its services.
func (o *Orchestrator) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	o.log = l
	o.wire()
}

// SetClock replaces the wall clock used for the generation time limit.
func (o *Orchestrator) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	o.now = now
}

// SetRand replaces the random stream.
func (o *Orchestrator) SetRand(rng *rand.Rand) {
	if rng != nil {
		o.rng = rng
	}
}

// Register replaces the strategy for its category.
func (o *Orchestrator) Register(s strategy.Strategy) {
	o.registry.Register(s)
}
