package generator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/backrooms/internal/layout"
)

var (
	errCollision = errors.New("collision")
	errNoPartner = errors.New("candidate has no connection facing the source")
)

// Run grows a layout from initial, which becomes unit 0. The returned error
// is non-nil only when initial is unusable; safety trips and exhaustion are
// reported through Result.Stats.
func (o *Orchestrator) Run(initial layout.Unit) (*Result, error) {
	if initial.Category != layout.Room {
		return nil, fmt.Errorf("%w: category %s", ErrInvalidInitialUnit, initial.Category)
	}
	initial.Index = 0
	if len(initial.Connections) == 0 {
		o.connections.CreateConnections(&initial)
	}
	if !o.detector.ValidateBounds(&initial) {
		return nil, fmt.Errorf("%w: bounds out of range", ErrInvalidInitialUnit)
	}

	o.units = []layout.Unit{initial}
	o.frontier = []int{0}
	o.exhausted = mapset.New[connKey]()
	o.stats = Stats{}
	o.start = o.now()

	o.log.Info("generation started",
		"target", o.cfg.TotalRooms,
		"timeout", o.cfg.Safety.Timeout(),
		"max_iterations", o.cfg.Safety.MaxSafetyIterations)

	for len(o.units) < o.cfg.TotalRooms {
		if len(o.frontier) == 0 {
			o.stats.Exhausted = true
			o.log.Info("no open connections left", "units", len(o.units))
			break
		}

		o.stats.MainLoops++
		if o.tripped() {
			break
		}
		o.logProgress()

		if !o.fillSlot() && !o.stats.StoppedBySafety {
			o.log.Debug("slot not filled, retrying", "index", len(o.units), "frontier", len(o.frontier))
		}
		o.pruneFrontier()
	}

	o.stats.Elapsed = o.now().Sub(o.start)
	result := &Result{Units: o.units, Stats: o.stats}

	counts := result.Counts()
	o.log.Info("generation finished",
		"units", len(result.Units),
		"rooms", counts[layout.Room],
		"hallways", counts[layout.Hallway],
		"stairs", counts[layout.Stairs],
		"main_loops", o.stats.MainLoops,
		"connection_retries", o.stats.ConnectionRetries,
		"placement_attempts", o.stats.PlacementAttempts,
		"elapsed", o.stats.Elapsed,
		"stopped_by_safety", o.stats.StoppedBySafety,
		"exhausted", o.stats.Exhausted)

	o.units, o.frontier = nil, nil
	return result, nil
}

// fillSlot tries to place the next unit, picking a fresh source connection
// whenever one runs out of attempts.
func (o *Orchestrator) fillSlot() bool {
	retries := max(1, o.cfg.Safety.MaxConnectionRetries)
	for retry := 0; retry < retries; retry++ {
		o.stats.ConnectionRetries++
		if o.tripped() {
			return false
		}

		src, conn, ok := o.selectSource()
		if !ok {
			return false
		}
		if o.tryConnection(src, conn) {
			return true
		}

		o.exhausted.Put(connKey{unit: src, conn: conn})
		o.log.Debug("connection exhausted", "unit", src, "connection", conn, "retry", retry+1)
	}
	return false
}

// selectSource picks a random frontier unit and one of its usable
// connections, dropping frontier units that have none left.
func (o *Orchestrator) selectSource() (unit, conn int, ok bool) {
	for len(o.frontier) > 0 {
		pos := o.rng.Intn(len(o.frontier))
		unit = o.frontier[pos]

		open := o.usableConnections(unit)
		if len(open) == 0 {
			o.frontier = slices.Delete(o.frontier, pos, pos+1)
			continue
		}
		return unit, open[o.rng.Intn(len(open))], true
	}
	return 0, 0, false
}

func (o *Orchestrator) usableConnections(unit int) []int {
	var usable []int
	for _, ci := range o.units[unit].OpenConnections() {
		if !o.exhausted.Has(connKey{unit: unit, conn: ci}) {
			usable = append(usable, ci)
		}
	}
	return usable
}

// tryConnection makes up to MaxAttemptsPerConnection candidates for one
// source connection and commits the first that fits.
func (o *Orchestrator) tryConnection(src, conn int) bool {
	index := len(o.units)
	attempts := max(1, o.cfg.Safety.MaxAttemptsPerConnection)

	for attempt := 0; attempt < attempts; attempt++ {
		o.stats.PlacementAttempts++
		if o.tripped() {
			return false
		}

		source := &o.units[src]
		category := o.selector.Select(o.rng, source)
		strat := o.registry.For(category)
		if !strat.CanGenerate(o.cfg, source) {
			o.log.Debug("strategy unavailable, using standard room", "category", category, "source", src)
			strat = o.registry.For(layout.Room)
		}

		candidate := strat.GenerateConnected(o.cfg, o.rng, index, source, conn)
		if err := o.place(source, conn, &candidate); err != nil {
			o.log.Debug("placement rejected",
				"index", index,
				"category", candidate.Category,
				"source", src,
				"attempt", attempt+1,
				"reason", err)
			continue
		}

		o.units = append(o.units, candidate)
		if candidate.HasOpenConnection() {
			o.frontier = append(o.frontier, index)
		}
		o.log.Debug("unit placed",
			"index", index,
			"category", candidate.Category,
			"width", candidate.Width,
			"length", candidate.Length,
			"elevation", candidate.Elevation,
			"source", src)
		return true
	}
	return false
}

// place positions candidate against the source connection, tests it, has it
// built and links it to the source. On error the source is left untouched.
func (o *Orchestrator) place(source *layout.Unit, conn int, candidate *layout.Unit) error {
	o.connections.HandleStairsElevation(source, candidate)

	pos, err := o.connections.CalculatePosition(source, conn, candidate)
	if err != nil {
		return err
	}
	candidate.Position = pos
	o.connections.CreateConnections(candidate)

	partner := candidate.ConnectionOn(source.Connections[conn].Wall.Opposite())
	if partner < 0 {
		return errNoPartner
	}

	if o.detector.Check(candidate, o.units, source.Index) {
		return errCollision
	}

	if err := o.builder.Build(*candidate); err != nil {
		return fmt.Errorf("build unit %d: %w", candidate.Index, err)
	}

	return o.connections.Connect(source, conn, candidate, partner, o.rng)
}

// pruneFrontier drops units with no usable connection left.
func (o *Orchestrator) pruneFrontier() {
	o.frontier = slices.DeleteFunc(o.frontier, func(unit int) bool {
		return len(o.usableConnections(unit)) == 0
	})
}

// tripped checks the time and iteration limits, latching StoppedBySafety.
func (o *Orchestrator) tripped() bool {
	if o.stats.StoppedBySafety {
		return true
	}

	limit := o.cfg.Safety.MaxSafetyIterations
	elapsed := o.now().Sub(o.start)

	var reason string
	switch {
	case elapsed > o.cfg.Safety.Timeout():
		reason = "time limit"
	case o.stats.MainLoops >= limit:
		reason = "main loop limit"
	case o.stats.ConnectionRetries >= limit:
		reason = "connection retry limit"
	case o.stats.PlacementAttempts >= limit:
		reason = "placement attempt limit"
	default:
		return false
	}

	o.stats.StoppedBySafety = true
	o.log.Warn("generation stopped by safety limit",
		"reason", reason,
		"units", len(o.units),
		"elapsed", elapsed,
		"main_loops", o.stats.MainLoops,
		"connection_retries", o.stats.ConnectionRetries,
		"placement_attempts", o.stats.PlacementAttempts)
	return true
}

func (o *Orchestrator) logProgress() {
	interval := o.cfg.LoggingInterval
	if interval <= 0 || o.stats.MainLoops%interval != 0 {
		return
	}
	o.log.Info("generation progress",
		"units", len(o.units),
		"target", o.cfg.TotalRooms,
		"frontier", len(o.frontier),
		"main_loops", o.stats.MainLoops,
		"elapsed", o.now().Sub(o.start))
}
