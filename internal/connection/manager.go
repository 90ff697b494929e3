// Package connection places candidate units against the connection they
// attach to and links placed units together.
package connection

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/lawnchairsociety/backrooms/internal/config"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

// antiOverlapGap keeps neighbouring walls from sharing a plane, in metres.
const antiOverlapGap = 0.01

// ErrInvalidConnection is returned when a connection index does not exist.
var ErrInvalidConnection = errors.New("invalid connection index")

// WallOpener cuts the physical gap for a finalised connection. The manager
// calls it once per side.
type WallOpener interface {
	CutOpening(u layout.Unit, wall layout.Wall, kind layout.ConnectionType, width, height float64) error
}

type noopOpener struct{}

func (noopOpener) CutOpening(layout.Unit, layout.Wall, layout.ConnectionType, float64, float64) error {
	return nil
}

// Manager computes connection geometry and links units.
type Manager struct {
	cfg    *config.GenerationConfig
	opener WallOpener
	log    *slog.Logger
}

// NewManager returns a manager. A nil opener skips cutting and a nil logger
// discards output.
func NewManager(cfg *config.GenerationConfig, opener WallOpener, log *slog.Logger) *Manager {
	if opener == nil {
		opener = noopOpener{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Manager{cfg: cfg, opener: opener, log: log}
}

// ConnectionPoint returns the world point at the centre of wall w at floor
// level. Stairs use their base, whatever their rise.
func (m *Manager) ConnectionPoint(u *layout.Unit, w layout.Wall) layout.Vec3 {
	halfW := layout.MetersToWorld(u.Width) / 2
	halfL := layout.MetersToWorld(u.Length) / 2
	center := layout.Vec3{
		X: u.Position.X + halfW,
		Y: u.Position.Y + halfL,
		Z: u.FloorZ(),
	}

	switch w {
	case layout.North:
		center.Y += halfL
	case layout.South:
		center.Y -= halfL
	case layout.East:
		center.X += halfW
	case layout.West:
		center.X -= halfW
	}
	return center
}

// CreateConnections replaces u's connections with open ones at their world
// points: all four walls for rooms and hallways, only the foot of a flight
// of stairs.
func (m *Manager) CreateConnections(u *layout.Unit) {
	walls := layout.Walls()
	if u.Category == layout.Stairs {
		walls = []layout.Wall{u.StairDirection.Opposite()}
	}

	u.Connections = make([]layout.Connection, 0, len(walls))
	for _, w := range walls {
		u.Connections = append(u.Connections, layout.Connection{
			Wall:          w,
			ConnectedUnit: -1,
			Type:          layout.Doorway,
			Width:         m.cfg.Connections.DoorwayWidth,
			Point:         m.ConnectionPoint(u, w),
		})
	}
}

// HandleStairsElevation lifts a candidate leaving a flight of stairs to the
// flight's elevation.
func (m *Manager) HandleStairsElevation(source, candidate *layout.Unit) {
	if source.Category != layout.Stairs {
		return
	}
	candidate.Elevation = source.Elevation
	m.log.Debug("candidate inherits stair elevation",
		"source", source.Index,
		"candidate", candidate.Index,
		"elevation", candidate.Elevation)
}

// CalculatePosition returns the corner position that puts candidate just
// outside the wall of source's connection connIndex, centred on it.
func (m *Manager) CalculatePosition(source *layout.Unit, connIndex int, candidate *layout.Unit) (layout.Vec3, error) {
	if connIndex < 0 || connIndex >= len(source.Connections) {
		return layout.Vec3{}, fmt.Errorf("unit %d connection %d: %w", source.Index, connIndex, ErrInvalidConnection)
	}
	conn := source.Connections[connIndex]
	point := conn.Point

	var zOffset float64
	if source.Category == layout.Stairs {
		zOffset = -candidate.Elevation
	}

	push := layout.MetersToWorld(m.cfg.Dimensions.WallThickness + antiOverlapGap)
	w := layout.MetersToWorld(candidate.Width)
	l := layout.MetersToWorld(candidate.Length)

	var offset layout.Vec3
	switch conn.Wall {
	case layout.North:
		offset = layout.Vec3{X: -w / 2, Y: push}
	case layout.South:
		offset = layout.Vec3{X: -w / 2, Y: -l - push}
	case layout.East:
		offset = layout.Vec3{X: push, Y: -l / 2}
	case layout.West:
		offset = layout.Vec3{X: -w - push, Y: -l / 2}
	default:
		return layout.Vec3{}, fmt.Errorf("unit %d connection %d has no wall: %w", source.Index, connIndex, ErrInvalidConnection)
	}
	offset.Z = zOffset

	return point.Add(offset), nil
}

// Properties picks the type, width and height of a link between wall aw of
// a and wall bw of b.
func (m *Manager) Properties(a *layout.Unit, aw layout.Wall, b *layout.Unit, bw layout.Wall, rng *rand.Rand) (layout.ConnectionType, float64, float64) {
	c := m.cfg.Connections
	if rng.Float64() < c.DoorwayRatio {
		return layout.Doorway, c.DoorwayWidth, c.DoorwayHeight
	}

	span := min(a.WallSpan(aw), b.WallSpan(bw))
	ratio := c.OpeningMinFraction
	if c.OpeningMaxFraction > c.OpeningMinFraction {
		ratio += rng.Float64() * (c.OpeningMaxFraction - c.OpeningMinFraction)
	}

	width := span * ratio
	width = max(width, c.DoorwayWidth)
	width = min(width, span*c.OpeningWallCap)
	return layout.Opening, width, c.OpeningHeight
}

// Connect links connection ai of a with connection bi of b. Openings are
// cut on both sides first; if either cut fails neither connection changes.
func (m *Manager) Connect(a *layout.Unit, ai int, b *layout.Unit, bi int, rng *rand.Rand) error {
	if ai < 0 || ai >= len(a.Connections) {
		return fmt.Errorf("unit %d connection %d: %w", a.Index, ai, ErrInvalidConnection)
	}
	if bi < 0 || bi >= len(b.Connections) {
		return fmt.Errorf("unit %d connection %d: %w", b.Index, bi, ErrInvalidConnection)
	}

	aw, bw := a.Connections[ai].Wall, b.Connections[bi].Wall
	kind, width, height := m.Properties(a, aw, b, bw, rng)

	if err := m.opener.CutOpening(*a, aw, kind, width, height); err != nil {
		return fmt.Errorf("cut %s opening in unit %d: %w", aw, a.Index, err)
	}
	if err := m.opener.CutOpening(*b, bw, kind, width, height); err != nil {
		return fmt.Errorf("cut %s opening in unit %d: %w", bw, b.Index, err)
	}

	link(&a.Connections[ai], b.Index, kind, width)
	link(&b.Connections[bi], a.Index, kind, width)

	m.log.Debug("connected units",
		"a", a.Index,
		"b", b.Index,
		"type", kind,
		"width", width)
	return nil
}

func link(c *layout.Connection, to int, kind layout.ConnectionType, width float64) {
	c.Used = true
	c.ConnectedUnit = to
	c.Type = kind
	c.Width = width
}
