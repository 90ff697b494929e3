// Package layout holds the data model shared by every stage of the generator:
// units, their connections, wall sides, and the axis-aligned boxes used for
// collision tests.
//
// Positions and elevations are in world units (centimetres). Unit dimensions,
// wall thickness and opening widths are in metres.
package layout

import (
	"fmt"
	"strings"
)

// WorldUnitsPerMeter converts metres to world units.
const WorldUnitsPerMeter = 100.0

// MetersToWorld converts a length in metres to world units.
func MetersToWorld(m float64) float64 {
	return m * WorldUnitsPerMeter
}

// WorldToMeters converts a length in world units to metres.
func WorldToMeters(w float64) float64 {
	return w / WorldUnitsPerMeter
}

// Category is the kind of a placed unit.
type Category int

const (
	Room Category = iota
	Hallway
	Stairs
)

// Categories returns every category in selection order.
func Categories() []Category {
	return []Category{Room, Hallway, Stairs}
}

func (c Category) String() string {
	switch c {
	case Room:
		return "room"
	case Hallway:
		return "hallway"
	case Stairs:
		return "stairs"
	}
	return "unknown"
}

// ParseCategory converts a category name back to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "room":
		return Room, nil
	case "hallway":
		return Hallway, nil
	case "stairs":
		return Stairs, nil
	}
	return Room, fmt.Errorf("unknown category %q", s)
}

// Wall is one side of a unit's footprint. North is +Y, East is +X.
type Wall int

const (
	WallNone Wall = iota
	North
	East
	South
	West
)

// Walls returns the four cardinal walls.
func Walls() []Wall {
	return []Wall{North, East, South, West}
}

// Opposite returns the wall facing this one.
func (w Wall) Opposite() Wall {
	switch w {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return WallNone
}

func (w Wall) String() string {
	switch w {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "none"
}

// ParseWall converts a wall name back to a Wall. Empty string is WallNone.
func ParseWall(s string) (Wall, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north":
		return North, nil
	case "east":
		return East, nil
	case "south":
		return South, nil
	case "west":
		return West, nil
	case "", "none":
		return WallNone, nil
	}
	return WallNone, fmt.Errorf("unknown wall %q", s)
}

// ConnectionType is how two linked units are joined.
type ConnectionType int

const (
	Doorway ConnectionType = iota
	Opening
)

func (t ConnectionType) String() string {
	if t == Opening {
		return "opening"
	}
	return "doorway"
}

// ParseConnectionType converts a connection type name back to a ConnectionType.
func ParseConnectionType(s string) (ConnectionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "doorway", "":
		return Doorway, nil
	case "opening":
		return Opening, nil
	}
	return Doorway, fmt.Errorf("unknown connection type %q", s)
}
