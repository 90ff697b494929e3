package layout

// Connection is a potential or realised link on one wall of a unit.
type Connection struct {
	Wall          Wall
	Used          bool
	ConnectedUnit int // -1 while unused
	Type          ConnectionType
	Width         float64 // metres
	Point         Vec3    // world position of the wall centre at floor level
}

// Unit is a placed room, hallway or staircase.
type Unit struct {
	Index    int
	Category Category
	Position Vec3 // minimum corner, world units

	Width  float64 // metres along X
	Length float64 // metres along Y
	Height float64 // metres

	// Elevation is the vertical offset from the reference ground plane in
	// world units. For stairs it is the signed rise of the flight.
	Elevation float64

	StairDirection Wall
	Connections    []Connection
}

// BoundingBox returns the unit's world-space box including the wall margin.
// Stairs extend from their base by height plus elevation; rooms and hallways
// sit on their elevation.
func (u *Unit) BoundingBox(wallThickness float64) Box {
	wt := MetersToWorld(wallThickness)

	var minZ, maxZ float64
	if u.Category == Stairs {
		minZ = u.Position.Z
		maxZ = u.Position.Z + MetersToWorld(u.Height) + u.Elevation
		if maxZ < minZ {
			minZ, maxZ = maxZ, minZ
		}
	} else {
		minZ = u.Position.Z + u.Elevation
		maxZ = minZ + MetersToWorld(u.Height)
	}

	return Box{
		Min: Vec3{X: u.Position.X - wt, Y: u.Position.Y - wt, Z: minZ},
		Max: Vec3{
			X: u.Position.X + MetersToWorld(u.Width) + wt,
			Y: u.Position.Y + MetersToWorld(u.Length) + wt,
			Z: maxZ,
		},
	}
}

// FloorZ is the world height of the unit's walkable floor.
func (u *Unit) FloorZ() float64 {
	if u.Category == Stairs {
		return u.Position.Z
	}
	return u.Position.Z + u.Elevation
}

// OpenConnections returns the indices of connections not yet used.
func (u *Unit) OpenConnections() []int {
	var open []int
	for i, c := range u.Connections {
		if !c.Used {
			open = append(open, i)
		}
	}
	return open
}

// HasOpenConnection reports whether any connection is still unused.
func (u *Unit) HasOpenConnection() bool {
	for _, c := range u.Connections {
		if !c.Used {
			return true
		}
	}
	return false
}

// ConnectionOn returns the index of the connection on wall w, or -1.
func (u *Unit) ConnectionOn(w Wall) int {
	for i, c := range u.Connections {
		if c.Wall == w {
			return i
		}
	}
	return -1
}

// WallSpan returns the length in metres of the given wall.
func (u *Unit) WallSpan(w Wall) float64 {
	switch w {
	case North, South:
		return u.Width
	case East, West:
		return u.Length
	}
	return 0
}
