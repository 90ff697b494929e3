package main

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/gookit/color"
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/backrooms/internal/layout"
)

// levelAll selects every level.
const levelAll = math.MinInt

var (
	colorRoom    = color.Style{color.FgGray}
	colorHallway = color.Style{color.FgYellow}
	colorStairs  = color.Style{color.FgCyan, color.OpBold}
	colorLink    = color.Style{color.FgGreen, color.OpBold}
	colorWarn    = color.Style{color.FgRed, color.OpBold}
)

type mapper struct {
	units    []layout.Unit
	scale    float64
	maxWidth int
}

// levelOf returns the floor height of u in whole metres.
func levelOf(u *layout.Unit) int {
	return int(math.Round(layout.WorldToMeters(u.FloorZ())))
}

// levels returns the distinct floor levels, lowest first.
func (m *mapper) levels() []int {
	seen := mapset.New[int]()
	for i := range m.units {
		seen.Put(levelOf(&m.units[i]))
	}
	var out []int
	seen.Each(func(l int) { out = append(out, l) })
	slices.Sort(out)
	return out
}

// reachable walks used connections from unit 0 and returns the visited set.
func (m *mapper) reachable() mapset.Set[int] {
	visited := mapset.New[int]()
	if len(m.units) == 0 {
		return visited
	}

	queue := []int{0}
	visited.Put(0)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, c := range m.units[current].Connections {
			if !c.Used || c.ConnectedUnit < 0 || c.ConnectedUnit >= len(m.units) {
				continue
			}
			if !visited.Has(c.ConnectedUnit) {
				visited.Put(c.ConnectedUnit)
				queue = append(queue, c.ConnectedUnit)
			}
		}
	}
	return visited
}

func (m *mapper) writeConnectivity(output *strings.Builder) {
	visited := m.reachable()

	var unreachable []int
	for i := range m.units {
		if !visited.Has(i) {
			unreachable = append(unreachable, i)
		}
	}

	if len(unreachable) > 0 {
		output.WriteString(colorWarn.Sprint("WARNING: Unreachable units detected!") + "\n")
		for _, i := range unreachable {
			output.WriteString(fmt.Sprintf("  - unit %d (%s)\n", i, m.units[i].Category))
		}
		output.WriteString("\n")
		return
	}
	output.WriteString(fmt.Sprintf("All %d units are connected.\n\n", len(m.units)))
}

// cell maps a world coordinate to a grid index.
func (m *mapper) cell(world float64) int {
	scale := m.scale
	if scale <= 0 {
		scale = 1
	}
	return int(math.Floor(layout.WorldToMeters(world) / scale))
}

func (m *mapper) renderLevel(output *strings.Builder, level int) {
	output.WriteString(fmt.Sprintf("Level %+dm\n", level))
	output.WriteString(strings.Repeat("-", 40) + "\n")

	var onLevel []*layout.Unit
	for i := range m.units {
		if levelOf(&m.units[i]) == level {
			onLevel = append(onLevel, &m.units[i])
		}
	}
	if len(onLevel) == 0 {
		output.WriteString("  (No units to display)\n")
		return
	}

	minX, maxX, minY, maxY := math.MaxInt, math.MinInt, math.MaxInt, math.MinInt
	for _, u := range onLevel {
		minX = min(minX, m.cell(u.Position.X))
		minY = min(minY, m.cell(u.Position.Y))
		// A unit narrower than one cell still covers the cell it starts in.
		maxX = max(maxX, m.cell(u.Position.X), m.cell(u.Position.X+layout.MetersToWorld(u.Width))-1)
		maxY = max(maxY, m.cell(u.Position.Y), m.cell(u.Position.Y+layout.MetersToWorld(u.Length))-1)
	}

	cols := maxX - minX + 1
	rows := maxY - minY + 1
	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
	}

	for _, u := range onLevel {
		sym := symbol(u)
		x0, y0 := m.cell(u.Position.X)-minX, m.cell(u.Position.Y)-minY
		x1 := m.cell(u.Position.X+layout.MetersToWorld(u.Width)) - minX - 1
		y1 := m.cell(u.Position.Y+layout.MetersToWorld(u.Length)) - minY - 1
		for y := y0; y <= max(y0, y1); y++ {
			for x := x0; x <= max(x0, x1); x++ {
				grid[y][x] = sym
			}
		}
	}

	for _, u := range onLevel {
		for _, c := range u.Connections {
			if !c.Used {
				continue
			}
			x, y := m.cell(c.Point.X)-minX, m.cell(c.Point.Y)-minY
			if y >= 0 && y < rows && x >= 0 && x < cols {
				grid[y][x] = '+'
			}
		}
	}

	// North (+Y) at the top.
	for y := rows - 1; y >= 0; y-- {
		line := grid[y]
		if m.maxWidth > 0 && len(line) > m.maxWidth {
			line = line[:m.maxWidth]
		}
		output.WriteString(colorize(line) + "\n")
	}

	output.WriteString("\nUnit Details:\n")
	for _, u := range onLevel {
		details := fmt.Sprintf("  [%c] %3d %-8s %5.1fm x %5.1fm", symbol(u), u.Index, u.Category, u.Width, u.Length)
		if u.Category == layout.Stairs {
			details += fmt.Sprintf(" climb %s %+.1fm", u.StairDirection, layout.WorldToMeters(u.Elevation))
		}
		output.WriteString(details + "\n")
	}
}

func symbol(u *layout.Unit) rune {
	switch u.Category {
	case layout.Hallway:
		return '.'
	case layout.Stairs:
		if u.Elevation < 0 {
			return 'v'
		}
		return '^'
	default:
		return '#'
	}
}

func colorize(line []rune) string {
	var b strings.Builder
	for _, r := range line {
		s := string(r)
		switch r {
		case '#':
			s = colorRoom.Sprint(s)
		case '.':
			s = colorHallway.Sprint(s)
		case '^', 'v':
			s = colorStairs.Sprint(s)
		case '+':
			s = colorLink.Sprint(s)
		}
		b.WriteString(s)
	}
	return b.String()
}
