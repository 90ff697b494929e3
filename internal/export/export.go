// Package export reads and writes generated layouts as YAML documents.
package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/backrooms/internal/generator"
	"github.com/lawnchairsociety/backrooms/internal/layout"
)

// Document is the on-disk form of a generated layout.
type Document struct {
	Seed        int64          `yaml:"seed"`
	GeneratedAt time.Time      `yaml:"generated_at"`
	Stats       StatsYAML      `yaml:"stats"`
	Units       []UnitYAML     `yaml:"units"`
	Counts      map[string]int `yaml:"counts,omitempty"`
}

// StatsYAML mirrors generator.Stats.
type StatsYAML struct {
	MainLoops         int     `yaml:"main_loops"`
	ConnectionRetries int     `yaml:"connection_retries"`
	PlacementAttempts int     `yaml:"placement_attempts"`
	ElapsedSeconds    float64 `yaml:"elapsed_seconds"`
	StoppedBySafety   bool    `yaml:"stopped_by_safety"`
	Exhausted         bool    `yaml:"exhausted"`
}

// UnitYAML is one placed unit. Position and elevation are in world units,
// dimensions in metres.
type UnitYAML struct {
	Index          int              `yaml:"index"`
	Type           string           `yaml:"type"`
	Position       [3]float64       `yaml:"position,flow"`
	Width          float64          `yaml:"width"`
	Length         float64          `yaml:"length"`
	Height         float64          `yaml:"height"`
	Elevation      float64          `yaml:"elevation"`
	StairDirection string           `yaml:"stair_direction,omitempty"`
	Connections    []ConnectionYAML `yaml:"connections"`
}

// ConnectionYAML is one wall connection of a unit.
type ConnectionYAML struct {
	Wall          string     `yaml:"wall"`
	Used          bool       `yaml:"used"`
	ConnectedUnit int        `yaml:"connected_unit"`
	Type          string     `yaml:"type"`
	Width         float64    `yaml:"width"`
	Point         [3]float64 `yaml:"point,flow"`
}

// FromResult builds a document for a finished run.
func FromResult(res *generator.Result, seed int64, at time.Time) *Document {
	doc := &Document{
		Seed:        seed,
		GeneratedAt: at.UTC(),
		Stats: StatsYAML{
			MainLoops:         res.Stats.MainLoops,
			ConnectionRetries: res.Stats.ConnectionRetries,
			PlacementAttempts: res.Stats.PlacementAttempts,
			ElapsedSeconds:    res.Stats.Elapsed.Seconds(),
			StoppedBySafety:   res.Stats.StoppedBySafety,
			Exhausted:         res.Stats.Exhausted,
		},
		Units:  make([]UnitYAML, 0, len(res.Units)),
		Counts: make(map[string]int, 3),
	}

	for c, n := range res.Counts() {
		doc.Counts[c.String()] = n
	}

	for _, u := range res.Units {
		uy := UnitYAML{
			Index:       u.Index,
			Type:        u.Category.String(),
			Position:    vec(u.Position),
			Width:       u.Width,
			Length:      u.Length,
			Height:      u.Height,
			Elevation:   u.Elevation,
			Connections: make([]ConnectionYAML, 0, len(u.Connections)),
		}
		if u.StairDirection != layout.WallNone {
			uy.StairDirection = u.StairDirection.String()
		}
		for _, c := range u.Connections {
			uy.Connections = append(uy.Connections, ConnectionYAML{
				Wall:          c.Wall.String(),
				Used:          c.Used,
				ConnectedUnit: c.ConnectedUnit,
				Type:          c.Type.String(),
				Width:         c.Width,
				Point:         vec(c.Point),
			})
		}
		doc.Units = append(doc.Units, uy)
	}
	return doc
}

// ToUnits converts the document back into layout units.
func (d *Document) ToUnits() ([]layout.Unit, error) {
	units := make([]layout.Unit, 0, len(d.Units))
	for i, uy := range d.Units {
		category, err := layout.ParseCategory(uy.Type)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}

		u := layout.Unit{
			Index:          uy.Index,
			Category:       category,
			Position:       fromVec(uy.Position),
			Width:          uy.Width,
			Length:         uy.Length,
			Height:         uy.Height,
			Elevation:      uy.Elevation,
			StairDirection: layout.WallNone,
			Connections:    make([]layout.Connection, 0, len(uy.Connections)),
		}
		if uy.StairDirection != "" {
			if u.StairDirection, err = layout.ParseWall(uy.StairDirection); err != nil {
				return nil, fmt.Errorf("unit %d stair direction: %w", i, err)
			}
		}

		for j, cy := range uy.Connections {
			wall, err := layout.ParseWall(cy.Wall)
			if err != nil {
				return nil, fmt.Errorf("unit %d connection %d: %w", i, j, err)
			}
			kind, err := layout.ParseConnectionType(cy.Type)
			if err != nil {
				return nil, fmt.Errorf("unit %d connection %d: %w", i, j, err)
			}
			u.Connections = append(u.Connections, layout.Connection{
				Wall:          wall,
				Used:          cy.Used,
				ConnectedUnit: cy.ConnectedUnit,
				Type:          kind,
				Width:         cy.Width,
				Point:         fromVec(cy.Point),
			})
		}
		units = append(units, u)
	}
	return units, nil
}

// Write writes the document to path with a short header.
func Write(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return Encode(f, doc)
}

// Encode writes the header comment and the YAML body to w.
func Encode(w io.Writer, doc *Document) error {
	fmt.Fprintf(w, "# Backrooms layout\n")
	fmt.Fprintf(w, "# Generated with seed: %d\n", doc.Seed)
	fmt.Fprintf(w, "# Unit count: %d\n\n", len(doc.Units))

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// Read loads a document written by Write.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	return &doc, nil
}

func vec(v layout.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func fromVec(a [3]float64) layout.Vec3 { return layout.Vec3{X: a[0], Y: a[1], Z: a[2]} }
