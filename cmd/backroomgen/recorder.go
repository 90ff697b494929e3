package main

import (
	"github.com/lawnchairsociety/backrooms/internal/layout"
	"github.com/lawnchairsociety/backrooms/internal/logger"
)

// recorder stands in for a scene builder: it logs every built unit and cut
// opening and counts openings by type.
type recorder struct {
	cuts map[layout.ConnectionType]int
}

func (r *recorder) Build(u layout.Unit) error {
	logger.Debug("Unit built",
		"index", u.Index,
		"category", u.Category,
		"position", u.Position,
		"size", []float64{u.Width, u.Length, u.Height})
	return nil
}

func (r *recorder) CutOpening(u layout.Unit, w layout.Wall, kind layout.ConnectionType, width, height float64) error {
	if r.cuts == nil {
		r.cuts = make(map[layout.ConnectionType]int, 2)
	}
	r.cuts[kind]++
	logger.Debug("Opening cut",
		"unit", u.Index,
		"wall", w,
		"type", kind,
		"width", width,
		"height", height)
	return nil
}
