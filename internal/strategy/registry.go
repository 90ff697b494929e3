package strategy

import "github.com/lawnchairsociety/backrooms/internal/layout"

// Registry maps each category to its strategy.
type Registry struct {
	strategies map[layout.Category]Strategy
}

// NewRegistry returns a registry holding the three built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[layout.Category]Strategy)}
	r.Register(Standard{})
	r.Register(Hallway{})
	r.Register(Stairs{})
	return r
}

// Register installs s for its category, replacing any previous strategy.
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Category()] = s
}

// For returns the strategy for c. Unknown categories get Standard.
func (r *Registry) For(c layout.Category) Strategy {
	if s, ok := r.strategies[c]; ok {
		return s
	}
	return Standard{}
}
