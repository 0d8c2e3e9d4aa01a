package position

import (
	"context"
	"maps"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/platform"
)

// Middleware is a named adjustment step. User-defined middleware satisfy the
// same contract as the built-in ones.
type Middleware struct {
	// Name keys the middleware's entry in [Data].
	Name string

	// Options is the configuration the middleware was built with. The engine
	// does not read it; it is kept for introspection and cache keys.
	Options any

	// Fn computes the middleware's delta for the given state.
	Fn func(ctx context.Context, s State) (Return, error)
}

// Return is the delta a middleware hands back to the orchestrator.
// The zero value changes nothing.
type Return struct {
	X, Y  *float64 // new coordinates; nil keeps the current value
	Data  any      // replaces Data[name] when non-nil
	Reset *Reset   // restart the scan from the first middleware
}

// Reset requests a restart of the middleware scan.
//
// An accepted reset recomputes the coordinates from the current placement and
// rects, so the coordinates a resetting middleware returns are discarded.
// KeepCoords skips that step when neither the placement nor the rects change.
type Reset struct {
	// Placement becomes the current placement.
	Placement *geom.Placement

	// Rects replaces the element rects.
	Rects *geom.ElementRects

	// RefreshRects re-queries the platform for the element rects.
	RefreshRects bool

	// KeepCoords restarts with the coordinates the middleware returned.
	KeepCoords bool
}

// Moved returns a Return that sets both coordinates.
func Moved(x, y float64) Return {
	return Return{X: &x, Y: &y}
}

// ResetTo returns a Return that switches to placement p and restarts.
func ResetTo(p geom.Placement) Return {
	return Return{Reset: &Reset{Placement: &p}}
}

// Data maps a middleware name to the data it last returned.
type Data map[string]any

// Get returns the entry stored under name as a T.
func Get[T any](d Data, name string) (T, bool) {
	v, ok := d[name].(T)
	return v, ok
}

// Elements holds the opaque element handles of one call.
type Elements struct {
	Reference any
	Floating  any
}

// State is the working state a middleware observes.
type State struct {
	X, Y             float64
	InitialPlacement geom.Placement
	Placement        geom.Placement
	Strategy         geom.Strategy
	Rects            geom.ElementRects
	MiddlewareData   Data
	Elements         Elements
	Platform         platform.Platform

	// RTL is the floating element's writing direction, resolved once per call.
	RTL bool
}

// Coords returns the state's current coordinates.
func (s State) Coords() geom.Coords {
	return geom.Coords{X: s.X, Y: s.Y}
}

// WithCoords returns a copy of s at c.
func (s State) WithCoords(c geom.Coords) State {
	s.X, s.Y = c.X, c.Y
	return s
}

func (s State) clone() State {
	s.MiddlewareData = maps.Clone(s.MiddlewareData)
	return s
}
