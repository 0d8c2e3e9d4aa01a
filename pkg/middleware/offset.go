package middleware

import (
	"context"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
)

// OffsetOptions are the distances applied by Offset.
type OffsetOptions struct {
	// MainAxis moves the floating element away from the reference.
	// Negative values move it towards or over the reference.
	MainAxis float64 `json:"main_axis,omitempty" toml:"main_axis,omitempty"`

	// CrossAxis slides the floating element along the reference edge.
	// It is mirrored for top and bottom placements in right-to-left layouts.
	CrossAxis float64 `json:"cross_axis,omitempty" toml:"cross_axis,omitempty"`

	// AlignmentAxis replaces CrossAxis for aligned placements. For end
	// alignment it is negated so positive values always point inwards.
	AlignmentAxis *float64 `json:"alignment_axis,omitempty" toml:"alignment_axis,omitempty"`
}

// OffsetData is stored under NameOffset.
type OffsetData struct {
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Placement geom.Placement `json:"placement"`
}

// Offset translates the floating element by fixed distances.
func Offset(opts OffsetOptions) *position.Middleware {
	return newOffset(opts, func(position.State) OffsetOptions { return opts })
}

// OffsetFunc is Offset with distances derived from the current state.
func OffsetFunc(fn func(position.State) OffsetOptions) *position.Middleware {
	return newOffset(nil, fn)
}

func newOffset(options any, fn func(position.State) OffsetOptions) *position.Middleware {
	return &position.Middleware{
		Name:    NameOffset,
		Options: options,
		Fn: func(_ context.Context, s position.State) (position.Return, error) {
			diff := offsetCoords(s, fn(s))
			if prev, ok := position.Get[OffsetData](s.MiddlewareData, NameOffset); ok && prev.Placement == s.Placement {
				if arrow, ok := position.Get[ArrowData](s.MiddlewareData, NameArrow); ok && arrow.AlignmentOffset != 0 {
					return position.Return{}, nil
				}
			}
			ret := position.Moved(s.X+diff.X, s.Y+diff.Y)
			ret.Data = OffsetData{X: diff.X, Y: diff.Y, Placement: s.Placement}
			return ret, nil
		},
	}
}

// offsetCoords converts side-relative distances to a coordinate delta.
func offsetCoords(s position.State, o OffsetOptions) geom.Coords {
	side := s.Placement.Side
	vertical := s.Placement.SideAxis() == geom.AxisY

	mainMulti := 1.0
	if side == geom.Left || side == geom.Top {
		mainMulti = -1
	}
	crossMulti := 1.0
	if s.RTL && vertical {
		crossMulti = -1
	}

	cross := o.CrossAxis
	if s.Placement.Alignment != geom.Center && o.AlignmentAxis != nil {
		cross = *o.AlignmentAxis
		if s.Placement.Alignment == geom.End {
			cross = -cross
		}
	}

	if vertical {
		return geom.Coords{X: cross * crossMulti, Y: o.MainAxis * mainMulti}
	}
	return geom.Coords{X: o.MainAxis * mainMulti, Y: cross * crossMulti}
}
