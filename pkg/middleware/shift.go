package middleware

import (
	"context"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
)

// Limiter adjusts the coordinates Shift computed. It receives the state with
// the clamped coordinates already applied.
type Limiter func(s position.State) geom.Coords

// ShiftOptions configures Shift.
type ShiftOptions struct {
	position.OverflowOptions

	// MainAxis clamps along the reference edge. Default true.
	MainAxis *bool `json:"main_axis,omitempty" toml:"main_axis,omitempty"`

	// CrossAxis also clamps away from the reference, which may make the
	// floating element overlap it. Default false.
	CrossAxis *bool `json:"cross_axis,omitempty" toml:"cross_axis,omitempty"`

	// Limiter post-processes the clamped coordinates. Nil keeps them.
	Limiter Limiter `json:"-" toml:"-"`
}

// ShiftEnabled records which axes Shift clamped.
type ShiftEnabled struct {
	X bool `json:"x"`
	Y bool `json:"y"`
}

// ShiftData is stored under NameShift. X and Y are the applied deltas.
type ShiftData struct {
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Enabled ShiftEnabled `json:"enabled"`
}

// Shift slides the floating element along the reference edge to keep it
// inside the clipping boundary.
func Shift(opts ShiftOptions) *position.Middleware {
	checkMain := boolOr(opts.MainAxis, true)
	checkCross := boolOr(opts.CrossAxis, false)
	limiter := opts.Limiter
	if limiter == nil {
		limiter = func(s position.State) geom.Coords { return s.Coords() }
	}

	return &position.Middleware{
		Name:    NameShift,
		Options: opts,
		Fn: func(ctx context.Context, s position.State) (position.Return, error) {
			overflow, err := position.DetectOverflow(ctx, s, opts.OverflowOptions)
			if err != nil {
				return position.Return{}, err
			}

			crossAxis := s.Placement.SideAxis()
			mainAxis := crossAxis.Opposite()
			coords := s.Coords()
			mainCoord := coords.Get(mainAxis)
			crossCoord := coords.Get(crossAxis)

			if checkMain {
				mainCoord = clampAxis(mainAxis, mainCoord, overflow)
			}
			if checkCross {
				crossCoord = clampAxis(crossAxis, crossCoord, overflow)
			}

			shifted := coords.With(mainAxis, mainCoord).With(crossAxis, crossCoord)
			limited := limiter(s.WithCoords(shifted))

			enabled := ShiftEnabled{}
			if mainAxis == geom.AxisX {
				enabled.X, enabled.Y = checkMain, checkCross
			} else {
				enabled.X, enabled.Y = checkCross, checkMain
			}

			ret := position.Moved(limited.X, limited.Y)
			ret.Data = ShiftData{X: limited.X - s.X, Y: limited.Y - s.Y, Enabled: enabled}
			return ret, nil
		},
	}
}

// clampAxis moves v back inside the boundary on axis a.
func clampAxis(a geom.Axis, v float64, overflow geom.Overflow) float64 {
	minSide, maxSide := geom.Left, geom.Right
	if a == geom.AxisY {
		minSide, maxSide = geom.Top, geom.Bottom
	}
	return geom.Clamp(v+overflow.Side(minSide), v, v-overflow.Side(maxSide))
}

// LimitShiftOffset is the distance LimitShift keeps from the reference.
type LimitShiftOffset struct {
	MainAxis  float64 `json:"main_axis,omitempty" toml:"main_axis,omitempty"`
	CrossAxis float64 `json:"cross_axis,omitempty" toml:"cross_axis,omitempty"`
}

// LimitShiftOptions configures LimitShift.
type LimitShiftOptions struct {
	// Offset is a static distance. OffsetFunc overrides it when set.
	Offset     LimitShiftOffset                      `json:"offset,omitempty" toml:"offset,omitempty"`
	OffsetFunc func(position.State) LimitShiftOffset `json:"-" toml:"-"`

	// MainAxis limits along the reference edge. Default true.
	MainAxis *bool `json:"main_axis,omitempty" toml:"main_axis,omitempty"`

	// CrossAxis limits away from the reference. Default true.
	CrossAxis *bool `json:"cross_axis,omitempty" toml:"cross_axis,omitempty"`
}

// LimitShift returns a Limiter that stops Shift once the floating element
// would detach from the reference.
func LimitShift(opts LimitShiftOptions) Limiter {
	checkMain := boolOr(opts.MainAxis, true)
	checkCross := boolOr(opts.CrossAxis, true)

	return func(s position.State) geom.Coords {
		off := opts.Offset
		if opts.OffsetFunc != nil {
			off = opts.OffsetFunc(s)
		}

		crossAxis := s.Placement.SideAxis()
		mainAxis := crossAxis.Opposite()
		coords := s.Coords()
		mainCoord := coords.Get(mainAxis)
		crossCoord := coords.Get(crossAxis)
		ref, float := s.Rects.Reference, s.Rects.Floating

		if checkMain {
			limitMin := ref.Pos(mainAxis) - float.Length(mainAxis) + off.MainAxis
			limitMax := ref.Pos(mainAxis) + ref.Length(mainAxis) - off.MainAxis
			mainCoord = limitTo(limitMin, mainCoord, limitMax)
		}

		if checkCross {
			var offsetCross float64
			if od, ok := position.Get[OffsetData](s.MiddlewareData, NameOffset); ok {
				offsetCross = geom.Coords{X: od.X, Y: od.Y}.Get(crossAxis)
			}
			origin := s.Placement.Side == geom.Top || s.Placement.Side == geom.Left

			limitMin := ref.Pos(crossAxis) - float.Length(crossAxis)
			limitMax := ref.Pos(crossAxis) + ref.Length(crossAxis)
			if origin {
				limitMin += offsetCross
				limitMax -= off.CrossAxis
			} else {
				limitMin += off.CrossAxis
				limitMax += offsetCross
			}
			crossCoord = limitTo(limitMin, crossCoord, limitMax)
		}

		return coords.With(mainAxis, mainCoord).With(crossAxis, crossCoord)
	}
}

// limitTo bounds v to [lo, hi]. Unlike geom.Clamp, a value past both crossed
// bounds ends at hi.
func limitTo(lo, v, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
