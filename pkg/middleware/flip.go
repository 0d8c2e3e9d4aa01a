package middleware

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
)

// CrossAxisMode selects whether Flip also checks the alignment axis.
type CrossAxisMode string

const (
	// CrossAxisOn checks both alignment-axis sides. It is the default.
	CrossAxisOn CrossAxisMode = "on"

	// CrossAxisOff checks only the side the floating element sits on.
	CrossAxisOff CrossAxisMode = "off"

	// CrossAxisAlignment checks the alignment axis, but only moves to a
	// perpendicular side once every candidate on the initial axis overflows
	// its main side.
	CrossAxisAlignment CrossAxisMode = "alignment"
)

// FallbackStrategy decides what Flip does when every candidate overflows.
type FallbackStrategy string

const (
	BestFit          FallbackStrategy = "bestFit"
	InitialPlacement FallbackStrategy = "initialPlacement"
)

// FlipOptions configures Flip.
type FlipOptions struct {
	position.OverflowOptions

	// MainAxis checks the side the floating element sits on. Default true.
	MainAxis *bool `json:"main_axis,omitempty" toml:"main_axis,omitempty"`

	// CrossAxis defaults to CrossAxisOn.
	CrossAxis CrossAxisMode `json:"cross_axis,omitempty" toml:"cross_axis,omitempty"`

	// FallbackPlacements are tried in order after the initial placement.
	// Nil derives them from the initial placement.
	FallbackPlacements []geom.Placement `json:"fallback_placements,omitempty" toml:"fallback_placements,omitempty"`

	// FallbackStrategy defaults to BestFit.
	FallbackStrategy FallbackStrategy `json:"fallback_strategy,omitempty" toml:"fallback_strategy,omitempty"`

	// FallbackAxisSideDirection adds the perpendicular sides as fallbacks,
	// the one at this end of the alignment axis first. Center disables it.
	FallbackAxisSideDirection geom.Alignment `json:"fallback_axis_side_direction,omitempty" toml:"fallback_axis_side_direction,omitempty"`

	// FlipAlignment also tries the opposite alignment. Default true.
	FlipAlignment *bool `json:"flip_alignment,omitempty" toml:"flip_alignment,omitempty"`
}

// PlacementOverflows is the overflow measured for one candidate placement.
// The first value is the side overflow, followed by the alignment-axis
// overflows when they were checked.
type PlacementOverflows struct {
	Placement geom.Placement `json:"placement"`
	Overflows []float64      `json:"overflows"`
}

// FlipData is stored under NameFlip.
type FlipData struct {
	Index     int                  `json:"index"`
	Overflows []PlacementOverflows `json:"overflows"`
}

// Flip moves the floating element to another placement when the current one
// overflows.
func Flip(opts FlipOptions) *position.Middleware {
	checkMain := boolOr(opts.MainAxis, true)
	crossMode := opts.CrossAxis
	if crossMode == "" {
		crossMode = CrossAxisOn
	}
	checkCross := crossMode != CrossAxisOff
	strategy := opts.FallbackStrategy
	if strategy == "" {
		strategy = BestFit
	}
	flipAlignment := boolOr(opts.FlipAlignment, true)
	hasDirection := opts.FallbackAxisSideDirection != geom.Center

	return &position.Middleware{
		Name:    NameFlip,
		Options: opts,
		Fn: func(ctx context.Context, s position.State) (position.Return, error) {
			if arrow, ok := position.Get[ArrowData](s.MiddlewareData, NameArrow); ok && arrow.AlignmentOffset != 0 {
				return position.Return{}, nil
			}

			initial := s.InitialPlacement
			initialSideAxis := initial.SideAxis()

			fallbacks := opts.FallbackPlacements
			if fallbacks == nil {
				if initial.Alignment == geom.Center || !flipAlignment {
					fallbacks = []geom.Placement{initial.Opposite()}
				} else {
					fallbacks = geom.ExpandedPlacements(initial)
				}
				if hasDirection {
					fallbacks = append(fallbacks, geom.OppositeAxisPlacements(initial, flipAlignment, opts.FallbackAxisSideDirection, s.RTL)...)
				}
			}
			candidates := append([]geom.Placement{initial}, fallbacks...)

			overflow, err := position.DetectOverflow(ctx, s, opts.OverflowOptions)
			if err != nil {
				return position.Return{}, err
			}

			var overflows []float64
			if checkMain {
				overflows = append(overflows, overflow.Side(s.Placement.Side))
			}
			if checkCross {
				a, b := geom.AlignmentSides(s.Placement, s.Rects, s.RTL)
				overflows = append(overflows, overflow.Side(a), overflow.Side(b))
			}

			prev, _ := position.Get[FlipData](s.MiddlewareData, NameFlip)
			history := append(slices.Clone(prev.Overflows), PlacementOverflows{Placement: s.Placement, Overflows: overflows})

			if allFit(overflows) {
				return position.Return{}, nil
			}

			next := prev.Index + 1
			if next < len(candidates) {
				nextPlacement := candidates[next]
				skipCross := crossMode == CrossAxisAlignment && nextPlacement.SideAxis() != initialSideAxis
				if !skipCross || initialAxisExhausted(history, initialSideAxis) {
					ret := position.ResetTo(nextPlacement)
					ret.Data = FlipData{Index: next, Overflows: history}
					return ret, nil
				}
			}

			reset, found := bestMainAxisFit(history)
			if !found {
				switch strategy {
				case BestFit:
					reset, found = leastOverflow(history, func(p geom.Placement) bool {
						if !hasDirection {
							return true
						}
						axis := p.SideAxis()
						return axis == initialSideAxis || axis == geom.AxisY
					})
				case InitialPlacement:
					reset, found = initial, true
				}
			}

			if found && reset != s.Placement {
				return position.ResetTo(reset), nil
			}
			return position.Return{}, nil
		},
	}
}

func allFit(overflows []float64) bool {
	for _, o := range overflows {
		if o > 0 {
			return false
		}
	}
	return true
}

// initialAxisExhausted reports whether every candidate tried on the initial
// side axis overflowed its main side.
func initialAxisExhausted(history []PlacementOverflows, axis geom.Axis) bool {
	for _, h := range history {
		if h.Placement.SideAxis() == axis && (len(h.Overflows) == 0 || h.Overflows[0] <= 0) {
			return false
		}
	}
	return true
}

// bestMainAxisFit returns the tried placement that fits its main side with
// the least alignment-axis overflow.
func bestMainAxisFit(history []PlacementOverflows) (geom.Placement, bool) {
	var fitting []PlacementOverflows
	for _, h := range history {
		if len(h.Overflows) > 0 && h.Overflows[0] <= 0 {
			fitting = append(fitting, h)
		}
	}
	if len(fitting) == 0 {
		return geom.Placement{}, false
	}
	slices.SortStableFunc(fitting, func(a, b PlacementOverflows) int {
		return cmp.Compare(at(a.Overflows, 1), at(b.Overflows, 1))
	})
	return fitting[0].Placement, true
}

// leastOverflow returns the placement with the smallest total positive
// overflow among those accepted by keep.
func leastOverflow(history []PlacementOverflows, keep func(geom.Placement) bool) (geom.Placement, bool) {
	best, bestScore, found := geom.Placement{}, 0.0, false
	for _, h := range history {
		if !keep(h.Placement) {
			continue
		}
		score := 0.0
		for _, o := range h.Overflows {
			if o > 0 {
				score += o
			}
		}
		if !found || score < bestScore {
			best, bestScore, found = h.Placement, score, true
		}
	}
	return best, found
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
