package middleware

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
)

// AutoPlacementOptions configures AutoPlacement.
type AutoPlacementOptions struct {
	position.OverflowOptions

	// CrossAxis also scores aligned candidates by their first alignment-axis
	// overflow.
	CrossAxis bool `json:"cross_axis,omitempty" toml:"cross_axis,omitempty"`

	// Alignment prefers candidates with this alignment. Nil considers only
	// the four centred placements.
	Alignment *geom.Alignment `json:"alignment,omitempty" toml:"alignment,omitempty"`

	// AutoAlignment also considers the opposite alignment when Alignment is
	// set. Default true.
	AutoAlignment *bool `json:"auto_alignment,omitempty" toml:"auto_alignment,omitempty"`

	// AllowedPlacements restricts the candidates. Nil allows all twelve.
	AllowedPlacements []geom.Placement `json:"allowed_placements,omitempty" toml:"allowed_placements,omitempty"`
}

// AutoPlacementData is stored under NameAutoPlacement.
type AutoPlacementData struct {
	Index     int                  `json:"index"`
	Overflows []PlacementOverflows `json:"overflows"`
}

// GetPlacementList returns the candidates AutoPlacement tries, in order.
//
// A nil alignment keeps only the centred placements. Otherwise placements
// with the requested alignment come first, followed, when autoAlignment is
// set, by the other aligned placements. Input order is preserved within each
// group.
func GetPlacementList(alignment *geom.Alignment, autoAlignment bool, allowed []geom.Placement) []geom.Placement {
	var list []geom.Placement
	if alignment == nil {
		for _, p := range allowed {
			if p.Alignment == geom.Center {
				list = append(list, p)
			}
		}
		return list
	}
	for _, p := range allowed {
		if p.Alignment == *alignment {
			list = append(list, p)
		}
	}
	if autoAlignment {
		for _, p := range allowed {
			if p.Alignment != *alignment && p.Alignment != geom.Center {
				list = append(list, p)
			}
		}
	}
	return list
}

// AutoPlacement picks the placement with the most space, trying each
// candidate once.
func AutoPlacement(opts AutoPlacementOptions) *position.Middleware {
	autoAlignment := boolOr(opts.AutoAlignment, true)
	candidates := opts.AllowedPlacements
	if opts.Alignment != nil || candidates == nil {
		if candidates == nil {
			candidates = geom.Placements
		}
		candidates = GetPlacementList(opts.Alignment, autoAlignment, candidates)
	}

	return &position.Middleware{
		Name:    NameAutoPlacement,
		Options: opts,
		Fn: func(ctx context.Context, s position.State) (position.Return, error) {
			prev, _ := position.Get[AutoPlacementData](s.MiddlewareData, NameAutoPlacement)
			if prev.Index >= len(candidates) {
				return position.Return{}, nil
			}
			current := candidates[prev.Index]
			if s.Placement != current {
				return position.ResetTo(candidates[0]), nil
			}

			overflow, err := position.DetectOverflow(ctx, s, opts.OverflowOptions)
			if err != nil {
				return position.Return{}, err
			}
			a, b := geom.AlignmentSides(current, s.Rects, s.RTL)
			history := append(slices.Clone(prev.Overflows), PlacementOverflows{
				Placement: current,
				Overflows: []float64{overflow.Side(current.Side), overflow.Side(a), overflow.Side(b)},
			})

			data := AutoPlacementData{Index: prev.Index + 1, Overflows: history}
			if data.Index < len(candidates) {
				ret := position.ResetTo(candidates[data.Index])
				ret.Data = data
				return ret, nil
			}

			best := mostSpace(history, opts.CrossAxis)
			if best != s.Placement {
				ret := position.ResetTo(best)
				ret.Data = data
				return ret, nil
			}
			return position.Return{}, nil
		},
	}
}

// mostSpace ranks the tried placements by main-axis overflow and returns the
// first that fits on every checked side, else the best ranked one.
func mostSpace(history []PlacementOverflows, crossAxis bool) geom.Placement {
	type scored struct {
		PlacementOverflows
		score float64
	}
	ranked := make([]scored, 0, len(history))
	for _, h := range history {
		score := h.Overflows[0]
		if h.Placement.Alignment != geom.Center && crossAxis {
			score += h.Overflows[1]
		}
		ranked = append(ranked, scored{h, score})
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(a.score, b.score)
	})

	for _, r := range ranked {
		checked := r.Overflows
		if r.Placement.Alignment != geom.Center {
			checked = checked[:2]
		}
		if allFit(checked) {
			return r.Placement
		}
	}
	return ranked[0].Placement
}
