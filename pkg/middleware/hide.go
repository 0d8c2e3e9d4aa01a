package middleware

import (
	"context"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
)

// HideStrategy selects what Hide checks.
type HideStrategy string

const (
	// ReferenceHidden reports when the reference is fully clipped.
	ReferenceHidden HideStrategy = "referenceHidden"

	// Escaped reports when the floating element has left the reference's
	// clipping context.
	Escaped HideStrategy = "escaped"
)

// HideOptions configures Hide.
type HideOptions struct {
	position.OverflowOptions

	// Strategy defaults to ReferenceHidden.
	Strategy HideStrategy `json:"strategy,omitempty" toml:"strategy,omitempty"`
}

// HideData is stored under NameHide. The offsets are the overflow minus the
// element's size on each side; a non-negative value means that side is
// fully clipped.
type HideData struct {
	ReferenceHidden        bool           `json:"reference_hidden"`
	ReferenceHiddenOffsets *geom.Overflow `json:"reference_hidden_offsets,omitempty"`
	Escaped                bool           `json:"escaped"`
	EscapedOffsets         *geom.Overflow `json:"escaped_offsets,omitempty"`
}

// Hide reports whether the floating element should be hidden. It never moves
// anything. Running one Hide per strategy merges both results.
func Hide(opts HideOptions) *position.Middleware {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = ReferenceHidden
	}

	return &position.Middleware{
		Name:    NameHide,
		Options: opts,
		Fn: func(ctx context.Context, s position.State) (position.Return, error) {
			data, _ := position.Get[HideData](s.MiddlewareData, NameHide)

			overflowOpts := opts.OverflowOptions
			var rect geom.Rect
			switch strategy {
			case Escaped:
				overflowOpts.AltBoundary = true
				rect = s.Rects.Floating
			default:
				overflowOpts.ElementContext = position.ReferenceContext
				rect = s.Rects.Reference
			}

			overflow, err := position.DetectOverflow(ctx, s, overflowOpts)
			if err != nil {
				return position.Return{}, err
			}
			offsets := sideOffsets(overflow, rect)

			if strategy == Escaped {
				data.Escaped, data.EscapedOffsets = anySideClipped(offsets), &offsets
			} else {
				data.ReferenceHidden, data.ReferenceHiddenOffsets = anySideClipped(offsets), &offsets
			}
			return position.Return{Data: data}, nil
		},
	}
}

func sideOffsets(o geom.Overflow, r geom.Rect) geom.Overflow {
	return geom.Overflow{
		Top:    o.Top - r.Height,
		Right:  o.Right - r.Width,
		Bottom: o.Bottom - r.Height,
		Left:   o.Left - r.Width,
	}
}

func anySideClipped(o geom.Overflow) bool {
	return o.Top >= 0 || o.Right >= 0 || o.Bottom >= 0 || o.Left >= 0
}
