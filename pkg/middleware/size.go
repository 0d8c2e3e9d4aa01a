package middleware

import (
	"context"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
)

// SizeState is what Size passes to the apply callback.
type SizeState struct {
	position.State

	// AvailableWidth and AvailableHeight are the largest size the floating
	// element can take at its current position without overflowing.
	AvailableWidth  float64
	AvailableHeight float64
}

// SizeOptions configures Size.
type SizeOptions struct {
	position.OverflowOptions

	// Apply receives the available space. It is where the caller resizes
	// the floating element; Size itself changes nothing.
	Apply func(ctx context.Context, s SizeState) error `json:"-" toml:"-"`
}

// Size reports the space available to the floating element and restarts the
// scan with fresh rects when Apply changed its size.
func Size(opts SizeOptions) *position.Middleware {
	return &position.Middleware{
		Name:    NameSize,
		Options: opts,
		Fn: func(ctx context.Context, s position.State) (position.Return, error) {
			overflow, err := position.DetectOverflow(ctx, s, opts.OverflowOptions)
			if err != nil {
				return position.Return{}, err
			}

			availableWidth, availableHeight := AvailableSize(s, overflow)
			if opts.Apply != nil {
				if err := opts.Apply(ctx, SizeState{State: s, AvailableWidth: availableWidth, AvailableHeight: availableHeight}); err != nil {
					return position.Return{}, err
				}
			}

			next, err := s.Platform.GetDimensions(ctx, s.Elements.Floating)
			if err != nil {
				return position.Return{}, errors.PlatformQuery(err, "getDimensions")
			}
			if next != s.Rects.Floating.Dimensions() {
				return position.Return{Reset: &position.Reset{RefreshRects: true}}, nil
			}
			return position.Return{}, nil
		},
	}
}

// AvailableSize computes the width and height the floating element may take
// given its overflow at the current position.
func AvailableSize(s position.State, overflow geom.Overflow) (width, height float64) {
	side, alignment := s.Placement.Side, s.Placement.Alignment
	w, h := s.Rects.Floating.Width, s.Rects.Floating.Height

	var heightSide, widthSide geom.Side
	if side == geom.Top || side == geom.Bottom {
		heightSide = side
		endAlign := geom.End
		if s.RTL {
			endAlign = geom.Start
		}
		if alignment == endAlign {
			widthSide = geom.Left
		} else {
			widthSide = geom.Right
		}
	} else {
		widthSide = side
		if alignment == geom.End {
			heightSide = geom.Top
		} else {
			heightSide = geom.Bottom
		}
	}

	maxClipHeight := h - overflow.Top - overflow.Bottom
	maxClipWidth := w - overflow.Left - overflow.Right
	height = min(h-overflow.Side(heightSide), maxClipHeight)
	width = min(w-overflow.Side(widthSide), maxClipWidth)

	shift, shifted := position.Get[ShiftData](s.MiddlewareData, NameShift)
	if shifted && shift.Enabled.X {
		width = maxClipWidth
	}
	if shifted && shift.Enabled.Y {
		height = maxClipHeight
	}

	if !shifted && alignment == geom.Center {
		xMin, xMax := max(overflow.Left, 0), max(overflow.Right, 0)
		yMin, yMax := max(overflow.Top, 0), max(overflow.Bottom, 0)
		if s.Placement.SideAxis() == geom.AxisY {
			if xMin != 0 || xMax != 0 {
				width = w - 2*(xMin+xMax)
			} else {
				width = w - 2*max(overflow.Left, overflow.Right)
			}
		} else {
			if yMin != 0 || yMax != 0 {
				height = h - 2*(yMin+yMax)
			} else {
				height = h - 2*max(overflow.Top, overflow.Bottom)
			}
		}
	}
	return width, height
}
