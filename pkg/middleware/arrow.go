package middleware

import (
	"context"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/platform"
	"github.com/matzehuels/floatpos/pkg/position"
)

// ArrowOptions configures Arrow.
type ArrowOptions struct {
	// Element is the arrow's handle. Nil disables the middleware.
	Element any `json:"-" toml:"-"`

	// Padding keeps the arrow away from the floating element's edges, for
	// example rounded corners.
	Padding geom.Padding `json:"padding,omitempty" toml:"padding,omitempty"`
}

// ArrowData is stored under NameArrow. Only the coordinate on the alignment
// axis is set.
type ArrowData struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	// CenterOffset is how far the arrow is from the ideal centre after
	// clamping. Zero means it points at the reference's centre.
	CenterOffset float64 `json:"center_offset"`

	// AlignmentOffset is how far the floating element was moved so the
	// arrow could still point at a small reference.
	AlignmentOffset float64 `json:"alignment_offset,omitempty"`
}

// Arrow positions an arrow element along the floating element's edge so it
// points at the reference.
func Arrow(opts ArrowOptions) *position.Middleware {
	return &position.Middleware{
		Name:    NameArrow,
		Options: opts,
		Fn: func(ctx context.Context, s position.State) (position.Return, error) {
			if opts.Element == nil {
				return position.Return{}, nil
			}
			p := s.Platform
			axis := s.Placement.AlignmentAxis()
			minSide, maxSide := geom.Left, geom.Right
			if axis == geom.AxisY {
				minSide, maxSide = geom.Top, geom.Bottom
			}

			dims, err := p.GetDimensions(ctx, opts.Element)
			if err != nil {
				return position.Return{}, errors.PlatformQuery(err, "getDimensions")
			}
			arrowLen := dims.Length(axis)

			ref, float := s.Rects.Reference, s.Rects.Floating
			coord := s.Coords().Get(axis)
			endDiff := ref.Length(axis) + ref.Pos(axis) - coord - float.Length(axis)
			startDiff := coord - ref.Pos(axis)

			clientSize, err := arrowClientSize(ctx, p, opts.Element, axis)
			if err != nil {
				return position.Return{}, err
			}
			if clientSize == 0 {
				clientSize = float.Length(axis)
			}

			centerToReference := endDiff/2 - startDiff/2
			largestPadding := clientSize/2 - arrowLen/2 - 1
			minPadding := min(opts.Padding.Side(minSide), largestPadding)
			maxPadding := min(opts.Padding.Side(maxSide), largestPadding)

			lo := minPadding
			hi := clientSize - arrowLen - maxPadding
			center := clientSize/2 - arrowLen/2 + centerToReference
			offset := geom.Clamp(lo, center, hi)

			prev, hasPrev := position.Get[ArrowData](s.MiddlewareData, NameArrow)
			edgePadding := maxPadding
			if center < lo {
				edgePadding = minPadding
			}
			shouldAddOffset := !hasPrev &&
				s.Placement.Alignment != geom.Center &&
				center != offset &&
				ref.Length(axis)/2-edgePadding-arrowLen/2 < 0

			var alignmentOffset float64
			if shouldAddOffset {
				if center < lo {
					alignmentOffset = center - lo
				} else {
					alignmentOffset = center - hi
				}
			}

			data := ArrowData{
				CenterOffset:    center - offset - alignmentOffset,
				AlignmentOffset: alignmentOffset,
			}
			if hasPrev && !shouldAddOffset {
				data.AlignmentOffset = prev.AlignmentOffset
			}
			if axis == geom.AxisX {
				data.X = Float(offset)
			} else {
				data.Y = Float(offset)
			}

			moved := s.Coords().With(axis, coord+alignmentOffset)
			ret := position.Moved(moved.X, moved.Y)
			ret.Data = data
			if shouldAddOffset {
				ret.Reset = &position.Reset{KeepCoords: true}
			}
			return ret, nil
		},
	}
}

// arrowClientSize returns the inner size of the arrow's offset parent along
// axis, or zero when the platform cannot tell.
func arrowClientSize(ctx context.Context, p platform.Platform, element any, axis geom.Axis) (float64, error) {
	sizer, ok := p.(platform.ClientSizer)
	if !ok {
		return 0, nil
	}
	parent, err := p.GetOffsetParent(ctx, element)
	if err != nil {
		return 0, errors.PlatformQuery(err, "getOffsetParent")
	}
	if parent == nil {
		return 0, nil
	}
	size, err := sizer.GetClientSize(ctx, parent)
	if err != nil {
		return 0, errors.PlatformQuery(err, "getClientSize")
	}
	return size.Length(axis), nil
}
