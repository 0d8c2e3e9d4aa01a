package middleware

import (
	"context"
	"math"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/platform"
	"github.com/matzehuels/floatpos/pkg/position"
)

// DefaultInlinePadding is how far outside a line the pointer may be and
// still select it.
const DefaultInlinePadding = 2

// InlineOptions configures Inline.
type InlineOptions struct {
	// Padding grows each line when matching the pointer. Nil means
	// DefaultInlinePadding on every side.
	Padding *geom.Padding `json:"padding,omitempty" toml:"padding,omitempty"`

	// X and Y are the pointer position, typically where the user hovered.
	X *float64 `json:"x,omitempty" toml:"x,omitempty"`
	Y *float64 `json:"y,omitempty" toml:"y,omitempty"`
}

// GetRectsByLine groups the client rects of an inline element into visual
// lines. A rect joins the current line when its vertical range overlaps the
// line's range so far; otherwise it starts a new line. Each line is the
// bounding rect of its members, in input order.
func GetRectsByLine(rects []geom.Rect) []geom.Rect {
	var (
		lines   []geom.Rect
		current []geom.Rect
		top     float64
		bottom  float64
	)
	for _, r := range rects {
		if len(current) > 0 && r.Top() < bottom && r.Bottom() > top {
			current = append(current, r)
			top, bottom = min(top, r.Top()), max(bottom, r.Bottom())
			continue
		}
		if len(current) > 0 {
			lines = append(lines, geom.BoundingRect(current))
		}
		current = []geom.Rect{r}
		top, bottom = r.Top(), r.Bottom()
	}
	if len(current) > 0 {
		lines = append(lines, geom.BoundingRect(current))
	}
	return lines
}

// Inline positions against a single line of a reference that wraps across
// several lines, instead of its full bounding box.
func Inline(opts InlineOptions) *position.Middleware {
	padding := geom.Uniform(DefaultInlinePadding)
	if opts.Padding != nil {
		padding = *opts.Padding
	}

	return &position.Middleware{
		Name:    NameInline,
		Options: opts,
		Fn: func(ctx context.Context, s position.State) (position.Return, error) {
			provider, ok := s.Platform.(platform.ClientRectsProvider)
			if !ok {
				return position.Return{}, nil
			}
			native, err := provider.GetClientRects(ctx, s.Elements.Reference)
			if err != nil {
				return position.Return{}, errors.PlatformQuery(err, "getClientRects")
			}

			anchor := inlineAnchor(GetRectsByLine(native), geom.BoundingRect(native), s.Placement, opts, padding)
			next, err := s.Platform.GetElementRects(ctx, platform.ElementRectsRequest{
				Reference: platform.VirtualElement{Rect: anchor, ContextElement: s.Elements.Reference},
				Floating:  s.Elements.Floating,
				Strategy:  s.Strategy,
			})
			if err != nil {
				return position.Return{}, errors.PlatformQuery(err, "getElementRects")
			}

			if next.Reference != s.Rects.Reference {
				return position.Return{Reset: &position.Reset{Rects: &next}}, nil
			}
			return position.Return{}, nil
		},
	}
}

// inlineAnchor picks the rect the floating element is positioned against.
func inlineAnchor(lines []geom.Rect, fallback geom.Rect, p geom.Placement, opts InlineOptions, padding geom.Padding) geom.Rect {
	if len(lines) < 2 {
		return fallback
	}
	if opts.X != nil && opts.Y != nil {
		x, y := *opts.X, *opts.Y
		for _, line := range lines {
			if line.Contains(x, y, padding) {
				return line
			}
		}
		return nearestLine(lines, x, y)
	}

	if p.SideAxis() == geom.AxisY {
		first, last := lines[0], lines[len(lines)-1]
		edge := last
		if p.Side == geom.Top {
			edge = first
		}
		return geom.Rect{
			X:      edge.Left(),
			Y:      first.Top(),
			Width:  edge.Width,
			Height: last.Bottom() - first.Top(),
		}
	}

	minLeft, maxRight := math.Inf(1), math.Inf(-1)
	for _, line := range lines {
		minLeft = min(minLeft, line.Left())
		maxRight = max(maxRight, line.Right())
	}
	var measured []geom.Rect
	for _, line := range lines {
		if (p.Side == geom.Left && line.Left() == minLeft) || (p.Side != geom.Left && line.Right() == maxRight) {
			measured = append(measured, line)
		}
	}
	top, bottom := measured[0].Top(), measured[len(measured)-1].Bottom()
	return geom.Rect{X: minLeft, Y: top, Width: maxRight - minLeft, Height: bottom - top}
}

// nearestLine returns the line closest to (x, y). Ties go to the earlier line.
func nearestLine(lines []geom.Rect, x, y float64) geom.Rect {
	best, bestDist := lines[0], math.Inf(1)
	for _, line := range lines {
		dx := max(line.Left()-x, 0, x-line.Right())
		dy := max(line.Top()-y, 0, y-line.Bottom())
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist = line, d
		}
	}
	return best
}
