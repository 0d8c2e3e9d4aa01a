package position

import (
	"context"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/platform"
)

// ElementContext selects which element's rect is tested for overflow.
type ElementContext string

const (
	FloatingContext  ElementContext = "floating"
	ReferenceContext ElementContext = "reference"
)

// OverflowOptions configures DetectOverflow. The zero value tests the
// floating rect against its clipping ancestors up to the viewport.
type OverflowOptions struct {
	Boundary       platform.Boundary     `json:"boundary,omitempty" toml:"boundary,omitempty"`
	RootBoundary   platform.RootBoundary `json:"root_boundary,omitempty" toml:"root_boundary,omitempty"`
	ElementContext ElementContext        `json:"element_context,omitempty" toml:"element_context,omitempty"`

	// AltBoundary resolves the clipping boundary of the other element
	// instead of the one being tested.
	AltBoundary bool `json:"alt_boundary,omitempty" toml:"alt_boundary,omitempty"`

	// Padding shrinks the boundary on each side.
	Padding geom.Padding `json:"padding,omitempty" toml:"padding,omitempty"`
}

func (o OverflowOptions) withDefaults() OverflowOptions {
	if o.Boundary == nil {
		o.Boundary = platform.ClippingAncestors
	}
	if o.RootBoundary == nil {
		o.RootBoundary = platform.Viewport
	}
	if o.ElementContext == "" {
		o.ElementContext = FloatingContext
	}
	return o
}

// DetectOverflow measures how far the element selected by opts extends past
// its clipping boundary on each side. Positive values overflow.
func DetectOverflow(ctx context.Context, s State, opts OverflowOptions) (geom.Overflow, error) {
	opts = opts.withDefaults()
	p := s.Platform

	boundaryContext := opts.ElementContext
	if opts.AltBoundary {
		if boundaryContext == FloatingContext {
			boundaryContext = ReferenceContext
		} else {
			boundaryContext = FloatingContext
		}
	}
	element := s.Elements.Floating
	if boundaryContext == ReferenceContext {
		element = s.Elements.Reference
	}
	if v, ok := element.(platform.VirtualElement); ok && v.ContextElement != nil {
		element = v.ContextElement
	}

	clip, err := p.GetClippingRect(ctx, platform.ClippingRectRequest{
		Element:      element,
		Boundary:     opts.Boundary,
		RootBoundary: opts.RootBoundary,
		Strategy:     s.Strategy,
	})
	if err != nil {
		return geom.Overflow{}, errors.PlatformQuery(err, "getClippingRect")
	}

	rect := s.Rects.Reference
	if opts.ElementContext == FloatingContext {
		rect = geom.Rect{X: s.X, Y: s.Y, Width: s.Rects.Floating.Width, Height: s.Rects.Floating.Height}
	}

	offsetParent, err := p.GetOffsetParent(ctx, s.Elements.Floating)
	if err != nil {
		return geom.Overflow{}, errors.PlatformQuery(err, "getOffsetParent")
	}
	scale := platform.Unscaled
	if offsetParent != nil {
		scale, err = p.GetScale(ctx, offsetParent)
		if err != nil {
			return geom.Overflow{}, errors.PlatformQuery(err, "getScale")
		}
		if scale.X == 0 || scale.Y == 0 {
			scale = platform.Unscaled
		}
	}

	if conv, ok := p.(platform.OffsetParentConverter); ok {
		rect, err = conv.ConvertOffsetParentRelativeRectToViewportRelativeRect(ctx, platform.ConvertRequest{
			Reference:    s.Elements.Reference,
			Floating:     s.Elements.Floating,
			Rect:         rect,
			OffsetParent: offsetParent,
			Strategy:     s.Strategy,
		})
		if err != nil {
			return geom.Overflow{}, errors.PlatformQuery(err, "convertOffsetParentRelativeRectToViewportRelativeRect")
		}
	}

	c, el, pad := clip.ClientRect(), rect.ClientRect(), opts.Padding
	return geom.Overflow{
		Top:    (c.Top - el.Top + pad.Top) / scale.Y,
		Bottom: (el.Bottom - c.Bottom + pad.Bottom) / scale.Y,
		Left:   (c.Left - el.Left + pad.Left) / scale.X,
		Right:  (el.Right - c.Right + pad.Right) / scale.X,
	}, nil
}
