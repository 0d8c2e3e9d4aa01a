// Package platform defines the boundary between the positioning engine and
// whatever measures real elements.
//
// The engine never inspects element handles; it passes them back to the
// [Platform] that produced them. A DOM binding, a terminal UI toolkit or the
// in-memory scene in pkg/scene can all serve as a platform.
//
// # Required Methods
//
// Every platform implements [Platform]. All methods take a context because a
// platform may have to cross a process or network boundary to answer.
//
// # Optional Capabilities
//
// Some middleware need more than the required surface:
//
//   - [ClientRectsProvider]: per-line rects of an inline reference (inline)
//   - [OffsetParentConverter]: offset-parent to viewport conversion (overflow)
//   - [ClientSizer]: inner size of an arrow's offset parent (arrow)
//
// The engine type-asserts for these and falls back to simpler geometry when
// they are missing.
package platform

import (
	"context"

	"github.com/matzehuels/floatpos/pkg/geom"
)

// Boundary selects the clipping ancestors an element is tested against.
// It is either [ClippingAncestors], an element handle, a slice of handles, or
// a geom.Rect. Platforms decide which forms they accept.
type Boundary any

// RootBoundary is the outermost clipping region: [Viewport], [Document], or a
// geom.Rect.
type RootBoundary any

// Well-known boundary values.
const (
	ClippingAncestors = "clippingAncestors"
	Viewport          = "viewport"
	Document          = "document"
)

// ElementRectsRequest is the input to GetElementRects.
type ElementRectsRequest struct {
	Reference any
	Floating  any
	Strategy  geom.Strategy
}

// ClippingRectRequest is the input to GetClippingRect.
type ClippingRectRequest struct {
	Element      any
	Boundary     Boundary
	RootBoundary RootBoundary
	Strategy     geom.Strategy
}

// Platform measures elements on behalf of the engine.
type Platform interface {
	// GetElementRects returns the reference rect relative to the floating
	// element's offset parent and the floating element's size.
	GetElementRects(ctx context.Context, req ElementRectsRequest) (geom.ElementRects, error)

	// GetClippingRect returns the intersection of the element's clipping
	// ancestors selected by the boundary, up to the root boundary.
	GetClippingRect(ctx context.Context, req ClippingRectRequest) (geom.Rect, error)

	// GetDimensions returns the element's size.
	GetDimensions(ctx context.Context, element any) (geom.Dimensions, error)

	// GetOffsetParent returns the element's offset parent, or nil.
	GetOffsetParent(ctx context.Context, element any) (any, error)

	// IsRTL reports whether the element's writing direction is right-to-left.
	IsRTL(ctx context.Context, element any) (bool, error)

	// GetScale returns the element's scale factors. Unscaled is {1, 1}.
	GetScale(ctx context.Context, element any) (geom.Coords, error)
}

// ClientRectsProvider is implemented by platforms that can report the
// individual line boxes of an inline element.
type ClientRectsProvider interface {
	GetClientRects(ctx context.Context, element any) ([]geom.Rect, error)
}

// ConvertRequest is the input to ConvertOffsetParentRelativeRectToViewportRelativeRect.
type ConvertRequest struct {
	Reference    any
	Floating     any
	Rect         geom.Rect
	OffsetParent any
	Strategy     geom.Strategy
}

// OffsetParentConverter is implemented by platforms whose element rects are
// relative to an offset parent rather than the viewport.
type OffsetParentConverter interface {
	ConvertOffsetParentRelativeRectToViewportRelativeRect(ctx context.Context, req ConvertRequest) (geom.Rect, error)
}

// ClientSizer is implemented by platforms that know an element's inner
// (client) size, used to place an arrow inside its offset parent.
type ClientSizer interface {
	GetClientSize(ctx context.Context, element any) (geom.Dimensions, error)
}

// VirtualElement is a reference that exists only as a rectangle. Platforms
// must accept it wherever a reference handle is accepted.
type VirtualElement struct {
	// Rect is the element's bounding rect in viewport space.
	Rect geom.Rect

	// ContextElement is the real element the rect came from, if any. It is
	// used when a clipping boundary has to be resolved for the reference.
	ContextElement any
}

// Unscaled is the identity scale.
var Unscaled = geom.Coords{X: 1, Y: 1}
