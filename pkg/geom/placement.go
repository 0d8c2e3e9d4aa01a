package geom

import (
	"fmt"
	"strings"
)

// Side is one of the four edges of the reference element.
type Side string

const (
	Top    Side = "top"
	Right  Side = "right"
	Bottom Side = "bottom"
	Left   Side = "left"
)

// Sides lists the four sides in clockwise order starting at the top.
var Sides = []Side{Top, Right, Bottom, Left}

// Valid reports whether s is one of the four sides.
func (s Side) Valid() bool {
	switch s {
	case Top, Right, Bottom, Left:
		return true
	}
	return false
}

// Opposite returns the side across from s.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	return s
}

// Axis returns the axis the side sits on: Y for top and bottom, X otherwise.
func (s Side) Axis() Axis {
	if s == Top || s == Bottom {
		return AxisY
	}
	return AxisX
}

// Alignment positions the floating element along the alignment axis.
// The zero value is center alignment.
type Alignment string

const (
	Center Alignment = ""
	Start  Alignment = "start"
	End    Alignment = "end"
)

// Valid reports whether a is center, start or end.
func (a Alignment) Valid() bool {
	return a == Center || a == Start || a == End
}

// Opposite swaps start and end; center stays center.
func (a Alignment) Opposite() Alignment {
	switch a {
	case Start:
		return End
	case End:
		return Start
	}
	return a
}

// Axis is a coordinate axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Opposite returns the perpendicular axis.
func (a Axis) Opposite() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// Length returns the dimension measured along the axis ("width" or "height").
func (a Axis) Length() string {
	if a == AxisY {
		return "height"
	}
	return "width"
}

// Placement is a (side, alignment) pair. The zero value is invalid; use
// [DefaultPlacement] when no placement was requested.
type Placement struct {
	Side      Side
	Alignment Alignment
}

// DefaultPlacement is bottom, centered.
var DefaultPlacement = Placement{Side: Bottom}

// Placements lists all twelve placements in canonical order.
var Placements = []Placement{
	{Top, Center}, {Top, Start}, {Top, End},
	{Right, Center}, {Right, Start}, {Right, End},
	{Bottom, Center}, {Bottom, Start}, {Bottom, End},
	{Left, Center}, {Left, Start}, {Left, End},
}

// NewPlacement is shorthand for Placement{Side: s, Alignment: a}.
func NewPlacement(s Side, a Alignment) Placement {
	return Placement{Side: s, Alignment: a}
}

// ParsePlacement parses "side" or "side-alignment".
func ParsePlacement(s string) (Placement, error) {
	side, align, found := strings.Cut(strings.TrimSpace(s), "-")
	p := Placement{Side: Side(side), Alignment: Alignment(align)}
	if align == "center" {
		p.Alignment = Center
	}
	if !p.Valid() || (found && align == "") {
		return Placement{}, fmt.Errorf("invalid placement %q", s)
	}
	return p, nil
}

// MustParsePlacement is like ParsePlacement but panics on error.
// Intended for tests and package-level tables.
func MustParsePlacement(s string) Placement {
	p, err := ParsePlacement(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether p is one of the twelve placements.
func (p Placement) Valid() bool {
	return p.Side.Valid() && p.Alignment.Valid()
}

// IsZero reports whether p is the zero value.
func (p Placement) IsZero() bool {
	return p == Placement{}
}

// String returns the text form, e.g. "top" or "left-end".
func (p Placement) String() string {
	if p.Alignment == Center {
		return string(p.Side)
	}
	return string(p.Side) + "-" + string(p.Alignment)
}

// MarshalText implements encoding.TextMarshaler.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text decodes
// to the zero Placement.
func (p *Placement) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = Placement{}
		return nil
	}
	parsed, err := ParsePlacement(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// SideAxis is the axis the side sits on.
func (p Placement) SideAxis() Axis { return p.Side.Axis() }

// AlignmentAxis is the axis the floating element slides along.
func (p Placement) AlignmentAxis() Axis { return p.Side.Axis().Opposite() }

// Opposite flips the side and keeps the alignment.
func (p Placement) Opposite() Placement {
	return Placement{Side: p.Side.Opposite(), Alignment: p.Alignment}
}

// OppositeAlignment swaps start and end and keeps the side.
func (p Placement) OppositeAlignment() Placement {
	return Placement{Side: p.Side, Alignment: p.Alignment.Opposite()}
}

// ExpandedPlacements returns the flip candidates of an aligned placement:
// the opposite alignment, the opposite side, then both flipped.
func ExpandedPlacements(p Placement) []Placement {
	opposite := p.Opposite()
	return []Placement{p.OppositeAlignment(), opposite, opposite.OppositeAlignment()}
}

// sideList returns the sides perpendicular to side ordered for the requested
// direction.
func sideList(side Side, isStart, rtl bool) []Side {
	lr := []Side{Left, Right}
	rl := []Side{Right, Left}
	tb := []Side{Top, Bottom}
	bt := []Side{Bottom, Top}
	switch side {
	case Top, Bottom:
		if rtl {
			if isStart {
				return rl
			}
			return lr
		}
		if isStart {
			return lr
		}
		return rl
	case Left, Right:
		if isStart {
			return tb
		}
		return bt
	}
	return nil
}

// OppositeAxisPlacements returns placements on the perpendicular sides of p.
// direction selects which perpendicular side comes first ("start" or "end").
func OppositeAxisPlacements(p Placement, flipAlignment bool, direction Alignment, rtl bool) []Placement {
	sides := sideList(p.Side, direction == Start, rtl)
	list := make([]Placement, 0, len(sides)*2)
	for _, s := range sides {
		list = append(list, Placement{Side: s, Alignment: p.Alignment})
	}
	if p.Alignment != Center && flipAlignment {
		for _, s := range sides {
			list = append(list, Placement{Side: s, Alignment: p.Alignment.Opposite()})
		}
	}
	return list
}

// AlignmentSides returns the two sides on the alignment axis that an aligned
// placement can overflow, the one the alignment points at first. When the
// reference is longer than the floating element along that axis the order is
// reversed.
func AlignmentSides(p Placement, rects ElementRects, rtl bool) (Side, Side) {
	axis := p.AlignmentAxis()
	var main Side
	if axis == AxisX {
		startAlign := Start
		if rtl {
			startAlign = End
		}
		if p.Alignment == startAlign {
			main = Right
		} else {
			main = Left
		}
	} else {
		if p.Alignment == Start {
			main = Bottom
		} else {
			main = Top
		}
	}
	if rects.Reference.Length(axis) > rects.Floating.Length(axis) {
		main = main.Opposite()
	}
	return main, main.Opposite()
}
