package geom

import "fmt"

// Strategy is the CSS positioning strategy of the floating element. The
// engine never interprets it; platforms may.
type Strategy string

const (
	Absolute Strategy = "absolute"
	Fixed    Strategy = "fixed"
)

// Valid reports whether s is absolute or fixed.
func (s Strategy) Valid() bool {
	return s == Absolute || s == Fixed
}

// Coords is a point.
type Coords struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Get returns the coordinate on axis a.
func (c Coords) Get(a Axis) float64 {
	if a == AxisY {
		return c.Y
	}
	return c.X
}

// With returns c with the coordinate on axis a replaced by v.
func (c Coords) With(a Axis, v float64) Coords {
	if a == AxisY {
		c.Y = v
	} else {
		c.X = v
	}
	return c
}

// Dimensions is a width and height.
type Dimensions struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Length returns the extent along axis a.
func (d Dimensions) Length(a Axis) float64 {
	if a == AxisY {
		return d.Height
	}
	return d.Width
}

// Rect is an axis-aligned rectangle given by its origin and size.
type Rect struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Left returns the left edge.
func (r Rect) Left() float64 { return r.X }

// Top returns the top edge.
func (r Rect) Top() float64 { return r.Y }

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Pos returns the coordinate of the origin on axis a.
func (r Rect) Pos(a Axis) float64 {
	if a == AxisY {
		return r.Y
	}
	return r.X
}

// Length returns the extent along axis a.
func (r Rect) Length(a Axis) float64 {
	if a == AxisY {
		return r.Height
	}
	return r.Width
}

// Dimensions returns the size of r.
func (r Rect) Dimensions() Dimensions {
	return Dimensions{Width: r.Width, Height: r.Height}
}

// ClientRect expands r into its edge form.
func (r Rect) ClientRect() ClientRect {
	return ClientRect{
		Rect:   r,
		Top:    r.Y,
		Right:  r.X + r.Width,
		Bottom: r.Y + r.Height,
		Left:   r.X,
	}
}

// Contains reports whether point (x, y) lies inside r grown by p.
// Edges are exclusive.
func (r Rect) Contains(x, y float64, p Padding) bool {
	return x > r.Left()-p.Left && x < r.Right()+p.Right &&
		y > r.Top()-p.Top && y < r.Bottom()+p.Bottom
}

// Validate rejects negative sizes.
func (r Rect) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("rect has negative size %gx%g", r.Width, r.Height)
	}
	return nil
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.Width, r.Height)
}

// ClientRect is a Rect together with its four edges.
type ClientRect struct {
	Rect
	Top, Right, Bottom, Left float64
}

// BoundingRect returns the smallest rect enclosing every rect in rects.
// An empty slice yields the zero Rect.
func BoundingRect(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	minX, minY := rects[0].Left(), rects[0].Top()
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		minX = min(minX, r.Left())
		minY = min(minY, r.Top())
		maxX = max(maxX, r.Right())
		maxY = max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ElementRects holds the reference and floating rects of one call, both in
// the floating element's offset-parent coordinate space.
type ElementRects struct {
	Reference Rect `json:"reference" toml:"reference"`
	Floating  Rect `json:"floating" toml:"floating"`
}

// Overflow is how far an element extends past a boundary on each side.
// Positive values overflow, negative values are remaining space.
type Overflow struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Side returns the overflow on side s.
func (o Overflow) Side(s Side) float64 {
	switch s {
	case Top:
		return o.Top
	case Right:
		return o.Right
	case Bottom:
		return o.Bottom
	case Left:
		return o.Left
	}
	return 0
}

// Fits reports whether no side overflows.
func (o Overflow) Fits() bool {
	return o.Top <= 0 && o.Right <= 0 && o.Bottom <= 0 && o.Left <= 0
}

// Padding is per-side spacing. The zero value is no padding.
type Padding struct {
	Top    float64 `json:"top,omitempty" toml:"top,omitempty"`
	Right  float64 `json:"right,omitempty" toml:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty" toml:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty" toml:"left,omitempty"`
}

// Uniform returns the same padding on all four sides.
func Uniform(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// Side returns the padding on side s.
func (p Padding) Side(s Side) float64 {
	switch s {
	case Top:
		return p.Top
	case Right:
		return p.Right
	case Bottom:
		return p.Bottom
	case Left:
		return p.Left
	}
	return 0
}

// Clamp restricts v to [lo, hi]. When lo > hi the lower bound wins.
func Clamp(lo, v, hi float64) float64 {
	return max(lo, min(v, hi))
}
