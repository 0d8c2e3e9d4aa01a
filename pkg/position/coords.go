package position

import "github.com/matzehuels/floatpos/pkg/geom"

// ComputeCoordsFromPlacement returns the top-left corner of the floating rect
// for placement p before any middleware runs.
//
// When rtl is set, start and end swap on top/bottom placements, whose
// alignment axis follows the text direction. Left/right placements align on
// the vertical axis and ignore rtl.
func ComputeCoordsFromPlacement(rects geom.ElementRects, p geom.Placement, rtl bool) geom.Coords {
	ref, float := rects.Reference, rects.Floating
	alignAxis := p.AlignmentAxis()
	isVertical := p.SideAxis() == geom.AxisY

	commonX := ref.X + ref.Width/2 - float.Width/2
	commonY := ref.Y + ref.Height/2 - float.Height/2
	commonAlign := ref.Length(alignAxis)/2 - float.Length(alignAxis)/2

	var c geom.Coords
	switch p.Side {
	case geom.Top:
		c = geom.Coords{X: commonX, Y: ref.Y - float.Height}
	case geom.Bottom:
		c = geom.Coords{X: commonX, Y: ref.Y + ref.Height}
	case geom.Right:
		c = geom.Coords{X: ref.X + ref.Width, Y: commonY}
	case geom.Left:
		c = geom.Coords{X: ref.X - float.Width, Y: commonY}
	default:
		c = geom.Coords{X: ref.X, Y: ref.Y}
	}

	dir := 1.0
	if rtl && isVertical {
		dir = -1
	}
	switch p.Alignment {
	case geom.Start:
		c = c.With(alignAxis, c.Get(alignAxis)-commonAlign*dir)
	case geom.End:
		c = c.With(alignAxis, c.Get(alignAxis)+commonAlign*dir)
	}
	return c
}
