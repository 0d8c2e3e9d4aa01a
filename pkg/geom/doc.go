// Package geom provides the geometry model shared by the positioning engine,
// the middleware library and the platform implementations.
//
// # Core Types
//
//   - [Side], [Alignment], [Placement]: where the floating element attaches
//   - [Rect], [ClientRect], [Coords], [Dimensions]: plain geometry values
//   - [ElementRects]: the reference and floating rectangles of one call
//   - [Overflow], [Padding]: per-side measurements
//   - [Strategy]: CSS-style positioning strategy, passed through untouched
//
// # Axes
//
// Every placement has two axes:
//
//	side axis       the axis the side sits on ("y" for top/bottom)
//	alignment axis  the perpendicular axis ("x" for top/bottom)
//
// Helpers such as [Placement.SideAxis], [Placement.AlignmentAxis] and
// [AlignmentSides] encode this algebra once so the middleware never branch on
// individual sides.
//
// # Text Form
//
// Placements marshal as "side" or "side-alignment":
//
//	p, _ := geom.ParsePlacement("bottom-start")
//	p.String() // "bottom-start"
package geom
