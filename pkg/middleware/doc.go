// Package middleware provides the built-in adjustment steps for
// [position.ComputePosition].
//
// Each constructor returns a *position.Middleware keyed by a fixed name
// ("offset", "shift", "flip", ...). The data a middleware stores under its
// name is a typed struct from this package; read it back with
// [position.Get]:
//
//	flip, ok := position.Get[middleware.FlipData](res.MiddlewareData, middleware.NameFlip)
//
// # Ordering
//
// Middleware run in the order given and each one sees the coordinates left
// by the previous one, so order changes the result. The usual order is:
//
//	inline, offset, flip or autoPlacement, shift, size, arrow, hide
//
// offset comes before flip and shift so that both account for the gap, and
// arrow comes after shift so it centres against the final coordinates.
//
// # Resets
//
// flip, autoPlacement, size, arrow and inline may restart the scan. They
// record what they already tried in their data so the scan always
// terminates.
package middleware

// Names under which the built-in middleware store their data.
const (
	NameOffset        = "offset"
	NameShift         = "shift"
	NameFlip          = "flip"
	NameAutoPlacement = "autoPlacement"
	NameSize          = "size"
	NameHide          = "hide"
	NameArrow         = "arrow"
	NameInline        = "inline"
)

// Bool returns a pointer to v, for the optional switches in the option
// structs.
func Bool(v bool) *bool {
	return &v
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
