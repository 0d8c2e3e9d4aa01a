package errors

import (
	"math"
	"regexp"

	"github.com/matzehuels/floatpos/pkg/geom"
)

// ValidatePlacement checks that p is one of the twelve placements.
func ValidatePlacement(p geom.Placement) error {
	if !p.Valid() {
		return InvalidPlacement("invalid placement %q (side must be top, right, bottom or left; alignment start, end or empty)", p.String())
	}
	return nil
}

// ValidateStrategy checks that s is absolute or fixed.
func ValidateStrategy(s geom.Strategy) error {
	if !s.Valid() {
		return New(ErrCodeInvalidInput, "invalid strategy %q (must be absolute or fixed)", s)
	}
	return nil
}

// ValidateRect rejects rects with negative or non-finite components.
// name identifies the rect in the error message.
func ValidateRect(name string, r geom.Rect) error {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidScene, "%s: rect %v is not finite", name, r)
		}
	}
	if err := r.Validate(); err != nil {
		return Wrap(ErrCodeInvalidScene, err, "%s", name)
	}
	return nil
}

// elementNameRegex matches scene element names.
var elementNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]{0,63}$`)

// ValidateElementName checks that name can be used as a scene element key.
//
// The validation rules are intentionally conservative:
//   - Starts with a letter or underscore
//   - Letters, digits, '_', '.', '-' afterwards
//   - Maximum length of 64 characters
func ValidateElementName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidScene, "element name cannot be empty")
	}
	if !elementNameRegex.MatchString(name) {
		return New(ErrCodeInvalidScene, "invalid element name: %q", name)
	}
	return nil
}
