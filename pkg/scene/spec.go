package scene

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/middleware"
	"github.com/matzehuels/floatpos/pkg/position"
)

// MiddlewareSpec describes one middleware of a job. Exactly one field must
// be set; its name selects the middleware:
//
//	middleware = [
//	  { offset = { main_axis = 8 } },
//	  { flip = {} },
//	  { shift = { padding = { left = 4, right = 4 }, limit = {} } },
//	]
type MiddlewareSpec struct {
	Offset        *middleware.OffsetOptions        `json:"offset,omitempty" toml:"offset,omitempty"`
	Shift         *ShiftSpec                       `json:"shift,omitempty" toml:"shift,omitempty"`
	Flip          *middleware.FlipOptions          `json:"flip,omitempty" toml:"flip,omitempty"`
	AutoPlacement *middleware.AutoPlacementOptions `json:"auto_placement,omitempty" toml:"auto_placement,omitempty"`
	Size          *SizeSpec                        `json:"size,omitempty" toml:"size,omitempty"`
	Hide          *middleware.HideOptions          `json:"hide,omitempty" toml:"hide,omitempty"`
	Arrow         *ArrowSpec                       `json:"arrow,omitempty" toml:"arrow,omitempty"`
	Inline        *middleware.InlineOptions        `json:"inline,omitempty" toml:"inline,omitempty"`
}

// ShiftSpec is Shift with an optional LimitShift limiter.
type ShiftSpec struct {
	middleware.ShiftOptions
	Limit *middleware.LimitShiftOptions `json:"limit,omitempty" toml:"limit,omitempty"`
}

// SizeSpec is Size. With Fit set the floating element is shrunk to the
// available space.
type SizeSpec struct {
	middleware.SizeOptions
	Fit bool `json:"fit,omitempty" toml:"fit,omitempty"`
}

// ArrowSpec is Arrow with the arrow element given by name.
type ArrowSpec struct {
	Element string `json:"element" toml:"element"`
	middleware.ArrowOptions
}

// Kind returns the name of the middleware the spec selects, or "" when no
// field is set.
func (m MiddlewareSpec) Kind() string {
	kinds := m.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

func (m MiddlewareSpec) kinds() []string {
	var kinds []string
	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}
	add(m.Offset != nil, middleware.NameOffset)
	add(m.Shift != nil, middleware.NameShift)
	add(m.Flip != nil, middleware.NameFlip)
	add(m.AutoPlacement != nil, middleware.NameAutoPlacement)
	add(m.Size != nil, middleware.NameSize)
	add(m.Hide != nil, middleware.NameHide)
	add(m.Arrow != nil, middleware.NameArrow)
	add(m.Inline != nil, middleware.NameInline)
	return kinds
}

func (m MiddlewareSpec) validate(s *Scene) error {
	kinds := m.kinds()
	switch len(kinds) {
	case 0:
		return errors.InvalidMiddleware("no middleware selected")
	case 1:
	default:
		return errors.InvalidMiddleware("exactly one middleware per entry, got %s", strings.Join(kinds, ", "))
	}

	switch {
	case m.Flip != nil:
		switch m.Flip.CrossAxis {
		case "", middleware.CrossAxisOn, middleware.CrossAxisOff, middleware.CrossAxisAlignment:
		default:
			return errors.InvalidMiddleware("flip: unknown cross_axis %q", m.Flip.CrossAxis)
		}
		switch m.Flip.FallbackStrategy {
		case "", middleware.BestFit, middleware.InitialPlacement:
		default:
			return errors.InvalidMiddleware("flip: unknown fallback_strategy %q", m.Flip.FallbackStrategy)
		}
		if !m.Flip.FallbackAxisSideDirection.Valid() {
			return errors.InvalidMiddleware("flip: unknown fallback_axis_side_direction %q", m.Flip.FallbackAxisSideDirection)
		}
		for _, p := range m.Flip.FallbackPlacements {
			if err := errors.ValidatePlacement(p); err != nil {
				return err
			}
		}
	case m.AutoPlacement != nil:
		if a := m.AutoPlacement.Alignment; a != nil && !a.Valid() {
			return errors.InvalidMiddleware("auto_placement: unknown alignment %q", *a)
		}
		for _, p := range m.AutoPlacement.AllowedPlacements {
			if err := errors.ValidatePlacement(p); err != nil {
				return err
			}
		}
	case m.Hide != nil:
		switch m.Hide.Strategy {
		case "", middleware.ReferenceHidden, middleware.Escaped:
		default:
			return errors.InvalidMiddleware("hide: unknown strategy %q", m.Hide.Strategy)
		}
	case m.Arrow != nil:
		if _, ok := s.Elements[m.Arrow.Element]; !ok {
			return errors.New(errors.ErrCodeInvalidScene, "arrow: unknown element %q", m.Arrow.Element)
		}
	}
	return nil
}

// Build turns the job's specs into middleware bound to plat. Size specs
// with Fit resize the job's floating element on plat.
func (j Job) Build(plat *Static) ([]*position.Middleware, error) {
	mws := make([]*position.Middleware, 0, len(j.Middleware))
	for i, spec := range j.Middleware {
		m, err := spec.build(j, plat)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "middleware %d", i)
		}
		mws = append(mws, m)
	}
	return mws, nil
}

func (m MiddlewareSpec) build(j Job, plat *Static) (*position.Middleware, error) {
	switch m.Kind() {
	case middleware.NameOffset:
		return middleware.Offset(*m.Offset), nil
	case middleware.NameShift:
		opts := m.Shift.ShiftOptions
		if m.Shift.Limit != nil {
			opts.Limiter = middleware.LimitShift(*m.Shift.Limit)
		}
		return middleware.Shift(opts), nil
	case middleware.NameFlip:
		return middleware.Flip(*m.Flip), nil
	case middleware.NameAutoPlacement:
		return middleware.AutoPlacement(*m.AutoPlacement), nil
	case middleware.NameSize:
		opts := m.Size.SizeOptions
		if m.Size.Fit {
			opts.Apply = fitFloating(plat, j.Floating)
		}
		return middleware.Size(opts), nil
	case middleware.NameHide:
		return middleware.Hide(*m.Hide), nil
	case middleware.NameArrow:
		opts := m.Arrow.ArrowOptions
		opts.Element = m.Arrow.Element
		return middleware.Arrow(opts), nil
	case middleware.NameInline:
		return middleware.Inline(*m.Inline), nil
	}
	return nil, errors.InvalidMiddleware("cannot build %s", describe(m))
}

// fitFloating shrinks the named element to the available space.
func fitFloating(plat *Static, name string) func(context.Context, middleware.SizeState) error {
	return func(_ context.Context, s middleware.SizeState) error {
		w := min(s.Rects.Floating.Width, max(s.AvailableWidth, 0))
		h := min(s.Rects.Floating.Height, max(s.AvailableHeight, 0))
		return plat.Resize(name, w, h)
	}
}

func describe(m MiddlewareSpec) string {
	if kinds := m.kinds(); len(kinds) > 0 {
		return strings.Join(kinds, "+")
	}
	return fmt.Sprintf("%+v", m)
}
