package scene

import (
	"context"
	"sync"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/platform"
)

// Static is a platform backed by a scene. Element handles are element names;
// a platform.VirtualElement is accepted wherever a reference is.
//
// Static works on its own copy of the scene, so Resize never affects the
// scene it was created from. It is safe for concurrent use.
type Static struct {
	mu    sync.RWMutex
	scene *Scene
}

// NewStatic returns a platform over a copy of s.
func NewStatic(s *Scene) *Static {
	return &Static{scene: s.Clone()}
}

// Resize sets the size of the named element, keeping its origin.
func (p *Static) Resize(name string, width, height float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.scene.Elements[name]
	if !ok {
		return unknownElement(name)
	}
	el.Rect.Width, el.Rect.Height = width, height
	p.scene.Elements[name] = el
	return nil
}

// Element returns the current state of the named element.
func (p *Static) Element(name string) (Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	el, ok := p.scene.Elements[name]
	return el, ok
}

func (p *Static) GetElementRects(_ context.Context, req platform.ElementRectsRequest) (geom.ElementRects, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ref, err := p.pageRect(req.Reference)
	if err != nil {
		return geom.ElementRects{}, err
	}
	floating, err := p.pageRect(req.Floating)
	if err != nil {
		return geom.ElementRects{}, err
	}

	if req.Strategy != geom.Fixed {
		if parent, ok := p.offsetParent(req.Floating); ok {
			origin := p.scene.Elements[parent].Rect
			ref.X -= origin.X
			ref.Y -= origin.Y
		}
	}
	return geom.ElementRects{
		Reference: ref,
		Floating:  geom.Rect{Width: floating.Width, Height: floating.Height},
	}, nil
}

func (p *Static) GetClippingRect(_ context.Context, req platform.ClippingRectRequest) (geom.Rect, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	clip, err := p.rootRect(req.RootBoundary)
	if err != nil {
		return geom.Rect{}, err
	}

	if req.Boundary != nil && req.Boundary != platform.ClippingAncestors {
		r, err := p.boundaryRect(req.Boundary)
		if err != nil {
			return geom.Rect{}, err
		}
		return intersect(clip, r), nil
	}

	name, ok := req.Element.(string)
	if !ok {
		return clip, nil
	}
	if _, ok := p.scene.Elements[name]; !ok {
		return geom.Rect{}, unknownElement(name)
	}
	for _, a := range p.scene.ancestors(name) {
		if el := p.scene.Elements[a]; el.Clip {
			clip = intersect(clip, el.Rect)
		}
	}
	return clip, nil
}

func (p *Static) GetDimensions(_ context.Context, element any) (geom.Dimensions, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, err := p.pageRect(element)
	if err != nil {
		return geom.Dimensions{}, err
	}
	return r.Dimensions(), nil
}

func (p *Static) GetOffsetParent(_ context.Context, element any) (any, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if parent, ok := p.offsetParent(element); ok {
		return parent, nil
	}
	return nil, nil
}

func (p *Static) IsRTL(_ context.Context, element any) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if name, ok := element.(string); ok {
		if el, ok := p.scene.Elements[name]; ok && el.RTL != nil {
			return *el.RTL, nil
		}
	}
	return p.scene.RTL, nil
}

func (p *Static) GetScale(_ context.Context, element any) (geom.Coords, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if name, ok := element.(string); ok {
		if el, ok := p.scene.Elements[name]; ok && el.Scale != nil {
			return *el.Scale, nil
		}
	}
	return platform.Unscaled, nil
}

// GetClientRects returns the element's line boxes, or its rect when it has
// none.
func (p *Static) GetClientRects(_ context.Context, element any) ([]geom.Rect, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := element.(platform.VirtualElement); ok {
		return []geom.Rect{v.Rect}, nil
	}
	name, _ := element.(string)
	el, ok := p.scene.Elements[name]
	if !ok {
		return nil, unknownElement(name)
	}
	if len(el.ClientRects) == 0 {
		return []geom.Rect{el.Rect}, nil
	}
	return append([]geom.Rect(nil), el.ClientRects...), nil
}

// ConvertOffsetParentRelativeRectToViewportRelativeRect moves rect from the
// offset parent's space back to page space.
func (p *Static) ConvertOffsetParentRelativeRectToViewportRelativeRect(_ context.Context, req platform.ConvertRequest) (geom.Rect, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	name, ok := req.OffsetParent.(string)
	if !ok || req.Strategy == geom.Fixed {
		return req.Rect, nil
	}
	parent, ok := p.scene.Elements[name]
	if !ok {
		return geom.Rect{}, unknownElement(name)
	}
	scale := platform.Unscaled
	if parent.Scale != nil && parent.Scale.X != 0 && parent.Scale.Y != 0 {
		scale = *parent.Scale
	}
	return geom.Rect{
		X:      req.Rect.X*scale.X + parent.Rect.X,
		Y:      req.Rect.Y*scale.Y + parent.Rect.Y,
		Width:  req.Rect.Width * scale.X,
		Height: req.Rect.Height * scale.Y,
	}, nil
}

// GetClientSize returns the inner size of the element.
func (p *Static) GetClientSize(ctx context.Context, element any) (geom.Dimensions, error) {
	return p.GetDimensions(ctx, element)
}

var (
	_ platform.Platform              = (*Static)(nil)
	_ platform.ClientRectsProvider   = (*Static)(nil)
	_ platform.OffsetParentConverter = (*Static)(nil)
	_ platform.ClientSizer           = (*Static)(nil)
)

// pageRect resolves a handle to its rect in page coordinates.
func (p *Static) pageRect(element any) (geom.Rect, error) {
	switch e := element.(type) {
	case platform.VirtualElement:
		return e.Rect, nil
	case string:
		el, ok := p.scene.Elements[e]
		if !ok {
			return geom.Rect{}, unknownElement(e)
		}
		return el.Rect, nil
	}
	return geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "unsupported element handle %T", element)
}

// offsetParent returns the nearest positioned ancestor of element.
func (p *Static) offsetParent(element any) (string, bool) {
	name, ok := element.(string)
	if !ok {
		return "", false
	}
	for _, a := range p.scene.ancestors(name) {
		if p.scene.Elements[a].Positioned {
			return a, true
		}
	}
	return "", false
}

func (p *Static) rootRect(root platform.RootBoundary) (geom.Rect, error) {
	switch r := root.(type) {
	case nil:
		return p.scene.Viewport, nil
	case string:
		switch r {
		case platform.Viewport:
			return p.scene.Viewport, nil
		case platform.Document:
			if p.scene.Document != nil {
				return *p.scene.Document, nil
			}
			return p.scene.Viewport, nil
		}
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "unknown root boundary %q", r)
	}
	return p.boundaryRect(root)
}

// boundaryRect resolves an explicit boundary: an element name, a list of
// names, or a rect, possibly decoded from a scene file as a map.
func (p *Static) boundaryRect(b any) (geom.Rect, error) {
	switch v := b.(type) {
	case geom.Rect:
		return v, nil
	case *geom.Rect:
		return *v, nil
	case string:
		return p.pageRect(v)
	case []string:
		return p.boundaryList(len(v), func(i int) any { return v[i] })
	case []any:
		return p.boundaryList(len(v), func(i int) any { return v[i] })
	case map[string]any:
		return rectFromMap(v)
	}
	return geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "unsupported boundary %T", b)
}

func (p *Static) boundaryList(n int, at func(int) any) (geom.Rect, error) {
	if n == 0 {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "empty boundary list")
	}
	clip, err := p.boundaryRect(at(0))
	if err != nil {
		return geom.Rect{}, err
	}
	for i := 1; i < n; i++ {
		r, err := p.boundaryRect(at(i))
		if err != nil {
			return geom.Rect{}, err
		}
		clip = intersect(clip, r)
	}
	return clip, nil
}

func rectFromMap(m map[string]any) (geom.Rect, error) {
	var r geom.Rect
	fields := map[string]*float64{"x": &r.X, "y": &r.Y, "width": &r.Width, "height": &r.Height}
	for key, dst := range fields {
		raw, ok := m[key]
		if !ok {
			continue
		}
		switch n := raw.(type) {
		case float64:
			*dst = n
		case int64:
			*dst = float64(n)
		case int:
			*dst = float64(n)
		default:
			return geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "boundary %s: not a number", key)
		}
	}
	return r, nil
}

// intersect returns the overlap of a and b. Disjoint rects yield an empty
// rect at the overlap's origin.
func intersect(a, b geom.Rect) geom.Rect {
	left, top := max(a.Left(), b.Left()), max(a.Top(), b.Top())
	right, bottom := min(a.Right(), b.Right()), min(a.Bottom(), b.Bottom())
	return geom.Rect{X: left, Y: top, Width: max(right-left, 0), Height: max(bottom-top, 0)}
}

func unknownElement(name string) error {
	return errors.New(errors.ErrCodeNotFound, "unknown element %q", name)
}
