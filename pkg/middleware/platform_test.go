package middleware

import (
	"context"
	"testing"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/platform"
	"github.com/matzehuels/floatpos/pkg/position"
)

const (
	refHandle   = "reference"
	floatHandle = "floating"
	arrowHandle = "arrow"
)

// testPlatform is an in-memory platform. The floating element sits at the
// origin of the shared coordinate space.
type testPlatform struct {
	reference geom.Rect
	floating  geom.Dimensions
	clip      geom.Rect
	clips     map[any]geom.Rect
	dims      map[any]geom.Dimensions
	rtl       bool

	clientRects []geom.Rect
	clipErr     error
}

func newTestPlatform(reference geom.Rect, floating geom.Dimensions) *testPlatform {
	return &testPlatform{
		reference: reference,
		floating:  floating,
		clip:      geom.Rect{Width: 1000, Height: 1000},
		clips:     map[any]geom.Rect{},
		dims:      map[any]geom.Dimensions{},
	}
}

func (p *testPlatform) GetElementRects(_ context.Context, req platform.ElementRectsRequest) (geom.ElementRects, error) {
	ref := p.reference
	if v, ok := req.Reference.(platform.VirtualElement); ok {
		ref = v.Rect
	}
	return geom.ElementRects{
		Reference: ref,
		Floating:  geom.Rect{Width: p.floating.Width, Height: p.floating.Height},
	}, nil
}

func (p *testPlatform) GetClippingRect(_ context.Context, req platform.ClippingRectRequest) (geom.Rect, error) {
	if p.clipErr != nil {
		return geom.Rect{}, p.clipErr
	}
	if r, ok := req.Boundary.(geom.Rect); ok {
		return r, nil
	}
	if r, ok := p.clips[req.Element]; ok {
		return r, nil
	}
	return p.clip, nil
}

func (p *testPlatform) GetDimensions(_ context.Context, element any) (geom.Dimensions, error) {
	if d, ok := p.dims[element]; ok {
		return d, nil
	}
	return p.floating, nil
}

func (p *testPlatform) GetOffsetParent(context.Context, any) (any, error) { return nil, nil }
func (p *testPlatform) IsRTL(context.Context, any) (bool, error)          { return p.rtl, nil }
func (p *testPlatform) GetScale(context.Context, any) (geom.Coords, error) {
	return platform.Unscaled, nil
}

func (p *testPlatform) GetClientRects(context.Context, any) ([]geom.Rect, error) {
	return p.clientRects, nil
}

var (
	_ platform.Platform            = (*testPlatform)(nil)
	_ platform.ClientRectsProvider = (*testPlatform)(nil)
)

// compute runs ComputePosition against p and fails the test on error.
func compute(t *testing.T, p *testPlatform, placement string, mws ...*position.Middleware) position.Result {
	t.Helper()
	res, err := computeErr(p, placement, mws...)
	if err != nil {
		t.Fatalf("ComputePosition(%s) error = %v", placement, err)
	}
	return res
}

func computeErr(p platform.Platform, placement string, mws ...*position.Middleware) (position.Result, error) {
	return position.ComputePosition(context.Background(), refHandle, floatHandle, position.Options{
		Placement:  geom.MustParsePlacement(placement),
		Platform:   p,
		Middleware: mws,
	})
}
