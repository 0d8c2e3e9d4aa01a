package position

import (
	"context"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/platform"
)

// fakePlatform serves fixed rects and a single clipping rect.
type fakePlatform struct {
	rects        geom.ElementRects
	clip         geom.Rect
	rtl          bool
	offsetParent any
	scale        geom.Coords

	rectsErr   error
	clipErr    error
	rectsCalls int
	lastClip   platform.ClippingRectRequest
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		rects: geom.ElementRects{
			Reference: geom.Rect{X: 0, Y: 0, Width: 100, Height: 100},
			Floating:  geom.Rect{X: 0, Y: 0, Width: 50, Height: 50},
		},
		clip:  geom.Rect{X: 0, Y: 0, Width: 1000, Height: 1000},
		scale: platform.Unscaled,
	}
}

func (f *fakePlatform) GetElementRects(_ context.Context, req platform.ElementRectsRequest) (geom.ElementRects, error) {
	f.rectsCalls++
	if f.rectsErr != nil {
		return geom.ElementRects{}, f.rectsErr
	}
	return f.rects, nil
}

func (f *fakePlatform) GetClippingRect(_ context.Context, req platform.ClippingRectRequest) (geom.Rect, error) {
	f.lastClip = req
	if f.clipErr != nil {
		return geom.Rect{}, f.clipErr
	}
	return f.clip, nil
}

func (f *fakePlatform) GetDimensions(_ context.Context, element any) (geom.Dimensions, error) {
	return f.rects.Floating.Dimensions(), nil
}

func (f *fakePlatform) GetOffsetParent(context.Context, any) (any, error) {
	return f.offsetParent, nil
}

func (f *fakePlatform) IsRTL(context.Context, any) (bool, error) {
	return f.rtl, nil
}

func (f *fakePlatform) GetScale(context.Context, any) (geom.Coords, error) {
	return f.scale, nil
}

var _ platform.Platform = (*fakePlatform)(nil)
