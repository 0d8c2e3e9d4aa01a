package middleware

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
)

var (
	squareRef   = geom.Rect{Width: 100, Height: 100}
	squareFloat = geom.Dimensions{Width: 50, Height: 50}
)

func TestOffsetMainAxis(t *testing.T) {
	tests := []struct {
		placement string
		want      geom.Coords
	}{
		{"bottom", geom.Coords{X: 25, Y: 110}},
		{"top", geom.Coords{X: 25, Y: -60}},
		{"right", geom.Coords{X: 110, Y: 25}},
		{"left", geom.Coords{X: -60, Y: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.placement, func(t *testing.T) {
			p := newTestPlatform(squareRef, squareFloat)
			res := compute(t, p, tt.placement, Offset(OffsetOptions{MainAxis: 10}))
			if res.Coords() != tt.want {
				t.Errorf("coords = %+v, want %+v", res.Coords(), tt.want)
			}
		})
	}
}

func TestOffsetCrossAxis(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		opts      OffsetOptions
		rtl       bool
		want      geom.Coords
	}{
		{"cross", "bottom", OffsetOptions{CrossAxis: 5}, false, geom.Coords{X: 30, Y: 100}},
		{"cross rtl", "bottom", OffsetOptions{CrossAxis: 5}, true, geom.Coords{X: 20, Y: 100}},
		{"cross on side axis x", "right", OffsetOptions{CrossAxis: 5}, true, geom.Coords{X: 100, Y: 30}},
		{"alignment start", "bottom-start", OffsetOptions{CrossAxis: 10, AlignmentAxis: Float(5)}, false, geom.Coords{X: 5, Y: 100}},
		{"alignment end", "bottom-end", OffsetOptions{CrossAxis: 10, AlignmentAxis: Float(5)}, false, geom.Coords{X: 45, Y: 100}},
		{"alignment ignored when centred", "bottom", OffsetOptions{CrossAxis: 10, AlignmentAxis: Float(5)}, false, geom.Coords{X: 35, Y: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlatform(squareRef, squareFloat)
			p.rtl = tt.rtl
			res := compute(t, p, tt.placement, Offset(tt.opts))
			if res.Coords() != tt.want {
				t.Errorf("coords = %+v, want %+v", res.Coords(), tt.want)
			}
		})
	}
}

func TestOffsetData(t *testing.T) {
	p := newTestPlatform(squareRef, squareFloat)
	res := compute(t, p, "top", Offset(OffsetOptions{MainAxis: 8}))
	got, ok := position.Get[OffsetData](res.MiddlewareData, NameOffset)
	if !ok {
		t.Fatalf("no offset data in %v", res.MiddlewareData)
	}
	want := OffsetData{X: 0, Y: -8, Placement: geom.MustParsePlacement("top")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("OffsetData mismatch (-want +got):\n%s", diff)
	}
}

func TestOffsetFunc(t *testing.T) {
	p := newTestPlatform(squareRef, squareFloat)
	res := compute(t, p, "bottom", OffsetFunc(func(s position.State) OffsetOptions {
		return OffsetOptions{MainAxis: s.Rects.Floating.Height / 5}
	}))
	if res.Y != 110 {
		t.Errorf("Y = %v, want 110", res.Y)
	}
}
