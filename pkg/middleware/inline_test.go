package middleware

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/floatpos/pkg/geom"
)

func TestGetRectsByLine(t *testing.T) {
	tests := []struct {
		name  string
		rects []geom.Rect
		want  []geom.Rect
	}{
		{
			name: "contiguous rects merge",
			rects: []geom.Rect{
				{X: 0, Y: 0, Width: 10, Height: 10},
				{X: 10, Y: 0, Width: 10, Height: 10},
				{X: 20, Y: 0, Width: 10, Height: 10},
			},
			want: []geom.Rect{{X: 0, Y: 0, Width: 30, Height: 10}},
		},
		{
			name: "non-overlapping rect starts a new line",
			rects: []geom.Rect{
				{X: 0, Y: 0, Width: 10, Height: 10},
				{X: 10, Y: 0, Width: 10, Height: 10},
				{X: 20, Y: 0, Width: 10, Height: 10},
				{X: 0, Y: 20, Width: 15, Height: 10},
			},
			want: []geom.Rect{
				{X: 0, Y: 0, Width: 30, Height: 10},
				{X: 0, Y: 20, Width: 15, Height: 10},
			},
		},
		{
			name: "touching ranges do not overlap",
			rects: []geom.Rect{
				{X: 0, Y: 0, Width: 10, Height: 10},
				{X: 0, Y: 10, Width: 10, Height: 10},
			},
			want: []geom.Rect{
				{X: 0, Y: 0, Width: 10, Height: 10},
				{X: 0, Y: 10, Width: 10, Height: 10},
			},
		},
		{
			name: "taller rect grows the line",
			rects: []geom.Rect{
				{X: 0, Y: 2, Width: 10, Height: 6},
				{X: 10, Y: 0, Width: 10, Height: 12},
				{X: 20, Y: 10, Width: 10, Height: 6},
			},
			want: []geom.Rect{{X: 0, Y: 0, Width: 30, Height: 16}},
		},
		{
			name: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetRectsByLine(tt.rects)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GetRectsByLine() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// wrappedPlatform has a link that wraps onto a second, shorter line.
func wrappedPlatform() *testPlatform {
	lines := []geom.Rect{
		{X: 0, Y: 0, Width: 50, Height: 10},
		{X: 50, Y: 0, Width: 50, Height: 10},
		{X: 0, Y: 12, Width: 30, Height: 10},
	}
	p := newTestPlatform(geom.BoundingRect(lines), squareFloat)
	p.clientRects = lines
	return p
}

func TestInline(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		opts      InlineOptions
		want      geom.Coords
	}{
		{"bottom uses last line", "bottom", InlineOptions{}, geom.Coords{X: -10, Y: 22}},
		{"top uses first line", "top", InlineOptions{}, geom.Coords{X: 25, Y: -50}},
		{"right uses widest lines", "right", InlineOptions{}, geom.Coords{X: 100, Y: -20}},
		{"pointer inside a line", "bottom", InlineOptions{X: Float(80), Y: Float(5)}, geom.Coords{X: 25, Y: 10}},
		{"pointer within padding", "bottom", InlineOptions{X: Float(10), Y: Float(23)}, geom.Coords{X: -10, Y: 22}},
		{"pointer nearest line", "bottom", InlineOptions{X: Float(10), Y: Float(40)}, geom.Coords{X: -10, Y: 22}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compute(t, wrappedPlatform(), tt.placement, Inline(tt.opts))
			if res.Coords() != tt.want {
				t.Errorf("coords = %+v, want %+v", res.Coords(), tt.want)
			}
		})
	}
}

func TestInlineSingleLine(t *testing.T) {
	p := newTestPlatform(geom.Rect{X: 0, Y: 0, Width: 100, Height: 10}, squareFloat)
	p.clientRects = []geom.Rect{{X: 0, Y: 0, Width: 100, Height: 10}}
	res := compute(t, p, "bottom", Inline(InlineOptions{}))
	if res.X != 25 || res.Y != 10 {
		t.Errorf("coords = %+v, want (25, 10)", res.Coords())
	}
}
