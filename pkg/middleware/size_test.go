package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/floatpos/pkg/geom"
)

func sizePlatform() *testPlatform {
	p := newTestPlatform(geom.Rect{X: 75, Y: 0, Width: 50, Height: 50}, squareFloat)
	p.clip = geom.Rect{Width: 200, Height: 200}
	return p
}

func TestSizeAvailable(t *testing.T) {
	tests := []struct {
		name       string
		placement  string
		withShift  bool
		wantWidth  float64
		wantHeight float64
	}{
		{"centred", "bottom", false, 200, 150},
		{"aligned", "bottom-start", false, 125, 150},
		{"aligned after shift", "bottom-start", true, 200, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SizeState
			size := Size(SizeOptions{Apply: func(_ context.Context, s SizeState) error {
				got = s
				return nil
			}})
			if tt.withShift {
				compute(t, sizePlatform(), tt.placement, Shift(ShiftOptions{}), size)
			} else {
				compute(t, sizePlatform(), tt.placement, size)
			}
			if got.AvailableWidth != tt.wantWidth || got.AvailableHeight != tt.wantHeight {
				t.Errorf("available = %vx%v, want %vx%v", got.AvailableWidth, got.AvailableHeight, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestSizeResetsWhenResized(t *testing.T) {
	p := sizePlatform()
	calls := 0
	res := compute(t, p, "bottom", Size(SizeOptions{Apply: func(context.Context, SizeState) error {
		calls++
		p.floating.Width = 80
		return nil
	}}))
	if calls != 2 {
		t.Errorf("apply calls = %d, want 2", calls)
	}
	if res.X != 60 {
		t.Errorf("X = %v, want 60", res.X)
	}
}

func TestSizeApplyError(t *testing.T) {
	boom := errors.New("cannot resize")
	_, err := computeErr(sizePlatform(), "bottom", Size(SizeOptions{Apply: func(context.Context, SizeState) error {
		return boom
	}}))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}
