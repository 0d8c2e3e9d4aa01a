package middleware

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	fperrors "github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
)

// edgePlatform has a 200x200 viewport and a small reference at its left edge.
func edgePlatform() *testPlatform {
	p := newTestPlatform(geom.Rect{X: 0, Y: 50, Width: 20, Height: 20}, squareFloat)
	p.clip = geom.Rect{Width: 200, Height: 200}
	return p
}

func TestShiftClampsMainAxis(t *testing.T) {
	res := compute(t, edgePlatform(), "bottom", Shift(ShiftOptions{}))
	if res.X != 0 || res.Y != 70 {
		t.Errorf("coords = %+v, want (0, 70)", res.Coords())
	}

	got, _ := position.Get[ShiftData](res.MiddlewareData, NameShift)
	want := ShiftData{X: 15, Y: 0, Enabled: ShiftEnabled{X: true, Y: false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ShiftData mismatch (-want +got):\n%s", diff)
	}
}

func TestShiftPadding(t *testing.T) {
	opts := ShiftOptions{}
	opts.Padding = geom.Uniform(5)
	res := compute(t, edgePlatform(), "bottom", Shift(opts))
	if res.X != 5 {
		t.Errorf("X = %v, want 5", res.X)
	}
}

func TestShiftCrossAxis(t *testing.T) {
	p := newTestPlatform(geom.Rect{X: 75, Y: 180, Width: 50, Height: 20}, squareFloat)
	p.clip = geom.Rect{Width: 200, Height: 200}

	res := compute(t, p, "bottom", Shift(ShiftOptions{}))
	if res.Y != 200 {
		t.Errorf("main axis only: Y = %v, want 200", res.Y)
	}

	res = compute(t, p, "bottom", Shift(ShiftOptions{CrossAxis: Bool(true)}))
	if res.Y != 150 {
		t.Errorf("cross axis: Y = %v, want 150", res.Y)
	}
	got, _ := position.Get[ShiftData](res.MiddlewareData, NameShift)
	if !got.Enabled.X || !got.Enabled.Y {
		t.Errorf("Enabled = %+v, want both", got.Enabled)
	}
}

func TestShiftDisabled(t *testing.T) {
	res := compute(t, edgePlatform(), "bottom", Shift(ShiftOptions{MainAxis: Bool(false)}))
	if res.X != -15 {
		t.Errorf("X = %v, want -15", res.X)
	}
}

func TestLimitShift(t *testing.T) {
	p := newTestPlatform(geom.Rect{X: -100, Y: 50, Width: 20, Height: 20}, squareFloat)
	p.clip = geom.Rect{Width: 200, Height: 200}

	free := compute(t, p, "bottom", Shift(ShiftOptions{}))
	if free.X != 0 {
		t.Fatalf("unlimited X = %v, want 0", free.X)
	}

	limited := compute(t, p, "bottom", Shift(ShiftOptions{Limiter: LimitShift(LimitShiftOptions{})}))
	if limited.X != -80 {
		t.Errorf("limited X = %v, want -80", limited.X)
	}
	got, _ := position.Get[ShiftData](limited.MiddlewareData, NameShift)
	if got.X != 35 {
		t.Errorf("ShiftData.X = %v, want 35", got.X)
	}

	withOffset := compute(t, p, "bottom", Shift(ShiftOptions{
		Limiter: LimitShift(LimitShiftOptions{Offset: LimitShiftOffset{MainAxis: 5}}),
	}))
	if withOffset.X != -85 {
		t.Errorf("limited X with offset = %v, want -85", withOffset.X)
	}
}

func TestLimitShiftOffsetFunc(t *testing.T) {
	p := newTestPlatform(geom.Rect{X: -100, Y: 50, Width: 20, Height: 20}, squareFloat)
	p.clip = geom.Rect{Width: 200, Height: 200}
	res := compute(t, p, "bottom", Shift(ShiftOptions{
		Limiter: LimitShift(LimitShiftOptions{OffsetFunc: func(s position.State) LimitShiftOffset {
			return LimitShiftOffset{MainAxis: s.Rects.Reference.Width / 2}
		}}),
	}))
	if res.X != -90 {
		t.Errorf("X = %v, want -90", res.X)
	}
}

func TestMiddlewareOrderMatters(t *testing.T) {
	nudge := OffsetOptions{CrossAxis: -20}

	offsetFirst := compute(t, edgePlatform(), "bottom", Offset(nudge), Shift(ShiftOptions{}))
	shiftFirst := compute(t, edgePlatform(), "bottom", Shift(ShiftOptions{}), Offset(nudge))

	if offsetFirst.X != 0 {
		t.Errorf("offset then shift: X = %v, want 0", offsetFirst.X)
	}
	if shiftFirst.X != -20 {
		t.Errorf("shift then offset: X = %v, want -20", shiftFirst.X)
	}
}

func TestShiftPlatformErrorKeepsCode(t *testing.T) {
	p := edgePlatform()
	detached := errors.New("boundary detached")
	p.clipErr = detached

	_, err := computeErr(p, "bottom", Shift(ShiftOptions{}))
	if got := fperrors.GetCode(err); got != fperrors.ErrCodePlatformQuery {
		t.Errorf("GetCode() = %s, want %s", got, fperrors.ErrCodePlatformQuery)
	}
	if !errors.Is(err, detached) {
		t.Errorf("error = %v, want it to wrap %v", err, detached)
	}
}
