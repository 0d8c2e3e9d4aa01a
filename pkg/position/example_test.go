package position_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/position"
	"github.com/matzehuels/floatpos/pkg/scene"
)

func ExampleComputePosition() {
	// A button with a menu that opens to its right
	plat := scene.NewStatic(&scene.Scene{
		Viewport: geom.Rect{Width: 320, Height: 240},
		Elements: map[string]scene.Element{
			"button": {Rect: geom.Rect{X: 100, Y: 100, Width: 40, Height: 20}},
			"menu":   {Rect: geom.Rect{Width: 80, Height: 30}},
		},
	})

	res, err := position.ComputePosition(context.Background(), "button", "menu", position.Options{
		Placement: geom.MustParsePlacement("right-start"),
		Platform:  plat,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s at (%g, %g), %s\n", res.Placement, res.X, res.Y, res.Strategy)
	// Output:
	// right-start at (140, 100), absolute
}

func ExampleMiddleware() {
	plat := scene.NewStatic(&scene.Scene{
		Viewport: geom.Rect{Width: 320, Height: 240},
		Elements: map[string]scene.Element{
			"ref":   {Rect: geom.Rect{X: 0, Y: 0, Width: 20, Height: 20}},
			"float": {Rect: geom.Rect{Width: 10, Height: 10}},
		},
	})

	// A custom middleware that snaps coordinates to a 4px grid
	snap := &position.Middleware{
		Name: "snap",
		Fn: func(_ context.Context, s position.State) (position.Return, error) {
			x, y := float64(int(s.X)/4*4), float64(int(s.Y)/4*4)
			ret := position.Moved(x, y)
			ret.Data = map[string]float64{"dx": x - s.X, "dy": y - s.Y}
			return ret, nil
		},
	}

	res, _ := position.ComputePosition(context.Background(), "ref", "float", position.Options{
		Middleware: []*position.Middleware{snap},
		Platform:   plat,
	})
	fmt.Printf("(%g, %g) %v\n", res.X, res.Y, res.MiddlewareData["snap"])
	// Output:
	// (4, 20) map[dx:-1 dy:0]
}
