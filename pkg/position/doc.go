// Package position is the positioning engine: it computes where a floating
// element should be drawn relative to a reference element.
//
// # Architecture
//
// A call to [ComputePosition] runs three stages:
//
//  1. Measure: ask the [platform.Platform] for the reference and floating rects
//  2. Place: derive initial coordinates with [ComputeCoordsFromPlacement]
//  3. Adjust: thread a [State] through an ordered list of [Middleware]
//
// Middleware are plain tagged records ({Name, Fn}). Each returns a [Return]
// delta that the orchestrator applies: new coordinates, data stored under
// the middleware's name, and optionally a [Reset] that switches placement or
// rects, recomputes the coordinates and restarts the scan from the first
// middleware. Data collected before a reset survives it, which is how flip
// and autoPlacement remember which placements they already tried.
//
// # Usage
//
//	res, err := position.ComputePosition(ctx, ref, float, position.Options{
//	    Placement: geom.MustParsePlacement("bottom-start"),
//	    Platform:  plat,
//	    Middleware: []*position.Middleware{
//	        middleware.Offset(middleware.OffsetOptions{MainAxis: 8}),
//	        middleware.Flip(middleware.FlipOptions{}),
//	        middleware.Shift(middleware.ShiftOptions{Padding: geom.Uniform(4)}),
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.X, res.Y, res.Placement)
//
// # Overflow
//
// [DetectOverflow] measures how far an element extends past its clipping
// boundary on each side. It is the building block of every middleware that
// reacts to the viewport.
//
// # Concurrency
//
// A call owns all of its state; independent calls may run concurrently. The
// engine has no internal timeout and honours only context cancellation
// between middleware steps.
package position
