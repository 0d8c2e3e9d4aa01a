// Package pkg provides the libraries behind floatpos, a positioning engine
// for floating elements such as tooltips, popovers and dropdown menus.
//
// # Overview
//
// Given a reference element and a floating element, floatpos computes the
// floating element's coordinates for a requested placement and then lets a
// chain of middleware adjust them: push it away from the reference, flip it
// to the other side, slide it back into view, shrink it, hide it or aim an
// arrow at the reference. The pkg directory is organized into four areas:
//
//  1. [geom], [platform] - Geometry types and the platform abstraction
//  2. [position], [middleware] - The positioning engine and its middleware
//  3. [scene] - Scene files and an in-memory platform over them
//  4. [pipeline], [cache], [server] - Batch runs, result caching, HTTP API
//
// # Architecture
//
// The data flow of one positioning job:
//
//	Scene file (TOML/JSON)
//	         ↓
//	    [scene] package (elements, jobs, Static platform)
//	         ↓
//	    [position] package (initial coords → middleware loop → result)
//	         ↓
//	    [pipeline] package (cache lookup, concurrent jobs)
//	         ↓
//	    CLI table/JSON, terminal preview, or HTTP response
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/floatpos/pkg/middleware"
//	    "github.com/matzehuels/floatpos/pkg/position"
//	)
//
//	res, err := position.ComputePosition(ctx, button, tooltip, position.Options{
//	    Placement: geom.MustParsePlacement("top"),
//	    Platform:  plat,
//	    Middleware: []*position.Middleware{
//	        middleware.Offset(middleware.OffsetOptions{MainAxis: 8}),
//	        middleware.Flip(middleware.FlipOptions{}),
//	        middleware.Shift(middleware.ShiftOptions{}),
//	    },
//	})
//
// Any type implementing [platform.Platform] can be positioned against; the
// [scene] package ships one backed by a page of named boxes.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/geom
// [platform]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/platform
// [platform.Platform]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/platform#Platform
// [position]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/position
// [middleware]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/middleware
// [scene]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/scene
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/floatpos/pkg/server
package pkg
