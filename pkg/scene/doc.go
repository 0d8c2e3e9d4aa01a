// Package scene describes pages of named boxes and the positioning jobs to
// run against them, and provides [Static], an in-memory platform over such a
// page.
//
// # Overview
//
// A scene is the offline stand-in for a rendered document. Each [Element]
// has a rect in page coordinates and may name a parent; parents that clip
// act as clipping ancestors and positioned parents act as offset parents.
// A [Job] pairs a reference with a floating element and lists the
// middleware to run, as [MiddlewareSpec] entries.
//
// Scenes are read from TOML or JSON:
//
//	name = "tooltip"
//	viewport = { x = 0, y = 0, width = 320, height = 240 }
//
//	[elements.button]
//	rect = { x = 140, y = 10, width = 40, height = 20 }
//
//	[elements.tip]
//	rect = { x = 0, y = 0, width = 120, height = 30 }
//
//	[[jobs]]
//	id = "tip"
//	reference = "button"
//	floating = "tip"
//	placement = "top"
//	middleware = [{ offset = { main_axis = 6 } }, { flip = {} }, { shift = {} }]
//
// # Running a Job
//
//	s, err := scene.Load("tooltip.toml")
//	plat := scene.NewStatic(s)
//	job, _ := s.Job("tip")
//	mws, err := job.Build(plat)
//	res, err := position.ComputePosition(ctx, job.Reference, job.Floating, position.Options{
//	    Placement:  job.Placement,
//	    Strategy:   job.Strategy,
//	    Middleware: mws,
//	    Platform:   plat,
//	})
//
// pkg/pipeline runs every job of a scene this way, with caching.
package scene
