package position

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/observability"
	"github.com/matzehuels/floatpos/pkg/platform"
)

// DefaultMaxResets bounds how many times one call may restart its
// middleware scan. Resets past the bound are ignored.
const DefaultMaxResets = 50

// Options configures ComputePosition.
type Options struct {
	// Placement is the requested placement. Zero means bottom.
	Placement geom.Placement

	// Strategy is passed through to the platform. Zero means absolute.
	Strategy geom.Strategy

	// Middleware run in order. Nil entries are skipped.
	Middleware []*Middleware

	// Platform measures the elements. Required.
	Platform platform.Platform

	// Logger receives reset tracing at debug level. Nil discards.
	Logger *log.Logger

	// MaxResets overrides DefaultMaxResets when positive.
	MaxResets int
}

// Result is the outcome of ComputePosition.
type Result struct {
	X              float64        `json:"x"`
	Y              float64        `json:"y"`
	Placement      geom.Placement `json:"placement"`
	Strategy       geom.Strategy  `json:"strategy"`
	MiddlewareData Data           `json:"middleware_data"`
}

// Coords returns the result's coordinates.
func (r Result) Coords() geom.Coords {
	return geom.Coords{X: r.X, Y: r.Y}
}

// ValidateAndSetDefaults checks the options for contract violations and fills
// in defaults. It never calls the platform.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Placement.IsZero() {
		o.Placement = geom.DefaultPlacement
	}
	if err := errors.ValidatePlacement(o.Placement); err != nil {
		return err
	}
	if o.Strategy == "" {
		o.Strategy = geom.Absolute
	}
	if err := errors.ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if o.Platform == nil {
		return errors.New(errors.ErrCodeInvalidPlatform, "platform is required")
	}
	for i, m := range o.Middleware {
		if m == nil {
			continue
		}
		if m.Name == "" {
			return errors.InvalidMiddleware("middleware at index %d has no name", i)
		}
		if m.Fn == nil {
			return errors.InvalidMiddleware("middleware %q at index %d has no function", m.Name, i)
		}
	}
	if o.MaxResets <= 0 {
		o.MaxResets = DefaultMaxResets
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ComputePosition computes the coordinates of floating relative to
// reference.
//
// Every middleware observes the cumulative effect of the middleware before it
// in the same pass, so order matters. Platform failures are returned as
// PLATFORM_QUERY errors; a failing middleware aborts the call.
func ComputePosition(ctx context.Context, reference, floating any, opts Options) (res Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	hooks := observability.Position()
	hooks.OnComputeStart(ctx, opts.Placement.String(), len(opts.Middleware))
	resets := 0
	defer func() {
		hooks.OnComputeComplete(ctx, res.Placement.String(), resets, time.Since(start), err)
	}()

	p := opts.Platform
	rtl, err := p.IsRTL(ctx, floating)
	if err != nil {
		return Result{}, errors.PlatformQuery(err, "isRTL")
	}
	req := platform.ElementRectsRequest{Reference: reference, Floating: floating, Strategy: opts.Strategy}
	rects, err := p.GetElementRects(ctx, req)
	if err != nil {
		return Result{}, errors.PlatformQuery(err, "getElementRects")
	}

	coords := ComputeCoordsFromPlacement(rects, opts.Placement, rtl)
	current := opts.Placement
	data := Data{}

	for i := 0; i < len(opts.Middleware); {
		m := opts.Middleware[i]
		if m == nil {
			i++
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		state := State{
			X:                coords.X,
			Y:                coords.Y,
			InitialPlacement: opts.Placement,
			Placement:        current,
			Strategy:         opts.Strategy,
			Rects:            rects,
			MiddlewareData:   data,
			Elements:         Elements{Reference: reference, Floating: floating},
			Platform:         p,
			RTL:              rtl,
		}
		ret, err := m.Fn(ctx, state.clone())
		if err != nil {
			return Result{}, middlewareError(m.Name, err)
		}

		if ret.X != nil {
			coords.X = *ret.X
		}
		if ret.Y != nil {
			coords.Y = *ret.Y
		}
		if ret.Data != nil {
			data[m.Name] = ret.Data
		}

		if ret.Reset == nil {
			i++
			continue
		}
		if ret.Reset.Placement != nil {
			if err := errors.ValidatePlacement(*ret.Reset.Placement); err != nil {
				return Result{}, middlewareError(m.Name, err)
			}
		}
		if resets >= opts.MaxResets {
			opts.Logger.Warn("reset limit reached, ignoring reset", "middleware", m.Name, "limit", opts.MaxResets)
			i++
			continue
		}
		resets++

		keep := ret.Reset.KeepCoords
		if ret.Reset.Placement != nil {
			current = *ret.Reset.Placement
			keep = false
		}
		switch {
		case ret.Reset.Rects != nil:
			rects = *ret.Reset.Rects
			keep = false
		case ret.Reset.RefreshRects:
			rects, err = p.GetElementRects(ctx, req)
			if err != nil {
				return Result{}, errors.PlatformQuery(err, "getElementRects")
			}
			keep = false
		}
		if !keep {
			coords = ComputeCoordsFromPlacement(rects, current, rtl)
		}

		opts.Logger.Debug("reset", "middleware", m.Name, "placement", current, "pass", resets)
		hooks.OnReset(ctx, m.Name, current.String(), resets)
		i = 0
	}

	return Result{
		X:              coords.X,
		Y:              coords.Y,
		Placement:      current,
		Strategy:       opts.Strategy,
		MiddlewareData: data,
	}, nil
}

// middlewareError wraps a middleware failure, keeping the code of an error
// that already has one.
func middlewareError(name string, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeMiddlewareFailed
	}
	return errors.Wrap(code, err, "middleware %q", name)
}
