// Package pipeline runs the positioning jobs of a scene with caching.
//
// The CLI and the HTTP API both go through a [Runner] so that they share
// validation, cache keys and concurrency limits.
//
// # Stages
//
// For every job of the scene:
//
//  1. Key: hash the scene's elements and the job's spec
//  2. Lookup: return the cached result on a hit (unless Refresh is set)
//  3. Compute: build the middleware and call position.ComputePosition
//     against a fresh scene.Static platform
//  4. Store: write the result back to the cache
//
// Jobs are independent and run concurrently, bounded by
// [Options.Concurrency]. The middleware of a single job always run in order
// on one goroutine.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Run(ctx, pipeline.Options{Scene: s})
//	for _, j := range res.Jobs {
//	    fmt.Println(j.ID, j.Placement, j.X, j.Y)
//	}
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatpos/pkg/cache"
	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/position"
	"github.com/matzehuels/floatpos/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultConcurrency is how many jobs run at once.
	DefaultConcurrency = 4

	// DefaultTTL is how long results stay cached.
	DefaultTTL = cache.DefaultTTL
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one run over a scene.
type Options struct {
	// Scene is the scene to run. Required.
	Scene *scene.Scene `json:"scene"`

	// Jobs restricts the run to the named job IDs. Empty runs every job.
	Jobs []string `json:"jobs,omitempty"`

	// MaxResets bounds resets per job. Zero uses position.DefaultMaxResets.
	MaxResets int `json:"max_resets,omitempty"`

	// Refresh skips the cache lookup. Results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Concurrency int           `json:"-"`
	TTL         time.Duration `json:"-"`
	Logger      *log.Logger   `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the scene and job filter and fills in
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Scene == nil {
		return errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
	if err := o.Scene.Validate(); err != nil {
		return err
	}
	for _, id := range o.Jobs {
		if _, ok := o.Scene.Job(id); !ok {
			return errors.New(errors.ErrCodeNotFound, "unknown job %q", id)
		}
	}
	if o.MaxResets < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_resets must not be negative")
	}
	if o.MaxResets == 0 {
		o.MaxResets = position.DefaultMaxResets
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// KeyOpts returns the options that are part of a result's cache key.
func (o *Options) KeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{MaxResets: o.MaxResets}
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of a run.
type Result struct {
	Scene string      `json:"scene,omitempty"`
	Hash  string      `json:"hash"`
	Jobs  []JobResult `json:"jobs"`
	Stats Stats       `json:"stats"`
}

// Job returns the result of the job with the given ID.
func (r *Result) Job(id string) (JobResult, bool) {
	for _, j := range r.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return JobResult{}, false
}

// JobResult is the position computed for one job.
//
// MiddlewareData of a cached result is decoded from JSON, so its entries
// are generic maps rather than the middleware's data types.
type JobResult struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Floating  string `json:"floating"`
	position.Result

	Cached   bool          `json:"cached"`
	Duration time.Duration `json:"-"`
}

// Stats summarizes a run.
type Stats struct {
	Jobs      int           `json:"jobs"`
	CacheHits int           `json:"cache_hits"`
	Duration  time.Duration `json:"duration_ns"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d jobs, %d cached, %s", s.Jobs, s.CacheHits, s.Duration.Round(time.Microsecond))
}
