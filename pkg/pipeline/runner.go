package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/floatpos/pkg/cache"
	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/observability"
	"github.com/matzehuels/floatpos/pkg/position"
	"github.com/matzehuels/floatpos/pkg/scene"
)

const resultKeyType = "result"

// Runner runs scenes with caching. It holds no per-run state, so one Runner
// can serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner over c. A nil cache disables caching and a nil
// keyer uses the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Run computes every selected job of the scene. Jobs without an ID are
// given a random one. The first failing job cancels the rest.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	sceneHash, err := HashScene(opts.Scene)
	if err != nil {
		return nil, err
	}
	jobs := selectJobs(opts.Scene, opts.Jobs)
	results := make([]JobResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := r.RunJob(gctx, sceneHash, job, opts)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Scene: opts.Scene.Name, Hash: sceneHash, Jobs: results}
	out.Stats.Jobs = len(results)
	for _, res := range results {
		if res.Cached {
			out.Stats.CacheHits++
		}
	}
	out.Stats.Duration = time.Since(start)

	r.Logger.Info("positioned scene",
		"scene", opts.Scene.Name,
		"jobs", out.Stats.Jobs,
		"cached", out.Stats.CacheHits,
		"duration", out.Stats.Duration)
	return out, nil
}

// RunJob computes one job of opts.Scene, consulting the cache first.
// sceneHash is the value of [HashScene] for the scene.
func (r *Runner) RunJob(ctx context.Context, sceneHash string, job scene.Job, opts Options) (JobResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return JobResult{}, err
	}
	start := time.Now()
	logger := opts.Logger.With("job", job.ID)

	out := JobResult{ID: job.ID, Reference: job.Reference, Floating: job.Floating}

	jobHash, err := hashJob(job)
	if err != nil {
		return JobResult{}, err
	}
	key := r.Keyer.ResultKey(sceneHash, jobHash, opts.KeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			logger.Warn("cache lookup failed", "err", err)
		} else if hit {
			if err := json.Unmarshal(data, &out.Result); err == nil {
				hooks.OnCacheHit(ctx, resultKeyType)
				out.Cached = true
				out.Duration = time.Since(start)
				logger.Debug("cache hit", "placement", out.Placement)
				return out, nil
			}
			logger.Debug("discarding unreadable cache entry")
		}
		hooks.OnCacheMiss(ctx, resultKeyType)
	}

	plat := scene.NewStatic(opts.Scene)
	mws, err := job.Build(plat)
	if err != nil {
		return JobResult{}, err
	}
	res, err := position.ComputePosition(ctx, job.Reference, job.Floating, position.Options{
		Placement:  job.Placement,
		Strategy:   job.Strategy,
		Middleware: mws,
		Platform:   plat,
		Logger:     logger,
		MaxResets:  opts.MaxResets,
	})
	if err != nil {
		return JobResult{}, err
	}
	out.Result = res
	out.Duration = time.Since(start)

	if data, err := json.Marshal(res); err != nil {
		logger.Warn("result not cacheable", "err", err)
	} else if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
		logger.Warn("cache store failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, resultKeyType, len(data))
	}

	logger.Debug("positioned",
		"placement", res.Placement,
		"x", res.X,
		"y", res.Y,
		"duration", out.Duration)
	return out, nil
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// HashScene hashes the parts of s that affect positioning: the viewport,
// the document, the writing direction and the elements. Jobs and the name
// are left out.
func HashScene(s *scene.Scene) (string, error) {
	h, err := cache.HashJSON(struct {
		Viewport geom.Rect
		Document *geom.Rect
		RTL      bool
		Elements map[string]scene.Element
	}{s.Viewport, s.Document, s.RTL, s.Elements})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}
	return h, nil
}

// hashJob hashes a job's spec without its ID, so that renaming a job keeps
// its cache entry.
func hashJob(job scene.Job) (string, error) {
	job.ID = ""
	h, err := cache.HashJSON(job)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash job")
	}
	return h, nil
}

// selectJobs returns the jobs named by ids in scene order, or all jobs when
// ids is empty. Jobs without an ID get a fresh UUID.
func selectJobs(s *scene.Scene, ids []string) []scene.Job {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var jobs []scene.Job
	for _, j := range s.Jobs {
		if len(want) > 0 && !want[j.ID] {
			continue
		}
		if j.ID == "" {
			j.ID = uuid.NewString()
		}
		jobs = append(jobs, j)
	}
	return jobs
}
