package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
	"github.com/matzehuels/floatpos/pkg/middleware"
	"github.com/matzehuels/floatpos/pkg/position"
	"github.com/matzehuels/floatpos/pkg/scene"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// tooltipScene has a button near the top edge with a tooltip that must flip
// below it, and a menu to the right.
func tooltipScene() *scene.Scene {
	return &scene.Scene{
		Name:     "tooltip",
		Viewport: geom.Rect{Width: 320, Height: 240},
		Elements: map[string]scene.Element{
			"button": {Rect: geom.Rect{X: 140, Y: 10, Width: 40, Height: 20}},
			"tip":    {Rect: geom.Rect{Width: 120, Height: 30}},
			"menu":   {Rect: geom.Rect{Width: 80, Height: 30}},
		},
		Jobs: []scene.Job{
			{
				ID:        "tip",
				Reference: "button",
				Floating:  "tip",
				Placement: geom.MustParsePlacement("top"),
				Middleware: []scene.MiddlewareSpec{
					{Offset: &middleware.OffsetOptions{MainAxis: 6}},
					{Flip: &middleware.FlipOptions{}},
					{Shift: &scene.ShiftSpec{}},
				},
			},
			{
				ID:        "menu",
				Reference: "button",
				Floating:  "menu",
				Placement: geom.MustParsePlacement("right-start"),
			},
		},
	}
}

func TestRun(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Run(context.Background(), Options{Scene: tooltipScene()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Jobs) != 2 || res.Stats.Jobs != 2 {
		t.Fatalf("got %d jobs, want 2", len(res.Jobs))
	}
	if res.Scene != "tooltip" || res.Hash == "" {
		t.Errorf("scene = %q, hash = %q", res.Scene, res.Hash)
	}

	tests := []struct {
		id        string
		placement string
		x, y      float64
	}{
		{"tip", "bottom", 100, 36},
		{"menu", "right-start", 180, 10},
	}
	for _, tt := range tests {
		got, ok := res.Job(tt.id)
		if !ok {
			t.Errorf("job %s missing", tt.id)
			continue
		}
		if got.Placement.String() != tt.placement || got.X != tt.x || got.Y != tt.y {
			t.Errorf("job %s = %s (%v, %v), want %s (%v, %v)",
				tt.id, got.Placement, got.X, got.Y, tt.placement, tt.x, tt.y)
		}
		if got.Cached {
			t.Errorf("job %s should not come from an empty cache", tt.id)
		}
	}
	if _, ok := res.Job("nope"); ok {
		t.Error("Job should not find unknown IDs")
	}
}

func TestRunCaches(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	runner := NewRunner(c, nil, nil)

	first, err := runner.Run(ctx, Options{Scene: tooltipScene()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want 2", c.sets)
	}

	second, err := runner.Run(ctx, Options{Scene: tooltipScene()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if second.Stats.CacheHits != 2 {
		t.Errorf("cache hits = %d, want 2", second.Stats.CacheHits)
	}
	for i, j := range second.Jobs {
		if !j.Cached {
			t.Errorf("job %s should be cached", j.ID)
		}
		if j.Coords() != first.Jobs[i].Coords() || j.Placement != first.Jobs[i].Placement {
			t.Errorf("cached job %s differs: %+v vs %+v", j.ID, j.Result, first.Jobs[i].Result)
		}
	}
	if _, ok := second.Jobs[0].MiddlewareData[middleware.NameShift]; !ok {
		t.Error("cached result should keep middleware data")
	}

	refreshed, err := runner.Run(ctx, Options{Scene: tooltipScene(), Refresh: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if refreshed.Stats.CacheHits != 0 {
		t.Errorf("refresh should bypass the cache, got %d hits", refreshed.Stats.CacheHits)
	}
	if c.sets != 4 {
		t.Errorf("refresh should store results, sets = %d", c.sets)
	}
}

func TestRunCacheKeyFollowsContent(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(newMemCache(), nil, nil)

	if _, err := runner.Run(ctx, Options{Scene: tooltipScene()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	renamed := tooltipScene()
	renamed.Name = "other"
	renamed.Jobs[0].ID = "tooltip"
	res, err := runner.Run(ctx, Options{Scene: renamed})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stats.CacheHits != 2 {
		t.Errorf("renaming should keep cache entries, hits = %d", res.Stats.CacheHits)
	}

	moved := tooltipScene()
	moved.Elements["button"] = scene.Element{Rect: geom.Rect{X: 140, Y: 100, Width: 40, Height: 20}}
	res, err = runner.Run(ctx, Options{Scene: moved})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stats.CacheHits != 0 {
		t.Errorf("moving an element should miss, hits = %d", res.Stats.CacheHits)
	}
	tip, _ := res.Job("tip")
	if tip.Placement.String() != "top" || tip.Y != 64 {
		t.Errorf("tip = %s y=%v, want top y=64", tip.Placement, tip.Y)
	}

	res, err = runner.Run(ctx, Options{Scene: tooltipScene(), MaxResets: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stats.CacheHits != 0 {
		t.Errorf("changing max resets should miss, hits = %d", res.Stats.CacheHits)
	}
}

func TestRunSelectsJobs(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Run(context.Background(), Options{
		Scene: tooltipScene(),
		Jobs:  []string{"menu"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Jobs) != 1 || res.Jobs[0].ID != "menu" {
		t.Errorf("jobs = %+v, want only menu", res.Jobs)
	}
}

func TestRunAssignsIDs(t *testing.T) {
	s := tooltipScene()
	s.Jobs[1].ID = ""

	res, err := NewRunner(nil, nil, nil).Run(context.Background(), Options{Scene: s})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := uuid.Parse(res.Jobs[1].ID); err != nil {
		t.Errorf("job ID %q is not a UUID: %v", res.Jobs[1].ID, err)
	}
	if s.Jobs[1].ID != "" {
		t.Error("Run must not modify the scene")
	}
}

func TestRunConcurrent(t *testing.T) {
	s := tooltipScene()
	s.Jobs = nil
	for i := 0; i < 20; i++ {
		s.Jobs = append(s.Jobs, scene.Job{
			ID:         fmt.Sprintf("job-%02d", i),
			Reference:  "button",
			Floating:   "tip",
			Placement:  geom.Placements[i%len(geom.Placements)],
			Middleware: []scene.MiddlewareSpec{{Offset: &middleware.OffsetOptions{MainAxis: float64(i)}}},
		})
	}

	res, err := NewRunner(newMemCache(), nil, nil).Run(context.Background(), Options{Scene: s, Concurrency: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, j := range res.Jobs {
		if j.ID != s.Jobs[i].ID {
			t.Errorf("result %d is %s, want %s", i, j.ID, s.Jobs[i].ID)
		}
		if j.Placement != s.Jobs[i].Placement {
			t.Errorf("job %s placement = %s, want %s", j.ID, j.Placement, s.Jobs[i].Placement)
		}
	}
}

func TestRunErrors(t *testing.T) {
	failing := tooltipScene()
	failing.Jobs[0].Middleware = []scene.MiddlewareSpec{{
		Flip: &middleware.FlipOptions{OverflowOptions: position.OverflowOptions{Boundary: 42}},
	}}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no scene", Options{}, errors.ErrCodeInvalidInput},
		{"invalid scene", Options{Scene: &scene.Scene{Viewport: geom.Rect{Width: -1}}}, errors.ErrCodeInvalidScene},
		{"unknown job", Options{Scene: tooltipScene(), Jobs: []string{"nope"}}, errors.ErrCodeNotFound},
		{"negative resets", Options{Scene: tooltipScene(), MaxResets: -1}, errors.ErrCodeInvalidInput},
		{"platform failure", Options{Scene: failing}, errors.ErrCodePlatformQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, nil).Run(context.Background(), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Scene: tooltipScene()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.MaxResets != position.DefaultMaxResets {
		t.Errorf("MaxResets = %d, want %d", opts.MaxResets, position.DefaultMaxResets)
	}
	if opts.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", opts.Concurrency, DefaultConcurrency)
	}
	if opts.TTL != DefaultTTL || opts.Logger == nil {
		t.Errorf("TTL = %v, Logger = %v", opts.TTL, opts.Logger)
	}

	opts.Scene = nil
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op: %v", err)
	}
}

func TestHashScene(t *testing.T) {
	a, err := HashScene(tooltipScene())
	if err != nil {
		t.Fatalf("HashScene: %v", err)
	}

	renamed := tooltipScene()
	renamed.Name = "x"
	renamed.Jobs = nil
	if b, _ := HashScene(renamed); a != b {
		t.Error("name and jobs should not change the hash")
	}

	rtl := tooltipScene()
	rtl.RTL = true
	if b, _ := HashScene(rtl); a == b {
		t.Error("direction should change the hash")
	}
}
