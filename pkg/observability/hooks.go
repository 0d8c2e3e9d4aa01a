// Package observability lets a host program watch floatpos at work.
//
// Three families of events are emitted: every ComputePosition call and each
// reset inside it ([PositionHooks]), result cache lookups and writes
// ([CacheHooks]) and requests served by pkg/server ([HTTPHooks]). Each family
// defaults to a no-op; main registers real implementations (Prometheus
// counters, trace spans, extra log lines) before any work starts:
//
//	observability.SetPositionHooks(resetCounter{})
//	defer observability.Reset()
//
// Engine packages only ever read the registry:
//
//	observability.Position().OnReset(ctx, "flip", "top-start", n)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Position Hooks
// =============================================================================

// PositionHooks receives events from the positioning engine.
type PositionHooks interface {
	// OnComputeStart is called once per ComputePosition call, after validation.
	OnComputeStart(ctx context.Context, placement string, middlewareCount int)

	// OnReset is called when a middleware restarts the pipeline.
	OnReset(ctx context.Context, middleware, placement string, pass int)

	// OnComputeComplete is called when ComputePosition returns.
	OnComputeComplete(ctx context.Context, placement string, resets int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, requestID, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPositionHooks is a no-op implementation of PositionHooks.
type NoopPositionHooks struct{}

func (NoopPositionHooks) OnComputeStart(context.Context, string, int)  {}
func (NoopPositionHooks) OnReset(context.Context, string, string, int) {}
func (NoopPositionHooks) OnComputeComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string) {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	positionHooks PositionHooks = NoopPositionHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPositionHooks registers custom position hooks.
// This should be called once at application startup before any computation.
func SetPositionHooks(h PositionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		positionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Position returns the registered position hooks.
func Position() PositionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return positionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	positionHooks = NoopPositionHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
