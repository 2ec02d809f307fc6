// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about layout runs, history traversal, and
// store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the core
// packages free of observability framework imports and avoids import cycles.
//
// # Usage
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, "hierarchical", nodeCount)
//	// ... compute ...
//	observability.Layout().OnLayoutComplete(ctx, "hierarchical", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives events from layout computation.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, algorithm string, nodeCount int)
	OnLayoutComplete(ctx context.Context, algorithm string, duration time.Duration, err error)
}

// HistoryHooks receives events from history traversal.
type HistoryHooks interface {
	// OnSnapshot records a history capture with the resulting depth.
	OnSnapshot(ctx context.Context, pastDepth int)

	// OnUndo and OnRedo record traversal. applied is false for the silent
	// no-op on an empty stack.
	OnUndo(ctx context.Context, applied bool)
	OnRedo(ctx context.Context, applied bool)
}

// StoreHooks receives events from blob store operations.
type StoreHooks interface {
	OnStoreRead(ctx context.Context, key string, found bool, err error)
	OnStoreWrite(ctx context.Context, key string, size int, err error)
}

// =============================================================================
// No-op defaults
// =============================================================================

type noopLayoutHooks struct{}

func (noopLayoutHooks) OnLayoutStart(context.Context, string, int)                     {}
func (noopLayoutHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {}

type noopHistoryHooks struct{}

func (noopHistoryHooks) OnSnapshot(context.Context, int) {}
func (noopHistoryHooks) OnUndo(context.Context, bool)    {}
func (noopHistoryHooks) OnRedo(context.Context, bool)    {}

type noopStoreHooks struct{}

func (noopStoreHooks) OnStoreRead(context.Context, string, bool, error) {}
func (noopStoreHooks) OnStoreWrite(context.Context, string, int, error) {}

// =============================================================================
// Registry
// =============================================================================

var (
	mu           sync.RWMutex
	layoutHooks  LayoutHooks  = noopLayoutHooks{}
	historyHooks HistoryHooks = noopHistoryHooks{}
	storeHooks   StoreHooks   = noopStoreHooks{}
)

// SetLayoutHooks registers layout hooks. Pass nil to restore the no-op.
func SetLayoutHooks(h LayoutHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = noopLayoutHooks{}
	}
	layoutHooks = h
}

// SetHistoryHooks registers history hooks. Pass nil to restore the no-op.
func SetHistoryHooks(h HistoryHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = noopHistoryHooks{}
	}
	historyHooks = h
}

// SetStoreHooks registers store hooks. Pass nil to restore the no-op.
func SetStoreHooks(h StoreHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = noopStoreHooks{}
	}
	storeHooks = h
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	mu.RLock()
	defer mu.RUnlock()
	return layoutHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	mu.RLock()
	defer mu.RUnlock()
	return historyHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	mu.RLock()
	defer mu.RUnlock()
	return storeHooks
}
