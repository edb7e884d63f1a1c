// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about source resolution, directive runs and whole builds.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDirectiveHooks(&myDirectiveHooks{})
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Directive().OnResolve(ctx, "flit", extra, len(reqs), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Directive Hooks
// =============================================================================

// DirectiveHooks receives events from extras-require directive runs.
type DirectiveHooks interface {
	// OnResolve records a requirement source lookup. source is the option
	// name of the resolver, or "content" for the directive body.
	OnResolve(ctx context.Context, source, extra string, count int, duration time.Duration, err error)

	// OnDirective records the outcome of one directive. rendered is false
	// when the directive produced no notice.
	OnDirective(ctx context.Context, docname, extra string, rendered bool, err error)
}

// =============================================================================
// Build Hooks
// =============================================================================

// BuildHooks receives events from documentation builds.
type BuildHooks interface {
	OnBuildStart(ctx context.Context, srcDir string)
	OnBuildComplete(ctx context.Context, docs, notices int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDirectiveHooks is a no-op implementation of DirectiveHooks.
type NoopDirectiveHooks struct{}

func (NoopDirectiveHooks) OnResolve(context.Context, string, string, int, time.Duration, error) {}
func (NoopDirectiveHooks) OnDirective(context.Context, string, string, bool, error)             {}

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, string)                            {}
func (NoopBuildHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	directiveHooks DirectiveHooks = NoopDirectiveHooks{}
	buildHooks     BuildHooks     = NoopBuildHooks{}
	hooksMu        sync.RWMutex
)

// SetDirectiveHooks registers custom directive hooks.
// This should be called once at application startup before any build runs.
func SetDirectiveHooks(h DirectiveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		directiveHooks = h
	}
}

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any build runs.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// Directive returns the registered directive hooks.
func Directive() DirectiveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return directiveHooks
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	directiveHooks = NoopDirectiveHooks{}
	buildHooks = NoopBuildHooks{}
}
