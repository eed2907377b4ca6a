// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and carries no dependency on a specific
// backend. The filter emits events through the registered [FilterHooks];
// by default they go nowhere.
//
// # Usage
//
// Register hooks at startup:
//
//	func main() {
//	    counter := &observability.Counter{}
//	    observability.SetFilterHooks(counter)
//	    // ... run the filter
//	    log.Info("done", "blocks", counter.Blocks())
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Filter().OnBlockStart(ctx, tag, path)
//	// ... render and embed ...
//	observability.Filter().OnBlockComplete(ctx, tag, path, duration, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
)

// =============================================================================
// Filter Hooks
// =============================================================================

// FilterHooks receives events from the diagram filter.
type FilterHooks interface {
	// Block events. err is nil on success; a DIAGRAM_SYNTAX err means the
	// block was replaced with an error node.
	OnBlockStart(ctx context.Context, tag, path string)
	OnBlockComplete(ctx context.Context, tag, path string, duration time.Duration, err error)

	// OnArtifactWritten records a file left behind for the pandoc writer.
	OnArtifactWritten(ctx context.Context, path, format string, size int)

	// OnConversion records one raster conversion attempt chain.
	OnConversion(ctx context.Context, tool string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopFilterHooks is a no-op implementation of FilterHooks.
type NoopFilterHooks struct{}

func (NoopFilterHooks) OnBlockStart(context.Context, string, string)                          {}
func (NoopFilterHooks) OnBlockComplete(context.Context, string, string, time.Duration, error) {}
func (NoopFilterHooks) OnArtifactWritten(context.Context, string, string, int)                {}
func (NoopFilterHooks) OnConversion(context.Context, string, time.Duration, error)            {}

// =============================================================================
// Counter
// =============================================================================

// Counter is a FilterHooks implementation that tallies events.
// It is safe for concurrent use.
type Counter struct {
	NoopFilterHooks

	blocks      atomic.Int64
	failed      atomic.Int64
	artifacts   atomic.Int64
	bytes       atomic.Int64
	conversions atomic.Int64
}

func (c *Counter) OnBlockComplete(_ context.Context, _, _ string, _ time.Duration, err error) {
	c.blocks.Add(1)
	if dferrors.Is(err, dferrors.ErrCodeDiagramSyntax) {
		c.failed.Add(1)
	}
}

func (c *Counter) OnArtifactWritten(_ context.Context, _, _ string, size int) {
	c.artifacts.Add(1)
	c.bytes.Add(int64(size))
}

func (c *Counter) OnConversion(_ context.Context, _ string, _ time.Duration, err error) {
	if err == nil {
		c.conversions.Add(1)
	}
}

// Blocks returns the number of diagram blocks processed.
func (c *Counter) Blocks() int64 { return c.blocks.Load() }

// SyntaxErrors returns the number of blocks replaced with an error node.
func (c *Counter) SyntaxErrors() int64 { return c.failed.Load() }

// Artifacts returns the number of files written.
func (c *Counter) Artifacts() int64 { return c.artifacts.Load() }

// ArtifactBytes returns the total size of written artifacts.
func (c *Counter) ArtifactBytes() int64 { return c.bytes.Load() }

// Conversions returns the number of successful raster conversions.
func (c *Counter) Conversions() int64 { return c.conversions.Load() }

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	filterHooks FilterHooks = NoopFilterHooks{}
	hooksMu     sync.RWMutex
)

// SetFilterHooks registers custom filter hooks.
// This should be called once at startup before any document is processed.
func SetFilterHooks(h FilterHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		filterHooks = h
	}
}

// Filter returns the registered filter hooks.
func Filter() FilterHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return filterHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	filterHooks = NoopFilterHooks{}
}
