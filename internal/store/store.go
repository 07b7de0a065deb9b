package store

import (
	"context"
	"errors"

	"github.com/groblegark/ktrace/internal/model"
)

// ErrUnavailable indicates the trace store is missing, corrupt, or otherwise
// cannot be read. It is fatal to the invocation.
var ErrUnavailable = errors.New("trace store unavailable")

// Store is a read-only accessor over a finalized profiler trace. A trace is
// never mutated after export, so concurrent reads of overlapping windows are
// safe on one handle.
type Store interface {
	// TraceSpan returns the full extent of the trace, in milliseconds
	// relative to trace start.
	TraceSpan(ctx context.Context) (model.Window, error)

	// ReadKernels returns kernel events whose time range intersects w,
	// ordered by start time ascending (ties in store order). An empty window
	// yields an empty slice, not an error.
	ReadKernels(ctx context.Context, w model.Window, f model.Filter) ([]*model.KernelEvent, error)

	// ReadMemcpys returns memory-copy events whose time range intersects w,
	// ordered by start time ascending, with CPU call linkage populated where
	// the trace provides it.
	ReadMemcpys(ctx context.Context, w model.Window, f model.Filter) ([]*model.MemcpyEvent, error)

	// Close releases the underlying trace handle.
	Close() error
}
