// Package sqlite implements the store.Store interface over an Nsight Systems
// SQLite export (CUPTI activity tables).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/groblegark/ktrace/internal/model"
	"github.com/groblegark/ktrace/internal/store"
)

// TraceStore implements store.Store backed by a profiler-exported SQLite file.
type TraceStore struct {
	db *sql.DB

	// t0 is the raw nanosecond timestamp of trace start (earliest kernel,
	// falling back to earliest memcpy). All model timestamps are milliseconds
	// relative to it.
	t0 int64
}

// Compile-time check that TraceStore implements store.Store.
var _ store.Store = (*TraceStore)(nil)

// Open opens the trace export at path read-only and anchors the timeline to
// the earliest event. A missing or unreadable file, or an export without the
// expected activity tables, fails with store.ErrUnavailable.
func Open(ctx context.Context, path string) (*TraceStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", store.ErrUnavailable, path, err)
	}

	// The trace is finalized; a handful of readers sharing one handle is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", store.ErrUnavailable, path, err)
	}

	t0, err := queryTraceAnchor(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &TraceStore{db: db, t0: t0}, nil
}

// Close closes the underlying trace handle.
func (s *TraceStore) Close() error {
	return s.db.Close()
}

// TraceSpan returns the full extent of the trace in milliseconds.
func (s *TraceStore) TraceSpan(ctx context.Context) (model.Window, error) {
	return queryTraceSpan(ctx, s.db, s.t0)
}

// ReadKernels returns kernel events overlapping w, ordered by start time.
func (s *TraceStore) ReadKernels(ctx context.Context, w model.Window, f model.Filter) ([]*model.KernelEvent, error) {
	return queryKernels(ctx, s.db, s.t0, w, f)
}

// ReadMemcpys returns memcpy events overlapping w, ordered by start time,
// with CPU call linkage populated from the runtime activity table.
func (s *TraceStore) ReadMemcpys(ctx context.Context, w model.Window, f model.Filter) ([]*model.MemcpyEvent, error) {
	return queryMemcpys(ctx, s.db, s.t0, w, f)
}
