// Package engine runs the full analysis pass for one or more trace windows:
// read, filter, correlate, resolve.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/groblegark/ktrace/internal/correlate"
	"github.com/groblegark/ktrace/internal/idgen"
	"github.com/groblegark/ktrace/internal/model"
	"github.com/groblegark/ktrace/internal/resolve"
	"github.com/groblegark/ktrace/internal/store"
	"github.com/groblegark/ktrace/internal/window"
)

// Params configures one analysis pass.
type Params struct {
	Window  model.Window
	Filter  model.Filter
	Resolve resolve.Options
}

// Report is the complete analysis of one window. Kernels and Memcpys are the
// raw listings; Pairs and Timings are index-aligned views over the memcpys
// that pass the MinBytes filter. All slices are read-only projections of the
// trace and safe to share once built.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Window model.Window `json:"window"`
	Filter model.Filter `json:"filter"`

	Kernels []*model.KernelEvent    `json:"kernels"`
	Memcpys []*model.MemcpyEvent    `json:"memcpys"`
	Pairs   []*model.PairRecord     `json:"pairs"`
	Timings []*model.TransferTiming `json:"timings"`
}

// Empty reports whether no events intersected the window.
func (r *Report) Empty() bool {
	return len(r.Kernels) == 0 && len(r.Memcpys) == 0
}

// Analyze runs one read-only, single-pass analysis of the window. Structural
// errors (bad window, unreadable store) abort immediately; per-record
// anomalies come back flagged inside the report.
func Analyze(ctx context.Context, s store.Store, p Params) (*Report, error) {
	if err := p.Window.Validate(); err != nil {
		return nil, err
	}

	kernels, err := s.ReadKernels(ctx, p.Window, p.Filter)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", p.Window, err)
	}
	memcpys, err := s.ReadMemcpys(ctx, p.Window, p.Filter)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", p.Window, err)
	}

	return buildReport(p, kernels, memcpys)
}

// buildReport runs the pair/timing stages over already-windowed events and
// stamps the result with a fresh run ID.
func buildReport(p Params, kernels []*model.KernelEvent, memcpys []*model.MemcpyEvent) (*Report, error) {
	if p.Resolve == (resolve.Options{}) {
		p.Resolve = resolve.DefaultOptions()
	}

	// MinBytes narrows only the pair/timing stage; the raw memcpy listing
	// keeps sync-signal copies visible on the timeline.
	paired := memcpys
	if p.Filter.MinBytes > 0 {
		paired = make([]*model.MemcpyEvent, 0, len(memcpys))
		for _, m := range memcpys {
			if p.Filter.MatchMemcpy(m) {
				paired = append(paired, m)
			}
		}
	}

	runID, err := idgen.Generate()
	if err != nil {
		return nil, err
	}

	return &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Window:      p.Window,
		Filter:      p.Filter,
		Kernels:     kernels,
		Memcpys:     memcpys,
		Pairs:       correlate.Pair(kernels, paired),
		Timings:     resolve.Resolve(paired, p.Resolve),
	}, nil
}

// Sweep partitions the whole trace into fixed-width windows and analyzes them
// across a pool of workers. The trace is read once over its full span; each
// worker narrows the shared event slices to its window in memory, so a sweep
// costs two queries regardless of window count. Window boundaries come from
// an integer counter (start + i*width) so they do not accumulate float error
// across a long trace. Reports come back in window order.
func Sweep(ctx context.Context, s store.Store, p Params, widthMS float64, workers int) ([]*Report, error) {
	if widthMS <= 0 {
		return nil, fmt.Errorf("sweep: window width must be positive, got %g", widthMS)
	}
	if workers < 1 {
		workers = 1
	}

	span, err := s.TraceSpan(ctx)
	if err != nil {
		return nil, err
	}
	kernels, err := s.ReadKernels(ctx, span, p.Filter)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", span, err)
	}
	memcpys, err := s.ReadMemcpys(ctx, span, p.Filter)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", span, err)
	}

	var windows []model.Window
	for i := 0; ; i++ {
		lo := span.StartMS + float64(i)*widthMS
		if lo >= span.EndMS {
			break
		}
		hi := min(lo+widthMS, span.EndMS)
		windows = append(windows, model.Window{StartMS: lo, EndMS: hi})
	}

	reports := make([]*Report, len(windows))
	errs := make([]error, len(windows))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				wp := p
				wp.Window = windows[i]
				reports[i], errs[i] = analyzeWindow(wp, kernels, memcpys)
			}
		}()
	}
	for i := range windows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// analyzeWindow narrows the shared span-wide slices to one window and builds
// its report. The narrowing applies the same overlap semantics the store
// queries use, so a sweep window sees exactly what Analyze would have read.
func analyzeWindow(p Params, kernels []*model.KernelEvent, memcpys []*model.MemcpyEvent) (*Report, error) {
	wk, err := window.Kernels(p.Window, kernels)
	if err != nil {
		return nil, err
	}
	wm, err := window.Memcpys(p.Window, memcpys)
	if err != nil {
		return nil, err
	}
	return buildReport(p, wk, wm)
}
