package events

import (
	"context"

	"github.com/groblegark/ktrace/internal/engine"
	"github.com/groblegark/ktrace/internal/model"
)

// Event topic constants
const (
	TopicWindowAnalyzed = "ktrace.window.analyzed"
	TopicSweepCompleted = "ktrace.sweep.completed"
	TopicExportWritten  = "ktrace.export.written"
)

// WindowAnalyzed announces a finished analysis pass so downstream renderers
// can pick up the artifacts without polling.
type WindowAnalyzed struct {
	RunID        string       `json:"run_id"`
	Trace        string       `json:"trace"`
	Window       model.Window `json:"window"`
	KernelCount  int          `json:"kernel_count"`
	MemcpyCount  int          `json:"memcpy_count"`
	PairCount    int          `json:"pair_count"`
	FlaggedCount int          `json:"flagged_count"`
}

// NewWindowAnalyzed summarizes a report for publication.
func NewWindowAnalyzed(trace string, r *engine.Report) WindowAnalyzed {
	flagged := 0
	for _, p := range r.Pairs {
		if len(p.Flags) > 0 {
			flagged++
		}
	}
	for _, t := range r.Timings {
		if len(t.Flags) > 0 {
			flagged++
		}
	}
	return WindowAnalyzed{
		RunID:        r.RunID,
		Trace:        trace,
		Window:       r.Window,
		KernelCount:  len(r.Kernels),
		MemcpyCount:  len(r.Memcpys),
		PairCount:    len(r.Pairs),
		FlaggedCount: flagged,
	}
}

// SweepCompleted announces a full-trace sweep.
type SweepCompleted struct {
	Trace   string  `json:"trace"`
	Windows int     `json:"windows"`
	WidthMS float64 `json:"width_ms"`
}

// ExportWritten announces a written artifact set (local dir or S3 key).
type ExportWritten struct {
	RunID    string `json:"run_id"`
	Location string `json:"location"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
