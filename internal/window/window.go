// Package window narrows already-read event sequences to a time interval.
// It exists for callers that hold a superset in memory (e.g. a sweep reusing
// one wide read); the store reader applies the same overlap semantics when
// driving the query directly.
package window

import (
	"github.com/groblegark/ktrace/internal/model"
)

// Kernels returns the kernels whose time range intersects w, preserving input
// order. Fails with model.ErrInvalidWindow when w.StartMS >= w.EndMS.
func Kernels(w model.Window, in []*model.KernelEvent) ([]*model.KernelEvent, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	var out []*model.KernelEvent
	for _, k := range in {
		if w.Overlaps(k.TimeSpan) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Memcpys returns the memcpys whose time range intersects w, preserving input
// order. Fails with model.ErrInvalidWindow when w.StartMS >= w.EndMS.
func Memcpys(w model.Window, in []*model.MemcpyEvent) ([]*model.MemcpyEvent, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	var out []*model.MemcpyEvent
	for _, m := range in {
		if w.Overlaps(m.TimeSpan) {
			out = append(out, m)
		}
	}
	return out, nil
}
