// Package correlate pairs each memory copy with its temporally adjacent
// compute kernels on the same device.
package correlate

import (
	"sort"

	"github.com/groblegark/ktrace/internal/model"
)

// deviceIndex holds one device's kernels in the two orders the nearest
// neighbor queries need. byStart is stable-sorted by start time and byEnd by
// end time, both keeping store order on ties, so extremal-timestamp ties
// resolve to the kernel appearing earliest in the store.
type deviceIndex struct {
	byStart []*model.KernelEvent
	byEnd   []*model.KernelEvent
}

// preceding returns the kernel with the greatest end time <= t, or nil.
func (d *deviceIndex) preceding(t float64) *model.KernelEvent {
	i := sort.Search(len(d.byEnd), func(i int) bool { return d.byEnd[i].EndMS > t })
	if i == 0 {
		return nil
	}
	// Walk to the first kernel sharing the extremal end time; stable sort
	// keeps ties in store order, so the leftmost is the earliest.
	j := i - 1
	for j > 0 && d.byEnd[j-1].EndMS == d.byEnd[i-1].EndMS {
		j--
	}
	return d.byEnd[j]
}

// following returns the kernel with the smallest start time >= t, or nil.
func (d *deviceIndex) following(t float64) *model.KernelEvent {
	i := sort.Search(len(d.byStart), func(i int) bool { return d.byStart[i].StartMS >= t })
	if i == len(d.byStart) {
		return nil
	}
	return d.byStart[i]
}

// buildIndexes groups kernels by device and sorts each group. The input is
// normally already start-ascending; stable sorts make the pairing output
// independent of how the events were interleaved on arrival.
func buildIndexes(kernels []*model.KernelEvent) map[int64]*deviceIndex {
	indexes := make(map[int64]*deviceIndex)
	for _, k := range kernels {
		d, ok := indexes[k.DeviceID]
		if !ok {
			d = &deviceIndex{}
			indexes[k.DeviceID] = d
		}
		d.byStart = append(d.byStart, k)
	}
	for _, d := range indexes {
		d.byEnd = make([]*model.KernelEvent, len(d.byStart))
		copy(d.byEnd, d.byStart)
		sort.SliceStable(d.byStart, func(i, j int) bool {
			return d.byStart[i].StartMS < d.byStart[j].StartMS
		})
		sort.SliceStable(d.byEnd, func(i, j int) bool {
			return d.byEnd[i].EndMS < d.byEnd[j].EndMS
		})
	}
	return indexes
}

// Pair produces one PairRecord per memcpy: the same-device kernel with the
// greatest end time at or before the copy starts, and the same-device kernel
// with the smallest start time at or after the copy ends. Cross-device
// pairing is meaningless and excluded. Each lookup is a binary search over a
// pre-sorted per-device index, O((K+M) log K) for the whole pass.
//
// A memcpy is never dropped for lack of a neighbor; a missing side is nil,
// and a copy with no same-device kernel on either side is flagged as a data
// inconsistency for boundary visibility.
func Pair(kernels []*model.KernelEvent, memcpys []*model.MemcpyEvent) []*model.PairRecord {
	indexes := buildIndexes(kernels)

	records := make([]*model.PairRecord, 0, len(memcpys))
	for _, m := range memcpys {
		rec := &model.PairRecord{Memcpy: m}
		if d, ok := indexes[m.DeviceID]; ok {
			rec.Preceding = d.preceding(m.StartMS)
			rec.Following = d.following(m.EndMS)
		}
		if rec.Preceding != nil {
			gap := m.StartMS - rec.Preceding.EndMS
			rec.GapBeforeMS = &gap
		}
		if rec.Following != nil {
			gap := rec.Following.StartMS - m.EndMS
			rec.GapAfterMS = &gap
		}
		if rec.Preceding == nil && rec.Following == nil {
			rec.Flags = append(rec.Flags, model.FlagDataInconsistency)
		}
		records = append(records, rec)
	}
	return records
}
