package engine

import (
	"github.com/groblegark/ktrace/internal/model"
)

// DirectionSummary aggregates the resolved transfers of one copy direction
// within a window.
type DirectionSummary struct {
	Direction        model.Direction `json:"direction"`
	Count            int             `json:"count"`
	Bytes            int64           `json:"bytes"`
	TransferMS       float64         `json:"transfer_ms"`
	LaunchOverheadMS float64         `json:"launch_overhead_ms"`
	SyncWaitMS       float64         `json:"sync_wait_ms"`

	// MeanBandwidthGBps averages per-transfer DMA bandwidth; nil when no
	// transfer in the group had a measurable duration.
	MeanBandwidthGBps *float64 `json:"mean_bandwidth_gbps,omitempty"`
}

// summaryOrder fixes the presentation order of directions.
var summaryOrder = []model.Direction{
	model.DirHtoD, model.DirDtoH, model.DirDtoD,
	model.DirPeer, model.DirHtoH, model.DirUnknown,
}

// Summarize groups resolved transfers by direction. Negative launch overhead
// (a flagged inconsistency) is excluded from the overhead total so one bad
// record cannot sink the aggregate, matching how the per-record flag already
// carries the anomaly.
func Summarize(timings []*model.TransferTiming) []DirectionSummary {
	type acc struct {
		DirectionSummary
		bwSum float64
		bwN   int
	}
	groups := make(map[model.Direction]*acc)

	for _, t := range timings {
		dir := t.Memcpy.Direction
		g, ok := groups[dir]
		if !ok {
			g = &acc{DirectionSummary: DirectionSummary{Direction: dir}}
			groups[dir] = g
		}
		g.Count++
		g.Bytes += t.Memcpy.Bytes
		g.TransferMS += t.TransferMS
		if t.LaunchOverheadMS > 0 {
			g.LaunchOverheadMS += t.LaunchOverheadMS
		}
		g.SyncWaitMS += t.SyncWaitMS
		if t.BandwidthGBps != nil {
			g.bwSum += *t.BandwidthGBps
			g.bwN++
		}
	}

	var out []DirectionSummary
	for _, dir := range summaryOrder {
		g, ok := groups[dir]
		if !ok {
			continue
		}
		if g.bwN > 0 {
			mean := g.bwSum / float64(g.bwN)
			g.MeanBandwidthGBps = &mean
		}
		out = append(out, g.DirectionSummary)
	}
	return out
}
