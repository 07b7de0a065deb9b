// Package resolve computes end-to-end transfer timing by joining each memory
// copy with the CPU-side call that requested it.
package resolve

import (
	"github.com/groblegark/ktrace/internal/model"
)

// Options controls the per-record anomaly checks.
type Options struct {
	// SuspiciousMinBytes is the size at or above which an HtoD/DtoH transfer
	// with near-zero duration is flagged suspicious_timing.
	SuspiciousMinBytes int64

	// NearZeroMS is the duration below which a transfer counts as near-zero.
	NearZeroMS float64
}

// DefaultOptions returns the thresholds used when the caller does not
// override them: 1 MiB and 1 microsecond.
func DefaultOptions() Options {
	return Options{
		SuspiciousMinBytes: 1 << 20,
		NearZeroMS:         0.001,
	}
}

// Resolve produces one TransferTiming per memcpy, in input order. Records
// are annotated, never dropped: a copy without a traced CPU call gets
// synthesized zero-overhead call timestamps and the host_call_unavailable
// flag, and a DMA that starts before its call is reported as-is with the
// data_inconsistency flag. Timestamps are never corrected.
func Resolve(memcpys []*model.MemcpyEvent, opts Options) []*model.TransferTiming {
	timings := make([]*model.TransferTiming, 0, len(memcpys))
	for _, m := range memcpys {
		timings = append(timings, resolveOne(m, opts))
	}
	return timings
}

func resolveOne(m *model.MemcpyEvent, opts Options) *model.TransferTiming {
	t := &model.TransferTiming{
		Memcpy:     m,
		DMAStartMS: m.StartMS,
		DMAEndMS:   m.EndMS,
	}

	if m.Call != nil {
		t.CallStartMS = m.Call.StartMS
		t.CallEndMS = m.Call.EndMS
	} else {
		t.CallStartMS = m.StartMS
		t.CallEndMS = m.StartMS
		t.Flags = append(t.Flags, model.FlagHostCallUnavailable)
	}

	t.LaunchOverheadMS = t.DMAStartMS - t.CallStartMS
	t.TransferMS = t.DMAEndMS - t.DMAStartMS
	if wait := t.CallEndMS - t.DMAEndMS; wait > 0 {
		t.SyncWaitMS = wait
	}
	t.E2EMS = max(t.CallEndMS, t.DMAEndMS) - t.CallStartMS

	// The DMA cannot begin before the host issues the call; a violation is a
	// store inconsistency and is surfaced, not repaired.
	if t.LaunchOverheadMS < 0 {
		t.Flags = append(t.Flags, model.FlagDataInconsistency)
	}

	if t.TransferMS > 0 {
		bw := float64(m.Bytes) / (t.TransferMS * 1e6) // decimal GB/s
		t.BandwidthGBps = &bw
	} else {
		t.Flags = append(t.Flags, model.FlagDegenerateDuration)
	}

	hostBound := m.Direction == model.DirHtoD || m.Direction == model.DirDtoH
	if hostBound && m.Bytes >= opts.SuspiciousMinBytes && t.TransferMS < opts.NearZeroMS {
		t.Flags = append(t.Flags, model.FlagSuspiciousTiming)
	}

	return t
}
