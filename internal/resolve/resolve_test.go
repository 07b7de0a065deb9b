package resolve

import (
	"math"
	"testing"

	"github.com/groblegark/ktrace/internal/model"
)

func memcpyWithCall(dir model.Direction, bytes int64, callStart, callEnd, dmaStart, dmaEnd float64) *model.MemcpyEvent {
	return &model.MemcpyEvent{
		TimeSpan:  model.TimeSpan{StartMS: dmaStart, EndMS: dmaEnd},
		Direction: dir,
		Bytes:     bytes,
		Call: &model.CallEvent{
			TimeSpan: model.TimeSpan{StartMS: callStart, EndMS: callEnd},
		},
	}
}

// 24 MiB HtoD copy: call at 100.0, DMA 100.4-102.1, call returns at 102.3.
func TestResolve_FullPipeline(t *testing.T) {
	m := memcpyWithCall(model.DirHtoD, 25165824, 100.0, 102.3, 100.4, 102.1)

	timings := Resolve([]*model.MemcpyEvent{m}, DefaultOptions())
	if len(timings) != 1 {
		t.Fatalf("got %d timings, want 1", len(timings))
	}
	tt := timings[0]

	const eps = 1e-9
	if math.Abs(tt.LaunchOverheadMS-0.4) > eps {
		t.Errorf("launch overhead = %g, want 0.4", tt.LaunchOverheadMS)
	}
	if math.Abs(tt.TransferMS-1.7) > eps {
		t.Errorf("transfer = %g, want 1.7", tt.TransferMS)
	}
	if math.Abs(tt.SyncWaitMS-0.2) > eps {
		t.Errorf("sync wait = %g, want 0.2", tt.SyncWaitMS)
	}
	if math.Abs(tt.E2EMS-2.3) > eps {
		t.Errorf("e2e = %g, want 2.3", tt.E2EMS)
	}
	if tt.BandwidthGBps == nil {
		t.Fatal("bandwidth should be measurable")
	}
	// 25,165,824 bytes over 1.7 ms is about 14.8 decimal GB/s.
	if math.Abs(*tt.BandwidthGBps-14.8) > 0.05 {
		t.Errorf("bandwidth = %g GB/s, want ~14.8", *tt.BandwidthGBps)
	}
	if len(tt.Flags) != 0 {
		t.Errorf("clean record carries flags %v", tt.Flags)
	}
}

func TestResolve_AsyncCopyNoSyncWait(t *testing.T) {
	// Call returns before the DMA finishes; sync wait clamps at zero.
	m := memcpyWithCall(model.DirHtoD, 1<<20, 100.0, 100.1, 100.2, 101.0)

	tt := Resolve([]*model.MemcpyEvent{m}, DefaultOptions())[0]
	if tt.SyncWaitMS != 0 {
		t.Errorf("sync wait = %g, want 0 for async copy", tt.SyncWaitMS)
	}
	// E2E extends to the DMA end.
	if math.Abs(tt.E2EMS-1.0) > 1e-9 {
		t.Errorf("e2e = %g, want 1.0", tt.E2EMS)
	}
}

func TestResolve_HostCallUnavailable(t *testing.T) {
	m := &model.MemcpyEvent{
		TimeSpan:  model.TimeSpan{StartMS: 50.0, EndMS: 51.0},
		Direction: model.DirDtoH,
		Bytes:     4096,
	}

	tt := Resolve([]*model.MemcpyEvent{m}, DefaultOptions())[0]
	if !tt.HasFlag(model.FlagHostCallUnavailable) {
		t.Errorf("flags = %v, want %s", tt.Flags, model.FlagHostCallUnavailable)
	}
	if tt.CallStartMS != 50.0 || tt.CallEndMS != 50.0 {
		t.Errorf("synthesized call = [%g, %g], want [50, 50]", tt.CallStartMS, tt.CallEndMS)
	}
	if tt.LaunchOverheadMS != 0 {
		t.Errorf("launch overhead = %g, want 0 when synthesized", tt.LaunchOverheadMS)
	}
	if math.Abs(tt.E2EMS-1.0) > 1e-9 {
		t.Errorf("e2e = %g, want 1.0 (DMA span)", tt.E2EMS)
	}
	if tt.HasFlag(model.FlagDataInconsistency) {
		t.Error("synthesized zero overhead must not read as inconsistency")
	}
}

func TestResolve_DegenerateDuration(t *testing.T) {
	m := memcpyWithCall(model.DirHtoD, 64, 10.0, 10.1, 10.05, 10.05)

	tt := Resolve([]*model.MemcpyEvent{m}, DefaultOptions())[0]
	if !tt.HasFlag(model.FlagDegenerateDuration) {
		t.Errorf("flags = %v, want %s", tt.Flags, model.FlagDegenerateDuration)
	}
	if tt.BandwidthGBps != nil {
		t.Errorf("bandwidth = %v, want nil for zero duration", *tt.BandwidthGBps)
	}
}

func TestResolve_NegativeOverheadFlagged(t *testing.T) {
	// DMA starts before the host call: reported as-is, flagged, never corrected.
	m := memcpyWithCall(model.DirHtoD, 1024, 100.5, 101.0, 100.0, 100.4)

	tt := Resolve([]*model.MemcpyEvent{m}, DefaultOptions())[0]
	if !tt.HasFlag(model.FlagDataInconsistency) {
		t.Errorf("flags = %v, want %s", tt.Flags, model.FlagDataInconsistency)
	}
	if math.Abs(tt.LaunchOverheadMS-(-0.5)) > 1e-9 {
		t.Errorf("launch overhead = %g, want -0.5 passed through", tt.LaunchOverheadMS)
	}
}

func TestResolve_SuspiciousTiming(t *testing.T) {
	opts := DefaultOptions()

	// Large HtoD with near-zero duration.
	big := memcpyWithCall(model.DirHtoD, 2<<20, 10.0, 10.1, 10.05, 10.0505)
	tt := Resolve([]*model.MemcpyEvent{big}, opts)[0]
	if !tt.HasFlag(model.FlagSuspiciousTiming) {
		t.Errorf("flags = %v, want %s", tt.Flags, model.FlagSuspiciousTiming)
	}
	// Bandwidth is still reported; the flag is an annotation, not a filter.
	if tt.BandwidthGBps == nil {
		t.Error("bandwidth should still be computed for suspicious records")
	}

	// Same shape but small: below the size threshold.
	small := memcpyWithCall(model.DirHtoD, 512, 10.0, 10.1, 10.05, 10.0505)
	if Resolve([]*model.MemcpyEvent{small}, opts)[0].HasFlag(model.FlagSuspiciousTiming) {
		t.Error("small copies should not be flagged suspicious")
	}

	// Device-to-device copies are legitimately fast; never suspicious.
	dtod := memcpyWithCall(model.DirDtoD, 2<<20, 10.0, 10.1, 10.05, 10.0505)
	if Resolve([]*model.MemcpyEvent{dtod}, opts)[0].HasFlag(model.FlagSuspiciousTiming) {
		t.Error("DtoD copies should not be flagged suspicious")
	}

	// Large HtoD with a plausible duration.
	slow := memcpyWithCall(model.DirHtoD, 2<<20, 10.0, 11.0, 10.1, 10.9)
	if Resolve([]*model.MemcpyEvent{slow}, opts)[0].HasFlag(model.FlagSuspiciousTiming) {
		t.Error("plausible transfer durations should not be flagged suspicious")
	}
}

func TestResolve_CustomThresholds(t *testing.T) {
	opts := Options{SuspiciousMinBytes: 100, NearZeroMS: 1.0}
	m := memcpyWithCall(model.DirDtoH, 200, 0, 1, 0.1, 0.6) // 0.5 ms < 1.0 ms

	tt := Resolve([]*model.MemcpyEvent{m}, opts)[0]
	if !tt.HasFlag(model.FlagSuspiciousTiming) {
		t.Errorf("flags = %v, want %s under custom thresholds", tt.Flags, model.FlagSuspiciousTiming)
	}
}

func TestResolve_PreservesInputOrder(t *testing.T) {
	in := []*model.MemcpyEvent{
		memcpyWithCall(model.DirHtoD, 1, 0, 1, 0, 1),
		memcpyWithCall(model.DirDtoH, 2, 2, 3, 2, 3),
		memcpyWithCall(model.DirDtoD, 3, 4, 5, 4, 5),
	}
	out := Resolve(in, DefaultOptions())
	if len(out) != len(in) {
		t.Fatalf("got %d timings, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Memcpy != in[i] {
			t.Errorf("timing %d does not reference input memcpy %d", i, i)
		}
	}
}
