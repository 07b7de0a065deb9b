package correlate

import (
	"math/rand"
	"testing"

	"github.com/groblegark/ktrace/internal/model"
)

func kernel(name string, device int64, start, end float64) *model.KernelEvent {
	return &model.KernelEvent{
		TimeSpan: model.TimeSpan{StartMS: start, EndMS: end},
		DeviceID: device,
		Name:     name,
	}
}

func memcpy(device int64, start, end float64) *model.MemcpyEvent {
	return &model.MemcpyEvent{
		TimeSpan: model.TimeSpan{StartMS: start, EndMS: end},
		DeviceID: device,
	}
}

func TestPair_AdjacentKernels(t *testing.T) {
	k1 := kernel("k1", 0, 0, 10)
	k2 := kernel("k2", 0, 20, 30)
	m := memcpy(0, 10, 20)

	recs := Pair([]*model.KernelEvent{k1, k2}, []*model.MemcpyEvent{m})
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.Preceding != k1 {
		t.Errorf("preceding = %v, want k1", r.Preceding)
	}
	if r.Following != k2 {
		t.Errorf("following = %v, want k2", r.Following)
	}
	if r.GapBeforeMS == nil || *r.GapBeforeMS != 0 {
		t.Errorf("gap before = %v, want 0", r.GapBeforeMS)
	}
	if r.GapAfterMS == nil || *r.GapAfterMS != 0 {
		t.Errorf("gap after = %v, want 0", r.GapAfterMS)
	}
	if len(r.Flags) != 0 {
		t.Errorf("unexpected flags %v", r.Flags)
	}
}

func TestPair_Gaps(t *testing.T) {
	k1 := kernel("k1", 0, 0, 8)
	k2 := kernel("k2", 0, 25, 30)
	m := memcpy(0, 10, 20)

	r := Pair([]*model.KernelEvent{k1, k2}, []*model.MemcpyEvent{m})[0]
	if r.GapBeforeMS == nil || *r.GapBeforeMS != 2 {
		t.Errorf("gap before = %v, want 2", r.GapBeforeMS)
	}
	if r.GapAfterMS == nil || *r.GapAfterMS != 5 {
		t.Errorf("gap after = %v, want 5", r.GapAfterMS)
	}
}

// A memcpy overlapping every kernel on its device has no kernel that ends at
// or before it starts, and none that starts at or after it ends. Both sides
// are nil and the record carries the inconsistency flag.
func TestPair_OverlappingEverything(t *testing.T) {
	k1 := kernel("k1", 0, 0, 10)
	m := memcpy(0, 5, 8)

	r := Pair([]*model.KernelEvent{k1}, []*model.MemcpyEvent{m})[0]
	if r.Preceding != nil || r.Following != nil {
		t.Errorf("preceding=%v following=%v, want both nil", r.Preceding, r.Following)
	}
	if !r.HasFlag(model.FlagDataInconsistency) {
		t.Errorf("flags = %v, want %s", r.Flags, model.FlagDataInconsistency)
	}
}

func TestPair_TraceBoundary(t *testing.T) {
	k := kernel("k", 0, 20, 30)
	first := memcpy(0, 0, 10)  // nothing before
	last := memcpy(0, 40, 50)  // nothing after

	recs := Pair([]*model.KernelEvent{k}, []*model.MemcpyEvent{first, last})

	if recs[0].Preceding != nil {
		t.Error("first memcpy should have no preceding kernel")
	}
	if recs[0].Following != k {
		t.Error("first memcpy should be followed by k")
	}
	if recs[0].GapBeforeMS != nil {
		t.Error("gap before should be nil when no kernel precedes")
	}
	if recs[0].HasFlag(model.FlagDataInconsistency) {
		t.Error("a one-sided boundary record is valid, not inconsistent")
	}

	if recs[1].Preceding != k {
		t.Error("last memcpy should be preceded by k")
	}
	if recs[1].Following != nil {
		t.Error("last memcpy should have no following kernel")
	}
}

func TestPair_ExactBoundaryCounts(t *testing.T) {
	// end == memcpy start and start == memcpy end both qualify.
	k1 := kernel("k1", 0, 0, 10)
	k2 := kernel("k2", 0, 20, 30)
	m := memcpy(0, 10, 20)

	r := Pair([]*model.KernelEvent{k1, k2}, []*model.MemcpyEvent{m})[0]
	if r.Preceding != k1 || r.Following != k2 {
		t.Fatalf("boundary-adjacent kernels not paired: prev=%v next=%v", r.Preceding, r.Following)
	}
}

func TestPair_CrossDeviceExcluded(t *testing.T) {
	k0 := kernel("dev0", 0, 0, 10)
	k1 := kernel("dev1", 1, 0, 10)
	m := memcpy(1, 15, 20)

	r := Pair([]*model.KernelEvent{k0, k1}, []*model.MemcpyEvent{m})[0]
	if r.Preceding != k1 {
		t.Errorf("preceding = %v, want the device-1 kernel", r.Preceding)
	}
	if r.Following != nil {
		t.Errorf("following = %v, want nil", r.Following)
	}
}

func TestPair_NoSameDeviceKernels(t *testing.T) {
	k := kernel("dev0", 0, 0, 10)
	m := memcpy(3, 15, 20)

	r := Pair([]*model.KernelEvent{k}, []*model.MemcpyEvent{m})[0]
	if r.Preceding != nil || r.Following != nil {
		t.Error("cross-device kernels must never pair")
	}
	if !r.HasFlag(model.FlagDataInconsistency) {
		t.Errorf("flags = %v, want %s", r.Flags, model.FlagDataInconsistency)
	}
}

// When several kernels share the extremal timestamp, the one appearing
// earliest in the input wins, on both sides.
func TestPair_TieBreakStoreOrder(t *testing.T) {
	a := kernel("a", 0, 0, 10)
	b := kernel("b", 0, 5, 10) // same end as a
	c := kernel("c", 0, 30, 40)
	d := kernel("d", 0, 30, 35) // same start as c
	m := memcpy(0, 15, 20)

	r := Pair([]*model.KernelEvent{a, b, c, d}, []*model.MemcpyEvent{m})[0]
	if r.Preceding != a {
		t.Errorf("preceding = %q, want %q (earliest in input among equal ends)", r.Preceding.Name, "a")
	}
	if r.Following != c {
		t.Errorf("following = %q, want %q (earliest in input among equal starts)", r.Following.Name, "c")
	}
}

// Pairing output must not depend on how events were interleaved on arrival.
func TestPair_OrderIndependence(t *testing.T) {
	kernels := []*model.KernelEvent{
		kernel("a", 0, 0, 10),
		kernel("b", 0, 12, 18),
		kernel("c", 0, 25, 40),
		kernel("d", 1, 5, 15),
		kernel("e", 1, 30, 50),
	}
	memcpys := []*model.MemcpyEvent{
		memcpy(0, 10, 12),
		memcpy(0, 18, 25),
		memcpy(1, 16, 28),
	}

	want := Pair(kernels, memcpys)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]*model.KernelEvent(nil), kernels...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Pair(shuffled, memcpys)
		for i := range want {
			if got[i].Preceding != want[i].Preceding || got[i].Following != want[i].Following {
				t.Fatalf("trial %d record %d: pairing depends on kernel arrival order", trial, i)
			}
		}
	}
}

func TestPair_NoKernelsAtAll(t *testing.T) {
	m := memcpy(0, 10, 20)
	recs := Pair(nil, []*model.MemcpyEvent{m})
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1 (memcpys are never dropped)", len(recs))
	}
	if !recs[0].HasFlag(model.FlagDataInconsistency) {
		t.Error("kernel-free trace should flag every pair record")
	}
}

func TestPair_EmptyMemcpys(t *testing.T) {
	recs := Pair([]*model.KernelEvent{kernel("k", 0, 0, 10)}, nil)
	if len(recs) != 0 {
		t.Fatalf("got %d records, want 0", len(recs))
	}
}

func TestPair_ManyKernelsBinarySearch(t *testing.T) {
	var kernels []*model.KernelEvent
	for i := 0; i < 1000; i++ {
		s := float64(i * 10)
		kernels = append(kernels, kernel("k", 0, s, s+5))
	}
	// Sits between kernel 499 ([4990,4995]) and kernel 500 ([5000,5005]).
	m := memcpy(0, 4996, 4999)

	r := Pair(kernels, []*model.MemcpyEvent{m})[0]
	if r.Preceding != kernels[499] {
		t.Errorf("preceding = %+v, want kernels[499]", r.Preceding.TimeSpan)
	}
	if r.Following != kernels[500] {
		t.Errorf("following = %+v, want kernels[500]", r.Following.TimeSpan)
	}
}
