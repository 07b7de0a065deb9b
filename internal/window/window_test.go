package window

import (
	"errors"
	"testing"

	"github.com/groblegark/ktrace/internal/model"
)

func kernel(start, end float64) *model.KernelEvent {
	return &model.KernelEvent{TimeSpan: model.TimeSpan{StartMS: start, EndMS: end}}
}

func memcpy(start, end float64) *model.MemcpyEvent {
	return &model.MemcpyEvent{TimeSpan: model.TimeSpan{StartMS: start, EndMS: end}}
}

func TestKernels_OverlapSemantics(t *testing.T) {
	in := []*model.KernelEvent{
		kernel(0, 50),    // entirely before
		kernel(90, 110),  // straddles the lower bound
		kernel(120, 180), // inside
		kernel(190, 210), // straddles the upper bound
		kernel(300, 400), // entirely after
	}
	out, err := Kernels(model.Window{StartMS: 100, EndMS: 200}, in)
	if err != nil {
		t.Fatalf("Kernels() error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d kernels, want 3", len(out))
	}
	// Input order is preserved.
	for i, want := range []*model.KernelEvent{in[1], in[2], in[3]} {
		if out[i] != want {
			t.Errorf("out[%d] = %+v, want %+v", i, out[i].TimeSpan, want.TimeSpan)
		}
	}
}

func TestKernels_InvalidWindow(t *testing.T) {
	_, err := Kernels(model.Window{StartMS: 200, EndMS: 100}, []*model.KernelEvent{kernel(0, 1)})
	if !errors.Is(err, model.ErrInvalidWindow) {
		t.Fatalf("error = %v, want ErrInvalidWindow", err)
	}
	_, err = Kernels(model.Window{StartMS: 100, EndMS: 100}, nil)
	if !errors.Is(err, model.ErrInvalidWindow) {
		t.Fatalf("zero-width window error = %v, want ErrInvalidWindow", err)
	}
}

func TestMemcpys_BoundaryTouch(t *testing.T) {
	in := []*model.MemcpyEvent{
		memcpy(80, 100),  // ends exactly at the lower bound
		memcpy(200, 220), // starts exactly at the upper bound
		memcpy(10, 79),   // short of the bound
	}
	out, err := Memcpys(model.Window{StartMS: 100, EndMS: 200}, in)
	if err != nil {
		t.Fatalf("Memcpys() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d memcpys, want 2 (boundary-touching events included)", len(out))
	}
}

func TestMemcpys_Empty(t *testing.T) {
	out, err := Memcpys(model.Window{StartMS: 100, EndMS: 200}, nil)
	if err != nil {
		t.Fatalf("Memcpys() error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d memcpys from empty input, want 0", len(out))
	}
}
