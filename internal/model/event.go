package model

import (
	"fmt"
	"strings"
)

// Direction identifies which way a memory copy moves data.
type Direction string

const (
	DirUnknown Direction = "Unknown"
	DirHtoD    Direction = "HtoD"
	DirDtoH    Direction = "DtoH"
	DirHtoH    Direction = "HtoH"
	DirDtoD    Direction = "DtoD"
	DirPeer    Direction = "Peer"
)

// DirectionFromCopyKind maps a CUPTI copyKind code to a Direction.
// Unmapped codes collapse to DirUnknown rather than failing; a trace written
// by a newer profiler must not abort analysis.
func DirectionFromCopyKind(code int64) Direction {
	switch code {
	case 1:
		return DirHtoD
	case 2:
		return DirDtoH
	case 3:
		return DirHtoH
	case 4:
		return DirDtoD
	case 8:
		return DirPeer
	}
	return DirUnknown
}

// String returns the string representation of the direction.
func (d Direction) String() string {
	return string(d)
}

// IsValid checks whether the direction is a known value.
func (d Direction) IsValid() bool {
	switch d {
	case DirUnknown, DirHtoD, DirDtoH, DirHtoH, DirDtoD, DirPeer:
		return true
	}
	return false
}

// MemKind identifies the memory residence of one copy endpoint.
type MemKind string

const (
	MemUnknown  MemKind = "Unknown"
	MemPageable MemKind = "Pageable"
	MemDevice   MemKind = "Device"
	MemArray    MemKind = "Array"
	MemUnified  MemKind = "Unified"
	MemManaged  MemKind = "Managed"
)

// MemKindFromCode maps a CUPTI srcKind/dstKind code to a MemKind.
func MemKindFromCode(code int64) MemKind {
	switch code {
	case 1:
		return MemPageable
	case 2:
		return MemDevice
	case 3:
		return MemArray
	case 4:
		return MemUnified
	case 5:
		return MemManaged
	}
	return MemUnknown
}

// String returns the string representation of the memory kind.
func (k MemKind) String() string {
	return string(k)
}

// TimeSpan is the interval an event occupied on the trace timeline,
// in milliseconds relative to trace start.
type TimeSpan struct {
	StartMS float64 `json:"start_ms"`
	EndMS   float64 `json:"end_ms"`
}

// DurationMS returns EndMS - StartMS.
func (ts TimeSpan) DurationMS() float64 {
	return ts.EndMS - ts.StartMS
}

// Valid reports whether the span is well-formed (end >= start).
func (ts TimeSpan) Valid() bool {
	return ts.EndMS >= ts.StartMS
}

// LaunchDim is one grid or block dimension triple of a kernel launch.
type LaunchDim struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

// String formats the triple as "XxYxZ", e.g. "256x1x1".
func (d LaunchDim) String() string {
	return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z)
}

// KernelEvent is one GPU compute execution read from the trace.
type KernelEvent struct {
	TimeSpan
	DeviceID           int64     `json:"device_id"`
	StreamID           int64     `json:"stream_id"`
	CorrelationID      int64     `json:"correlation_id"`
	Name               string    `json:"name"` // demangled
	Grid               LaunchDim `json:"grid"`
	Block              LaunchDim `json:"block"`
	RegistersPerThread int64     `json:"registers_per_thread,omitempty"`
	SharedMemBytes     int64     `json:"shared_mem_bytes,omitempty"`
}

// ShortName strips template arguments and parameter lists from the demangled
// kernel name and keeps at most the last two namespace segments.
func (k *KernelEvent) ShortName() string {
	return ShortKernelName(k.Name)
}

// ShortKernelName shortens a demangled kernel name for display.
func ShortKernelName(demangled string) string {
	if demangled == "" {
		return "unknown"
	}
	name := demangled
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	parts := strings.Split(name, "::")
	if len(parts) > 1 {
		return strings.Join(parts[len(parts)-2:], "::")
	}
	return parts[0]
}

// CallEvent is the CPU-side runtime API record that requested a copy.
type CallEvent struct {
	TimeSpan
	CorrelationID int64  `json:"correlation_id"`
	APIName       string `json:"api_name,omitempty"`
}

// MemcpyEvent is one GPU-side DMA transfer read from the trace.
type MemcpyEvent struct {
	TimeSpan
	DeviceID      int64     `json:"device_id"`
	StreamID      int64     `json:"stream_id"`
	CorrelationID int64     `json:"correlation_id"`
	Direction     Direction `json:"direction"`
	Bytes         int64     `json:"bytes"`
	SrcKind       MemKind   `json:"src_kind"`
	DstKind       MemKind   `json:"dst_kind"`

	// Call is the originating CPU call, populated when the trace links the
	// DMA to a runtime record by correlation ID. Nil when no call was traced.
	Call *CallEvent `json:"call,omitempty"`
}

// FormatBytes renders a byte count as a human-readable size.
func FormatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GiB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(b)/(1<<10))
	}
	return fmt.Sprintf("%d B", b)
}
