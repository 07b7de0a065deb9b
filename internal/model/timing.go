package model

// Per-record annotation flags. Anomalies are annotated and passed through,
// never silently dropped or corrected.
const (
	// FlagHostCallUnavailable marks a transfer with no CPU call record in the
	// trace; call timestamps are synthesized as the DMA start (zero overhead).
	FlagHostCallUnavailable = "host_call_unavailable"

	// FlagDegenerateDuration marks a zero-duration DMA; bandwidth is null.
	FlagDegenerateDuration = "degenerate_duration"

	// FlagSuspiciousTiming marks a large HtoD/DtoH transfer with near-zero
	// duration, likely an instrumentation artifact.
	FlagSuspiciousTiming = "suspicious_timing"

	// FlagDataInconsistency marks a record that violates a store invariant:
	// a DMA starting before its host call, or a memcpy with no same-device
	// kernel on either side.
	FlagDataInconsistency = "data_inconsistency"
)

// TransferTiming joins a memory copy with its CPU-side launch call, exposing
// the true end-to-end pipeline of the transfer:
//
//	call start --> DMA start --> DMA end --> call return
//	|<- launch overhead ->|<-- transfer -->|<- sync wait ->|
type TransferTiming struct {
	Memcpy *MemcpyEvent `json:"memcpy"`

	CallStartMS float64 `json:"call_start_ms"`
	CallEndMS   float64 `json:"call_end_ms"`
	DMAStartMS  float64 `json:"dma_start_ms"`
	DMAEndMS    float64 `json:"dma_end_ms"`

	// LaunchOverheadMS is DMA start minus call start: pinning, staging,
	// scheduling. Negative values are reported as-is and flagged.
	LaunchOverheadMS float64 `json:"launch_overhead_ms"`

	// TransferMS is the time the DMA engine spent moving bytes.
	TransferMS float64 `json:"transfer_ms"`

	// SyncWaitMS is call return minus DMA end, clamped at zero; only nonzero
	// for synchronous copies.
	SyncWaitMS float64 `json:"sync_wait_ms"`

	// E2EMS is the full span the application observed:
	// max(call end, DMA end) - call start.
	E2EMS float64 `json:"e2e_ms"`

	// BandwidthGBps is bytes / transfer time in decimal GB/s. Nil when
	// TransferMS is zero.
	BandwidthGBps *float64 `json:"bandwidth_gbps,omitempty"`

	Flags []string `json:"flags,omitempty"`
}

// HasFlag reports whether the record carries the given flag.
func (t *TransferTiming) HasFlag(flag string) bool {
	return hasFlag(t.Flags, flag)
}
