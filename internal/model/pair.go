package model

// PairRecord associates a memory copy with its temporally adjacent compute
// kernels on the same device. A nil kernel means no same-device kernel exists
// on that side within the read set; that is valid output at a trace boundary,
// not an error.
type PairRecord struct {
	Memcpy *MemcpyEvent `json:"memcpy"`

	// Preceding is the same-device kernel with the greatest end time such
	// that end <= memcpy start.
	Preceding *KernelEvent `json:"preceding_kernel,omitempty"`

	// Following is the same-device kernel with the smallest start time such
	// that start >= memcpy end.
	Following *KernelEvent `json:"following_kernel,omitempty"`

	// GapBeforeMS is memcpy start minus preceding kernel end; GapAfterMS is
	// following kernel start minus memcpy end. Nil when that side has no kernel.
	GapBeforeMS *float64 `json:"gap_before_ms,omitempty"`
	GapAfterMS  *float64 `json:"gap_after_ms,omitempty"`

	Flags []string `json:"flags,omitempty"`
}

// HasFlag reports whether the record carries the given flag.
func (p *PairRecord) HasFlag(flag string) bool {
	return hasFlag(p.Flags, flag)
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
