package model

// Filter narrows which events feed an analysis.
//
// Device applies at the store read, restricting both kernel and memcpy
// listings to one device. MinBytes applies only to the pair/timing stage;
// raw memcpy listings always include small copies (sync signals and the
// like) so the full timeline stays visible.
type Filter struct {
	Device   *int64 `json:"device,omitempty"`
	MinBytes int64  `json:"min_bytes,omitempty"`
}

// MatchMemcpy reports whether a memcpy passes the MinBytes threshold.
func (f Filter) MatchMemcpy(m *MemcpyEvent) bool {
	return m.Bytes >= f.MinBytes
}
