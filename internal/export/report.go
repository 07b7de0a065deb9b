// Package export serializes analysis reports into flat artifacts (CSV tables,
// JSONL dumps) and delivers them to a destination.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/groblegark/ktrace/internal/engine"
)

// Destination receives named artifacts. Implementations write to a local
// directory or an object store.
type Destination interface {
	Write(ctx context.Context, name string, data []byte) error
}

// WindowTag names one window's artifacts, e.g. "2260-2400ms".
func WindowTag(r *engine.Report) string {
	return fmt.Sprintf("%d-%dms", int(r.Window.StartMS), int(r.Window.EndMS))
}

// WriteReport renders the three aligned tables for one window and delivers
// them to d: kernels_<tag>.csv, memcpys_<tag>.csv, pairs_<tag>.csv.
func WriteReport(ctx context.Context, r *engine.Report, d Destination) error {
	tag := WindowTag(r)

	kernels, err := KernelsCSV(r.Kernels)
	if err != nil {
		return fmt.Errorf("render kernels: %w", err)
	}
	memcpys, err := MemcpysCSV(r.Memcpys)
	if err != nil {
		return fmt.Errorf("render memcpys: %w", err)
	}
	pairs, err := PairsCSV(r.Pairs, r.Timings)
	if err != nil {
		return fmt.Errorf("render pairs: %w", err)
	}

	for _, artifact := range []struct {
		name string
		data []byte
	}{
		{"kernels_" + tag + ".csv", kernels},
		{"memcpys_" + tag + ".csv", memcpys},
		{"pairs_" + tag + ".csv", pairs},
	} {
		if err := d.Write(ctx, artifact.name, artifact.data); err != nil {
			return fmt.Errorf("write %s: %w", artifact.name, err)
		}
	}
	return nil
}

// header is the first JSONL record written by WriteJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	RunID       string    `json:"run_id"`
	KernelCount int       `json:"kernel_count"`
	MemcpyCount int       `json:"memcpy_count"`
	PairCount   int       `json:"pair_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// WriteJSONL streams a full report as JSONL to w: one header line, then one
// line per kernel, memcpy, and pair/timing record. The format round-trips
// everything the CSV tables carry plus the raw event payloads.
//
// The header carries the run ID and generation time, so re-running the same
// window yields an artifact that differs in its first line only. The three
// CSV tables are the byte-stable outputs; the JSONL dump identifies the run
// that produced it.
func WriteJSONL(r *engine.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   r.GeneratedAt,
		RunID:       r.RunID,
		KernelCount: len(r.Kernels),
		MemcpyCount: len(r.Memcpys),
		PairCount:   len(r.Pairs),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, k := range r.Kernels {
		if err := enc.Encode(record{Type: "kernel", Data: k}); err != nil {
			return fmt.Errorf("encode kernel: %w", err)
		}
	}
	for _, m := range r.Memcpys {
		if err := enc.Encode(record{Type: "memcpy", Data: m}); err != nil {
			return fmt.Errorf("encode memcpy: %w", err)
		}
	}
	for i := range r.Pairs {
		if err := enc.Encode(record{Type: "pair", Data: r.Pairs[i]}); err != nil {
			return fmt.Errorf("encode pair: %w", err)
		}
		if err := enc.Encode(record{Type: "timing", Data: r.Timings[i]}); err != nil {
			return fmt.Errorf("encode timing: %w", err)
		}
	}
	return nil
}

// JSONLBytes renders a report as JSONL in memory, for destinations that take
// whole artifacts.
func JSONLBytes(r *engine.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSONL(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
