package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/groblegark/ktrace/internal/model"
)

// Column orders are stable; downstream renderers rely on them to rebuild a
// two-lane timeline (kernel lane, memcpy lane) without re-querying the store.
var (
	kernelHeader = []string{
		"name", "start_ms", "end_ms", "grid", "block",
		"device_id", "stream_id", "short_name",
	}
	memcpyHeader = []string{
		"direction", "start_ms", "end_ms", "bytes",
		"device_id", "stream_id", "src_mem", "dst_mem", "size_human",
	}
	pairHeader = []string{
		"memcpy_id", "preceding_kernel_name", "following_kernel_name",
		"launch_overhead_ms", "transfer_ms", "bandwidth_gbps", "flags",
		"gap_before_ms", "gap_after_ms", "direction", "bytes",
	}
)

// KernelsCSV renders the raw kernel listing.
func KernelsCSV(kernels []*model.KernelEvent) ([]byte, error) {
	return writeCSV(kernelHeader, len(kernels), func(i int) []string {
		k := kernels[i]
		return []string{
			k.Name,
			ms(k.StartMS),
			ms(k.EndMS),
			k.Grid.String(),
			k.Block.String(),
			strconv.FormatInt(k.DeviceID, 10),
			strconv.FormatInt(k.StreamID, 10),
			k.ShortName(),
		}
	})
}

// MemcpysCSV renders the raw memcpy listing.
func MemcpysCSV(memcpys []*model.MemcpyEvent) ([]byte, error) {
	return writeCSV(memcpyHeader, len(memcpys), func(i int) []string {
		m := memcpys[i]
		return []string{
			m.Direction.String(),
			ms(m.StartMS),
			ms(m.EndMS),
			strconv.FormatInt(m.Bytes, 10),
			strconv.FormatInt(m.DeviceID, 10),
			strconv.FormatInt(m.StreamID, 10),
			m.SrcKind.String(),
			m.DstKind.String(),
			model.FormatBytes(m.Bytes),
		}
	})
}

// PairsCSV renders the combined pair/timing table. pairs and timings must be
// index-aligned over the same memcpy sequence, as the engine produces them.
func PairsCSV(pairs []*model.PairRecord, timings []*model.TransferTiming) ([]byte, error) {
	if len(pairs) != len(timings) {
		return nil, fmt.Errorf("pairs and timings misaligned: %d vs %d", len(pairs), len(timings))
	}
	return writeCSV(pairHeader, len(pairs), func(i int) []string {
		p, t := pairs[i], timings[i]

		prev, next := "", ""
		if p.Preceding != nil {
			prev = p.Preceding.ShortName()
		}
		if p.Following != nil {
			next = p.Following.ShortName()
		}

		bw := ""
		if t.BandwidthGBps != nil {
			bw = strconv.FormatFloat(*t.BandwidthGBps, 'f', 2, 64)
		}

		flags := append([]string(nil), p.Flags...)
		flags = append(flags, t.Flags...)

		return []string{
			strconv.FormatInt(p.Memcpy.CorrelationID, 10),
			prev,
			next,
			ms(t.LaunchOverheadMS),
			ms(t.TransferMS),
			bw,
			strings.Join(flags, ";"),
			msPtr(p.GapBeforeMS),
			msPtr(p.GapAfterMS),
			p.Memcpy.Direction.String(),
			strconv.FormatInt(p.Memcpy.Bytes, 10),
		}
	})
}

func writeCSV(header []string, n int, row func(i int) []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range n {
		if err := w.Write(row(i)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ms(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func msPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return ms(*v)
}
