package sqlite

import (
	"database/sql"

	"github.com/groblegark/ktrace/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// toMS converts a raw nanosecond timestamp to milliseconds relative to t0.
func toMS(ns, t0 int64) float64 {
	return float64(ns-t0) / 1e6
}

// scanKernel scans a single row into a model.KernelEvent.
// The row must contain columns in the order defined by kernelColumns.
func scanKernel(row scannable, t0 int64) (*model.KernelEvent, error) {
	var (
		start, end int64
		name       sql.NullString
		k          model.KernelEvent
	)
	err := row.Scan(
		&start,
		&end,
		&k.DeviceID,
		&k.StreamID,
		&k.CorrelationID,
		&k.Grid.X,
		&k.Grid.Y,
		&k.Grid.Z,
		&k.Block.X,
		&k.Block.Y,
		&k.Block.Z,
		&k.RegistersPerThread,
		&k.SharedMemBytes,
		&name,
	)
	if err != nil {
		return nil, err
	}
	k.StartMS = toMS(start, t0)
	k.EndMS = toMS(end, t0)
	k.Name = name.String
	return &k, nil
}

// scanKernels scans multiple rows into a slice of model.KernelEvent pointers.
func scanKernels(rows *sql.Rows, t0 int64) ([]*model.KernelEvent, error) {
	var kernels []*model.KernelEvent
	for rows.Next() {
		k, err := scanKernel(rows, t0)
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return kernels, nil
}

// scanMemcpy scans a single row into a model.MemcpyEvent.
// The row must contain columns in the order defined by memcpyColumns.
func scanMemcpy(row scannable, t0 int64) (*model.MemcpyEvent, error) {
	var (
		start, end         int64
		copyKind           int64
		srcKind, dstKind   int64
		callStart, callEnd sql.NullInt64
		apiName            sql.NullString
		m                  model.MemcpyEvent
	)
	err := row.Scan(
		&start,
		&end,
		&m.DeviceID,
		&m.StreamID,
		&m.CorrelationID,
		&m.Bytes,
		&copyKind,
		&srcKind,
		&dstKind,
		&callStart,
		&callEnd,
		&apiName,
	)
	if err != nil {
		return nil, err
	}
	m.StartMS = toMS(start, t0)
	m.EndMS = toMS(end, t0)
	m.Direction = model.DirectionFromCopyKind(copyKind)
	m.SrcKind = model.MemKindFromCode(srcKind)
	m.DstKind = model.MemKindFromCode(dstKind)

	if callStart.Valid && callEnd.Valid {
		m.Call = &model.CallEvent{
			TimeSpan: model.TimeSpan{
				StartMS: toMS(callStart.Int64, t0),
				EndMS:   toMS(callEnd.Int64, t0),
			},
			CorrelationID: m.CorrelationID,
			APIName:       apiName.String,
		}
	}
	return &m, nil
}

// scanMemcpys scans multiple rows into a slice of model.MemcpyEvent pointers.
func scanMemcpys(rows *sql.Rows, t0 int64) ([]*model.MemcpyEvent, error) {
	var memcpys []*model.MemcpyEvent
	for rows.Next() {
		m, err := scanMemcpy(rows, t0)
		if err != nil {
			return nil, err
		}
		memcpys = append(memcpys, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memcpys, nil
}
