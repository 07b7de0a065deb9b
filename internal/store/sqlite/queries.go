package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/groblegark/ktrace/internal/model"
	"github.com/groblegark/ktrace/internal/store"
)

// kernelColumns is the column list used for SELECT statements on the kernel
// activity table.
const kernelColumns = `k.start, k.end, k.deviceId, k.streamId, k.correlationId,
	k.gridX, k.gridY, k.gridZ, k.blockX, k.blockY, k.blockZ,
	k.registersPerThread, k.staticSharedMemory + k.dynamicSharedMemory,
	s.value`

// memcpyColumns is the column list used for SELECT statements on the memcpy
// activity table, including the optional runtime call join.
const memcpyColumns = `m.start, m.end, m.deviceId, m.streamId, m.correlationId,
	m.bytes, m.copyKind, m.srcKind, m.dstKind,
	r.start, r.end, s.value`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queryTraceAnchor finds the raw nanosecond timestamp of the earliest kernel,
// falling back to the earliest memcpy when the trace captured no kernels.
func queryTraceAnchor(ctx context.Context, db executor) (int64, error) {
	var t0 sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT MIN(start) FROM CUPTI_ACTIVITY_KIND_KERNEL`).Scan(&t0)
	if err != nil {
		return 0, fmt.Errorf("%w: read trace anchor: %v", store.ErrUnavailable, err)
	}
	if t0.Valid {
		return t0.Int64, nil
	}
	err = db.QueryRowContext(ctx,
		`SELECT MIN(start) FROM CUPTI_ACTIVITY_KIND_MEMCPY`).Scan(&t0)
	if err != nil {
		return 0, fmt.Errorf("%w: read trace anchor: %v", store.ErrUnavailable, err)
	}
	if !t0.Valid {
		return 0, fmt.Errorf("%w: trace contains no events", store.ErrUnavailable)
	}
	return t0.Int64, nil
}

// queryTraceSpan returns the full [min start, max end] extent over both
// activity tables, in milliseconds relative to t0.
func queryTraceSpan(ctx context.Context, db executor, t0 int64) (model.Window, error) {
	var lo, hi sql.NullInt64
	err := db.QueryRowContext(ctx, `
		SELECT MIN(lo), MAX(hi) FROM (
			SELECT MIN(start) AS lo, MAX(end) AS hi FROM CUPTI_ACTIVITY_KIND_KERNEL
			UNION ALL
			SELECT MIN(start) AS lo, MAX(end) AS hi FROM CUPTI_ACTIVITY_KIND_MEMCPY
		)`).Scan(&lo, &hi)
	if err != nil {
		return model.Window{}, fmt.Errorf("%w: read trace span: %v", store.ErrUnavailable, err)
	}
	if !lo.Valid || !hi.Valid {
		return model.Window{}, fmt.Errorf("%w: trace contains no events", store.ErrUnavailable)
	}
	return model.Window{StartMS: toMS(lo.Int64, t0), EndMS: toMS(hi.Int64, t0)}, nil
}

// queryKernels reads kernel events overlapping w, ordered by start time.
// Overlap uses end >= lo AND start <= hi so an event straddling a window
// boundary is included.
func queryKernels(ctx context.Context, db executor, t0 int64, w model.Window, f model.Filter) ([]*model.KernelEvent, error) {
	lo, hi := nsBounds(t0, w)

	q := `SELECT ` + kernelColumns + `
		FROM CUPTI_ACTIVITY_KIND_KERNEL k
		LEFT JOIN StringIds s ON k.demangledName = s.id
		WHERE k.end >= ? AND k.start <= ?`
	args := []any{lo, hi}
	if f.Device != nil {
		q += ` AND k.deviceId = ?`
		args = append(args, *f.Device)
	}
	q += ` ORDER BY k.start`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("read kernels: %w", err)
	}
	defer rows.Close()
	return scanKernels(rows, t0)
}

// queryMemcpys reads memcpy events overlapping w, ordered by start time. The
// runtime activity table is LEFT JOINed on correlation ID so a memcpy without
// a traced CPU call still comes back, with null call columns.
func queryMemcpys(ctx context.Context, db executor, t0 int64, w model.Window, f model.Filter) ([]*model.MemcpyEvent, error) {
	lo, hi := nsBounds(t0, w)

	q := `SELECT ` + memcpyColumns + `
		FROM CUPTI_ACTIVITY_KIND_MEMCPY m
		LEFT JOIN CUPTI_ACTIVITY_KIND_RUNTIME r ON m.correlationId = r.correlationId
		LEFT JOIN StringIds s ON r.nameId = s.id
		WHERE m.end >= ? AND m.start <= ?`
	args := []any{lo, hi}
	if f.Device != nil {
		q += ` AND m.deviceId = ?`
		args = append(args, *f.Device)
	}
	q += ` ORDER BY m.start`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("read memcpys: %w", err)
	}
	defer rows.Close()
	return scanMemcpys(rows, t0)
}

// nsBounds converts a window in relative milliseconds to the raw nanosecond
// bounds the activity tables are keyed by.
func nsBounds(t0 int64, w model.Window) (lo, hi int64) {
	lo = t0 + int64(w.StartMS*1e6)
	hi = t0 + int64(w.EndMS*1e6)
	return lo, hi
}
