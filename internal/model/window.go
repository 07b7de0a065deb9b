package model

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow indicates a caller supplied a window whose start is not
// strictly before its end. It is fatal to the invocation.
var ErrInvalidWindow = errors.New("invalid window: start must be before end")

// Window is a closed time interval [StartMS, EndMS] in milliseconds relative
// to trace start, used to scope analysis to a portion of a trace.
type Window struct {
	StartMS float64 `json:"start_ms"`
	EndMS   float64 `json:"end_ms"`
}

// Validate returns ErrInvalidWindow unless StartMS < EndMS.
func (w Window) Validate() error {
	if w.StartMS >= w.EndMS {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidWindow, w.StartMS, w.EndMS)
	}
	return nil
}

// Overlaps reports whether the span intersects the window. Events that merely
// touch a boundary count as overlapping, so a kernel starting before the
// window but ending inside it is never lost.
func (w Window) Overlaps(ts TimeSpan) bool {
	return ts.EndMS >= w.StartMS && ts.StartMS <= w.EndMS
}

// String formats the window like "2260-2400ms".
func (w Window) String() string {
	return fmt.Sprintf("%g-%gms", w.StartMS, w.EndMS)
}

// DurationMS returns the window width.
func (w Window) DurationMS() float64 {
	return w.EndMS - w.StartMS
}
