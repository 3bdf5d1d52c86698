package state

import (
	"github.com/five82/penplot/internal/plotter"
	"github.com/five82/penplot/internal/stroke"
)

// SyncState is the single-flight lock of the sync engine.
type SyncState int

const (
	Idle SyncState = iota
	AwaitingResponse
)

func (s SyncState) String() string {
	if s == AwaitingResponse {
		return "awaiting"
	}
	return "idle"
}

// Outcome reports what a sync event changed, so the caller knows whether to
// redraw or to request fresh state.
type Outcome struct {
	RemoteClear bool // another client cleared the canvas
	Replaced    bool // the authoritative list was replaced from the relay
	Folded      bool // a completed local stroke joined the authoritative list
	Resync      bool // fresh relay state is needed now, not on the next tick
}

// Engine reconciles the locally drawn stroke with the relay's authoritative
// line list. It is not safe for concurrent use; all calls are expected to
// come from one event loop.
type Engine struct {
	list   []stroke.PixelPoint
	buffer *stroke.Buffer
	state  SyncState

	// failed marks an outstanding request that already errored, so the next
	// tick may supersede it.
	failed bool
	// pendingClear holds an explicit clear raised while a request was out.
	pendingClear bool
	// clearDeferred marks a remote clear that arrived while a local stroke was
	// buffered. The list is kept; fresh state is requested once the stroke
	// folds.
	clearDeferred bool
}

// NewEngine returns an idle engine with an empty list reading from buffer.
func NewEngine(buffer *stroke.Buffer) *Engine {
	if buffer == nil {
		buffer = &stroke.Buffer{}
	}
	return &Engine{buffer: buffer}
}

// State returns the lock state.
func (e *Engine) State() SyncState {
	return e.state
}

// Failed reports whether the outstanding request ended in a transport error.
func (e *Engine) Failed() bool {
	return e.failed
}

// Authoritative returns a copy of the authoritative list.
func (e *Engine) Authoritative() []stroke.PixelPoint {
	return stroke.Clone(e.list)
}

// Local returns a copy of the local buffer.
func (e *Engine) Local() []stroke.PixelPoint {
	return e.buffer.Points()
}

// Buffer returns the local stroke buffer the engine reads.
func (e *Engine) Buffer() *stroke.Buffer {
	return e.buffer
}

// ClearPending reports whether a remote clear is waiting for the local
// stroke to finish.
func (e *Engine) ClearPending() bool {
	return e.clearDeferred
}

func (e *Engine) gateOpen() bool {
	return e.state == Idle || e.failed
}

func (e *Engine) lock() {
	e.state = AwaitingResponse
	e.failed = false
}

// BeginPoll starts a sync exchange if no request is outstanding. The payload
// is the whole current list, or a queued clear.
func (e *Engine) BeginPoll() (plotter.SyncRequest, bool) {
	if !e.gateOpen() {
		return plotter.SyncRequest{}, false
	}
	e.lock()
	if e.pendingClear {
		e.pendingClear = false
		return plotter.SyncRequest{Clear: true}, true
	}
	return plotter.SyncRequest{Points: stroke.Clone(e.list)}, true
}

// Clear wipes the canvas on behalf of the user. A completed stroke waiting
// to be folded is dropped with it; a stroke still being drawn is kept. When
// the list had content the clear must reach the relay: the request is
// returned when the gate is open, otherwise it rides on the next poll.
func (e *Engine) Clear() (plotter.SyncRequest, bool) {
	hadLines := len(e.list) > 0
	e.list = nil
	e.clearDeferred = false
	if e.buffer.IsComplete() {
		e.buffer.Drain()
	}
	if !hadLines {
		return plotter.SyncRequest{}, false
	}
	if !e.gateOpen() {
		e.pendingClear = true
		return plotter.SyncRequest{}, false
	}
	e.lock()
	return plotter.SyncRequest{Clear: true}, true
}

// StrokeCompleted applies the fold rule after an End point was buffered:
// the stroke joins the list only while no reply can still replace it. A
// request that already failed has no reply left to wait for.
func (e *Engine) StrokeCompleted() Outcome {
	var out Outcome
	if e.gateOpen() {
		e.fold(&out)
	}
	return out
}

// Apply handles a successful sync reply and releases the lock.
func (e *Engine) Apply(resp plotter.Response) Outcome {
	var out Outcome
	switch resp.Kind {
	case plotter.ClearAll:
		if len(e.list) > 0 {
			if e.buffer.Empty() {
				e.list = nil
				out.RemoteClear = true
			} else {
				// Never wiped under the pen.
				e.clearDeferred = true
			}
		}
	case plotter.StrokeList:
		// A reply to a request sent before a queued clear predates it.
		if !e.pendingClear {
			e.list = stroke.Clone(resp.Points)
			e.clearDeferred = false
			out.Replaced = true
		}
	}

	if e.buffer.IsComplete() {
		e.fold(&out)
	}
	e.state = Idle
	e.failed = false
	if e.pendingClear {
		out.Resync = true
	}
	return out
}

// Fail records a transport failure. The lock is kept; the next tick may
// supersede the failed request.
func (e *Engine) Fail() {
	if e.state == AwaitingResponse {
		e.failed = true
	}
}

func (e *Engine) fold(out *Outcome) {
	if !e.buffer.IsComplete() {
		return
	}
	e.list = append(e.list, e.buffer.Drain()...)
	out.Folded = true
	if e.clearDeferred {
		e.clearDeferred = false
		out.Resync = true
	}
}
