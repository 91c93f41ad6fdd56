package telemetry

import (
	"sync"
	"time"

	"github.com/lojo/cxemu/log"
)

// TraceClient fans trace events out to the configured sinks.
type TraceClient struct {
	nextEventID uint64
	eventIDMu   sync.Mutex
	disabled    bool // if true, tracing is disabled (no-op)
	sinks       []Sink
}

// NewNoOpTraceClient creates a disabled trace client that does nothing
func NewNoOpTraceClient() *TraceClient {
	return &TraceClient{
		disabled: true,
	}
}

// NewTraceClient builds a trace client emitting to the given sinks.
func NewTraceClient(sinks ...Sink) *TraceClient {
	return &TraceClient{
		nextEventID: 0,
		sinks:       sinks,
	}
}

// GetEventID returns a new unique event ID for linking related trace events.
// Event IDs are assigned sequentially starting from 0.
func (c *TraceClient) GetEventID() uint64 {
	c.eventIDMu.Lock()
	defer c.eventIDMu.Unlock()
	id := c.nextEventID
	c.nextEventID++
	return id
}

func (c *TraceClient) emit(ev Event) {
	if c == nil || c.disabled {
		return
	}
	ev.EventID = c.GetEventID()
	ev.Time = time.Now().UTC()
	for _, s := range c.sinks {
		s.Emit(ev)
	}
	log.Trace(log.TelemetryMonitoring, EventName(ev.Code),
		"hart", ev.HartID, "register", ev.Register, "value", ev.Value)
}

// RegisterAccess records one read or write of a CX register.
func (c *TraceClient) RegisterAccess(code uint8, hartID uint64, register string, value uint64) {
	c.emit(Event{Code: code, HartID: hartID, Register: register, Value: value})
}

// Swap records a selector exchange with its old and new values.
func (c *TraceClient) Swap(hartID uint64, oldSel uint64, newSel uint64) {
	c.emit(Event{Code: Trace_Swap, HartID: hartID, Register: "cxsel", Old: oldSel, New: newSel, Value: newSel})
}

// Dispatch records a routed CX-class instruction.
func (c *TraceClient) Dispatch(hartID uint64, selector uint64, raw uint32) {
	c.emit(Event{Code: Trace_Dispatch, HartID: hartID, Old: selector, Value: uint64(raw)})
}

// Fault records an illegal-instruction condition.
func (c *TraceClient) Fault(hartID uint64, selector uint64) {
	c.emit(Event{Code: Trace_Fault, HartID: hartID, Value: selector})
}

// Undefined records an access in an architecturally undefined region.
func (c *TraceClient) Undefined(hartID uint64, register string, value uint64) {
	c.emit(Event{Code: Trace_Undefined, HartID: hartID, Register: register, Value: value})
}

// Recorder is a Sink that retains every event, for tests and the console.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
