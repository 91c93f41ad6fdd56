package telemetry

import "time"

// CX trace event type discriminators
//
// One discriminator per register access direction, matching the trace
// hooks the hardware model exposes, plus swap/dispatch/fault events.
const (
	Trace_Dropped = 0

	// Register access events (10-17)
	Trace_CxSel_Read   = 10
	Trace_CxSel_Write  = 11
	Trace_CxIdx_Read   = 12
	Trace_CxIdx_Write  = 13
	Trace_CxData_Read  = 14
	Trace_CxData_Write = 15

	// Selector swap events (20-21)
	Trace_Swap = 20

	// Router events (30-32)
	Trace_Dispatch = 30
	Trace_Fault    = 31

	// Undefined-region accesses (40)
	Trace_Undefined = 40
)

func EventName(code uint8) string {
	switch code {
	case Trace_CxSel_Read:
		return "cxsel_read"
	case Trace_CxSel_Write:
		return "cxsel_write"
	case Trace_CxIdx_Read:
		return "cxidx_read"
	case Trace_CxIdx_Write:
		return "cxidx_write"
	case Trace_CxData_Read:
		return "cxdata_read"
	case Trace_CxData_Write:
		return "cxdata_write"
	case Trace_Swap:
		return "cxsetsel_swap"
	case Trace_Dispatch:
		return "cx_dispatch"
	case Trace_Fault:
		return "cx_fault"
	case Trace_Undefined:
		return "cx_undefined"
	default:
		return "unknown"
	}
}

// Event is one diagnostic record. For register accesses Value carries the
// value read or written; for swaps Old/New carry the selector transition.
type Event struct {
	EventID  uint64    `json:"event_id"`
	Code     uint8     `json:"code"`
	HartID   uint64    `json:"hart_id"`
	Register string    `json:"register,omitempty"`
	Value    uint64    `json:"value"`
	Old      uint64    `json:"old,omitempty"`
	New      uint64    `json:"new,omitempty"`
	Time     time.Time `json:"time"`
}

// Sink consumes trace events. Sinks must not block; the register
// subsystem emits from the instruction path.
type Sink interface {
	Emit(ev Event)
}
