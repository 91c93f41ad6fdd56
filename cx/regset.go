package cx

import (
	"github.com/lojo/cxemu/log"
	"github.com/lojo/cxemu/telemetry"
)

// RegisterSet holds the per-hart CX register state: the selector, the
// auto-incrementing index and its defined-ness shadow flag. One instance
// per hart, owned exclusively by that hart; every operation below is one
// indivisible step of the owning hart's instruction stream, so no
// locking is needed.
//
// "Undefined" accesses never fault and never touch extension state. The
// deterministic rendition here reads as zero, drops writes, clears the
// defined flag, and reports false to the caller.
type RegisterSet struct {
	hartID  uint64
	catalog *Catalog
	trace   *telemetry.TraceClient

	selector     uint64
	index        uint64
	indexDefined bool
}

// NewRegisterSet builds a register set in the reset state.
func NewRegisterSet(hartID uint64, catalog *Catalog, trace *telemetry.TraceClient) *RegisterSet {
	r := &RegisterSet{
		hartID:  hartID,
		catalog: catalog,
		trace:   trace,
	}
	r.Reset()
	return r
}

// Reset restores the architectural reset state: the built-in extension
// is selected and index 0 is valid whenever the built-in has any state.
func (r *RegisterSet) Reset() {
	r.selector = SelBuiltin
	r.index = 0
	r.indexDefined = r.catalog.StateSize(SelBuiltin) > 0
}

func (r *RegisterSet) HartID() uint64 {
	return r.hartID
}

// Selector returns the current selector value (cxsel read).
func (r *RegisterSet) Selector() uint64 {
	r.trace.RegisterAccess(telemetry.Trace_CxSel_Read, r.hartID, "cxsel", r.selector)
	return r.selector
}

// IndexDefined reports whether the index register currently holds a
// valid offset for the selected extension.
func (r *RegisterSet) IndexDefined() bool {
	return r.indexDefined
}

// Swap is the cxsetsel primitive: it returns the pre-swap selector and
// installs v, WARL-narrowed to SelInvalid when v names no registered
// extension. It never faults, and it always invalidates the index, even
// when v equals the old selector.
func (r *RegisterSet) Swap(v uint64) uint64 {
	old := r.selector
	narrowed := v
	if !r.catalog.IsValid(v) {
		narrowed = SelInvalid
	}
	r.selector = narrowed
	r.indexDefined = false
	r.trace.Swap(r.hartID, old, narrowed)
	log.Debug(log.HartMonitoring, "cxsetsel", "hart", r.hartID, "old", old, "new", narrowed)
	return old
}

// selected returns the descriptor of the current selection, or nil when
// the selector does not resolve.
func (r *RegisterSet) selected() *Descriptor {
	d, err := r.catalog.LookupBySelector(r.selector)
	if err != nil {
		return nil
	}
	return d
}

// ReadIndex performs a cxsidx read. The second return value is false in
// the undefined region; the first is then always zero.
func (r *RegisterSet) ReadIndex() (uint64, bool) {
	d := r.selected()
	if d == nil || d.StateSizeWords == 0 || !r.indexDefined {
		r.trace.Undefined(r.hartID, "cxidx", r.index)
		return 0, false
	}
	r.trace.RegisterAccess(telemetry.Trace_CxIdx_Read, r.hartID, "cxidx", r.index)
	return r.index, true
}

// WriteIndex performs a cxsidx write. The index becomes defined only
// when v is a valid word offset for the current selection; the write
// itself never faults regardless of v.
func (r *RegisterSet) WriteIndex(v uint64) bool {
	r.index = v
	d := r.selected()
	if d == nil || d.StateSizeWords == 0 {
		r.indexDefined = false
		r.trace.Undefined(r.hartID, "cxidx", v)
		return false
	}
	r.indexDefined = v < uint64(d.StateSizeWords)
	if !r.indexDefined {
		r.trace.Undefined(r.hartID, "cxidx", v)
		return false
	}
	r.trace.RegisterAccess(telemetry.Trace_CxIdx_Write, r.hartID, "cxidx", v)
	return true
}

// dataAccessible reports whether a cxsdata access is in the defined
// region, returning the selection when it is.
func (r *RegisterSet) dataAccessible() (*Descriptor, bool) {
	d := r.selected()
	if d == nil || !r.indexDefined || r.index >= uint64(d.StateSizeWords) {
		return nil, false
	}
	return d, true
}

// advance applies the post-access auto-increment: the index moves to the
// next word, or becomes undefined when the last word was just touched.
func (r *RegisterSet) advance(d *Descriptor) {
	if r.index+1 < uint64(d.StateSizeWords) {
		r.index++
	} else {
		r.indexDefined = false
	}
}

// ReadData performs a cxsdata read, returning the state word at the
// current index and advancing it. In the undefined region it returns
// (0, false) and leaves extension state untouched.
func (r *RegisterSet) ReadData() (uint64, bool) {
	d, ok := r.dataAccessible()
	if !ok {
		r.trace.Undefined(r.hartID, "cxdata", r.index)
		return 0, false
	}
	v := d.Provider.ReadStateWord(uint32(r.index))
	r.trace.RegisterAccess(telemetry.Trace_CxData_Read, r.hartID, "cxdata", v)
	r.advance(d)
	return v, true
}

// WriteData performs a cxsdata write at the current index and advances
// it. Undefined-region writes are dropped and reported as false.
func (r *RegisterSet) WriteData(v uint64) bool {
	d, ok := r.dataAccessible()
	if !ok {
		r.trace.Undefined(r.hartID, "cxdata", v)
		return false
	}
	d.Provider.WriteStateWord(uint32(r.index), v)
	r.trace.RegisterAccess(telemetry.Trace_CxData_Write, r.hartID, "cxdata", v)
	r.advance(d)
	return true
}

// ExchangeData is the combined read-modify-write form of a cxsdata
// access: one read, one write, one auto-increment, all in a single
// indivisible step.
func (r *RegisterSet) ExchangeData(v uint64) (uint64, bool) {
	d, ok := r.dataAccessible()
	if !ok {
		r.trace.Undefined(r.hartID, "cxdata", v)
		return 0, false
	}
	old := d.Provider.ReadStateWord(uint32(r.index))
	d.Provider.WriteStateWord(uint32(r.index), v)
	r.trace.RegisterAccess(telemetry.Trace_CxData_Write, r.hartID, "cxdata", v)
	r.advance(d)
	return old, true
}
