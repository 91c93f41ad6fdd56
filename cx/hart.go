package cx

import (
	"github.com/lojo/cxemu/cxerrors"
	"github.com/lojo/cxemu/telemetry"
)

// Hart is the boundary collaborator standing in for one hardware thread
// of the host CPU: 32 general registers with x0 hardwired to zero, the
// per-hart CX register set and the CX enable bit. Harts run in parallel
// with each other but each one's state is owned by its own goroutine;
// nothing here is shared between harts except the read-only catalog.
type Hart struct {
	id     uint64
	regs   [32]uint64
	cx     *RegisterSet
	router *Router

	// cxEnabled gates the whole subsystem: while false every CX
	// register access and every CX-class instruction, cxsetsel
	// included, traps.
	cxEnabled bool
}

// NewHart builds a hart at reset with the CX subsystem enabled.
func NewHart(id uint64, catalog *Catalog, router *Router, trace *telemetry.TraceClient) *Hart {
	return &Hart{
		id:        id,
		cx:        NewRegisterSet(id, catalog, trace),
		router:    router,
		cxEnabled: true,
	}
}

func (h *Hart) ID() uint64 {
	return h.id
}

// CX returns the hart's CX register set.
func (h *Hart) CX() *RegisterSet {
	return h.cx
}

// ReadRegister returns general register i; x0 reads as zero.
func (h *Hart) ReadRegister(i int) uint64 {
	if i == 0 {
		return 0
	}
	return h.regs[i]
}

// WriteRegister sets general register i; writes to x0 are discarded.
func (h *Hart) WriteRegister(i int, v uint64) {
	if i == 0 {
		return
	}
	h.regs[i] = v
}

func (h *Hart) CXEnabled() bool {
	return h.cxEnabled
}

func (h *Hart) SetCXEnabled(enabled bool) {
	h.cxEnabled = enabled
}

// Reset restores the reset state of the general registers and the CX
// register set.
func (h *Hart) Reset() {
	h.regs = [32]uint64{}
	h.cx.Reset()
}

// Step decodes and retires one instruction word as a single indivisible
// step. cxsetsel executes here; every other CX-class instruction goes
// through the router.
func (h *Hart) Step(raw uint32) error {
	inst, err := Decode(raw)
	if err != nil {
		return err
	}
	if !h.cxEnabled {
		return cxerrors.ErrXCxDisabled
	}
	if inst.IsSetsel() {
		v := h.ReadRegister(int(inst.Rs1))
		old := h.cx.Swap(v)
		h.WriteRegister(int(inst.Rd), old)
		return nil
	}
	return h.router.Dispatch(h, inst)
}
