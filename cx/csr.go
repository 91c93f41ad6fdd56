package cx

import (
	"github.com/lojo/cxemu/cxerrors"
	"github.com/lojo/cxemu/log"
)

// The three CX registers sit at fixed addresses in the unprivileged
// custom read/write CSR range. cxsel is read-only here; the only way to
// change the selection is the cxsetsel instruction.
const (
	CsrCxSel  uint16 = 0x800
	CsrCxIdx  uint16 = 0x801
	CsrCxData uint16 = 0x802
)

func CsrName(addr uint16) string {
	switch addr {
	case CsrCxSel:
		return "cxsel"
	case CsrCxIdx:
		return "cxidx"
	case CsrCxData:
		return "cxdata"
	default:
		return "unknown"
	}
}

// ReadCSR reads one CX CSR. While the subsystem is disabled every
// access traps, matching the access-control predicate on the CSR
// address space.
func (h *Hart) ReadCSR(addr uint16) (uint64, error) {
	if !h.cxEnabled {
		return 0, cxerrors.ErrXCxDisabled
	}
	switch addr {
	case CsrCxSel:
		return h.cx.Selector(), nil
	case CsrCxIdx:
		v, _ := h.cx.ReadIndex()
		return v, nil
	case CsrCxData:
		v, _ := h.cx.ReadData()
		return v, nil
	default:
		return 0, cxerrors.ErrXIllegalInstruction
	}
}

// WriteCSR writes one CX CSR. Writes to cxsel are dropped (read-only
// resolution); cxidx and cxdata follow the indexed access protocol and
// never trap on any value.
func (h *Hart) WriteCSR(addr uint16, v uint64) error {
	if !h.cxEnabled {
		return cxerrors.ErrXCxDisabled
	}
	switch addr {
	case CsrCxSel:
		log.Debug(log.CsrMonitoring, "cxsel write ignored", "hart", h.id, "value", v)
		return nil
	case CsrCxIdx:
		h.cx.WriteIndex(v)
		return nil
	case CsrCxData:
		h.cx.WriteData(v)
		return nil
	default:
		return cxerrors.ErrXIllegalInstruction
	}
}

// ExchangeCSR is the csrrw form: it returns the old value and installs
// v in a single step. On cxdata this is one access with one
// auto-increment, not a read access followed by a write access.
func (h *Hart) ExchangeCSR(addr uint16, v uint64) (uint64, error) {
	if !h.cxEnabled {
		return 0, cxerrors.ErrXCxDisabled
	}
	switch addr {
	case CsrCxSel:
		return h.cx.Selector(), nil
	case CsrCxIdx:
		old, _ := h.cx.ReadIndex()
		h.cx.WriteIndex(v)
		return old, nil
	case CsrCxData:
		old, _ := h.cx.ExchangeData(v)
		return old, nil
	default:
		return 0, cxerrors.ErrXIllegalInstruction
	}
}
