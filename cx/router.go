package cx

import (
	"github.com/lojo/cxemu/cxerrors"
	"github.com/lojo/cxemu/log"
	"github.com/lojo/cxemu/telemetry"
)

// Router resolves CX-class instructions against the hart's current
// selection and forwards them to the extension's provider. It never
// interprets or mutates extension state itself.
type Router struct {
	catalog *Catalog
	trace   *telemetry.TraceClient
}

func NewRouter(catalog *Catalog, trace *telemetry.TraceClient) *Router {
	return &Router{catalog: catalog, trace: trace}
}

// Dispatch forwards inst to the provider named by the hart's selector.
// An invalid or unresolvable selector is the uniform "no extension
// selected" failure and raises the illegal-instruction fault.
func (rt *Router) Dispatch(h *Hart, inst Instruction) error {
	sel := h.CX().selector
	if sel == SelInvalid {
		rt.trace.Fault(h.ID(), sel)
		return cxerrors.ErrXIllegalInstruction
	}
	d, err := rt.catalog.LookupBySelector(sel)
	if err != nil {
		rt.trace.Fault(h.ID(), sel)
		return cxerrors.ErrXIllegalInstruction
	}
	rt.trace.Dispatch(h.ID(), sel, inst.Raw)
	log.Trace(log.RouterMonitoring, "dispatch", "hart", h.ID(), "selector", sel, "inst", inst.String())
	return d.Provider.Execute(h, inst)
}
