package cx

// Provider is the execution/capability surface of one composable
// extension. The register set drives the state-word accessors through
// the indexed access protocol; the router drives Execute for every
// CX-class instruction other than cxsetsel.
type Provider interface {
	// StateSize returns the number of CX state words this extension
	// exposes through cxidx/cxdata.
	StateSize() uint32

	// ReadStateWord returns the state word at offset i. The register
	// set only calls this with i in [0, StateSize()).
	ReadStateWord(i uint32) uint64

	// WriteStateWord stores v at offset i, same bounds contract as
	// ReadStateWord.
	WriteStateWord(i uint32, v uint64)

	// Execute runs one routed instruction against the hart. A non-nil
	// error is surfaced to the dispatch layer as a fault.
	Execute(h *Hart, inst Instruction) error
}
