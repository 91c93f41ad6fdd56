package cx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojo/cxemu/cxerrors"
	"github.com/lojo/cxemu/telemetry"
)

func newTestHart(t *testing.T) (*Hart, *MockExtension) {
	t.Helper()
	cat, _, ext := newTestCatalog(t)
	trace := telemetry.NewNoOpTraceClient()
	router := NewRouter(cat, trace)
	return NewHart(0, cat, router, trace), ext
}

func TestHartZeroRegister(t *testing.T) {
	h, _ := newTestHart(t)

	h.WriteRegister(0, 0xFFFF)
	assert.Equal(t, uint64(0), h.ReadRegister(0))

	h.WriteRegister(5, 42)
	assert.Equal(t, uint64(42), h.ReadRegister(5))
}

// Reset, then cxsetsel x5, x6 with an unregistered value 7: the selector
// narrows to invalid, x5 receives the prior value 0, and any routed
// CX instruction afterwards faults.
func TestScenarioSwapToUnregistered(t *testing.T) {
	h, _ := newTestHart(t)

	h.WriteRegister(6, 7)
	require.NoError(t, h.Step(EncodeSetsel(5, 6)))

	assert.Equal(t, SelBuiltin, h.ReadRegister(5))
	assert.Equal(t, SelInvalid, h.CX().Selector())
	assert.False(t, h.CX().IndexDefined())

	err := h.Step(Encode(0x01, 0, 0, 0x2, 1))
	assert.ErrorIs(t, err, cxerrors.ErrXIllegalInstruction)
}

// Reset with a 4-word builtin: cxsidx=3, cxsdata=0xDEADBEEF exhausts the
// boundary; re-establishing the index at 0 reads the untouched low words.
func TestScenarioBoundaryWriteThroughHart(t *testing.T) {
	h, _ := newTestHart(t)
	r := h.CX()

	require.True(t, r.WriteIndex(3))
	require.True(t, r.WriteData(0xDEADBEEF))
	assert.False(t, r.IndexDefined())

	require.True(t, r.WriteIndex(0))
	v, ok := r.ReadData()
	require.True(t, ok)
	assert.Equal(t, uint64(0), v)
	v, ok = r.ReadData()
	require.True(t, ok)
	assert.Equal(t, uint64(0), v)
}

func TestSetselZeroSourceAndZeroDest(t *testing.T) {
	h, _ := newTestHart(t)

	// swap to the mock extension first so the pre-swap value is nonzero
	h.WriteRegister(1, 3)
	require.NoError(t, h.Step(EncodeSetsel(0, 1)))
	assert.Equal(t, uint64(3), h.CX().Selector())
	// rd = x0: old value discarded
	assert.Equal(t, uint64(0), h.ReadRegister(0))

	// rs1 = x0 reads as zero: swap back to builtin
	require.NoError(t, h.Step(EncodeSetsel(2, 0)))
	assert.Equal(t, SelBuiltin, h.CX().Selector())
	assert.Equal(t, uint64(3), h.ReadRegister(2))
}

func TestStepRoutesToSelectedExtension(t *testing.T) {
	h, ext := newTestHart(t)

	h.WriteRegister(1, 3)
	require.NoError(t, h.Step(EncodeSetsel(0, 1)))

	raw := Encode(0x05, 2, 1, 0x3, 4)
	require.NoError(t, h.Step(raw))

	require.Len(t, ext.Calls, 1)
	assert.Equal(t, raw, ext.Calls[0].Raw)
	assert.Equal(t, uint8(0x3), ext.Calls[0].Funct3)
	assert.Equal(t, uint8(4), ext.Calls[0].Rd)
}

func TestStepDisabledSubsystem(t *testing.T) {
	h, _ := newTestHart(t)
	h.SetCXEnabled(false)

	// cxsetsel traps like every other CX-class instruction
	err := h.Step(EncodeSetsel(5, 6))
	assert.ErrorIs(t, err, cxerrors.ErrXCxDisabled)
	assert.Equal(t, SelBuiltin, h.CX().selector)

	err = h.Step(Encode(0x01, 0, 0, 0x2, 1))
	assert.ErrorIs(t, err, cxerrors.ErrXCxDisabled)
}

func TestStepRejectsForeignOpcode(t *testing.T) {
	h, _ := newTestHart(t)

	err := h.Step(0x00000013) // addi x0, x0, 0
	assert.ErrorIs(t, err, cxerrors.ErrXNotCxInstruction)
}

func TestHartReset(t *testing.T) {
	h, _ := newTestHart(t)

	h.WriteRegister(5, 99)
	h.WriteRegister(1, 3)
	require.NoError(t, h.Step(EncodeSetsel(0, 1)))

	h.Reset()
	assert.Equal(t, uint64(0), h.ReadRegister(5))
	assert.Equal(t, SelBuiltin, h.CX().Selector())
	assert.True(t, h.CX().IndexDefined())
}

func TestHartsAreIndependent(t *testing.T) {
	cat, _, _ := newTestCatalog(t)
	trace := telemetry.NewNoOpTraceClient()
	router := NewRouter(cat, trace)
	h0 := NewHart(0, cat, router, trace)
	h1 := NewHart(1, cat, router, trace)

	h0.WriteRegister(1, 3)
	require.NoError(t, h0.Step(EncodeSetsel(0, 1)))

	assert.Equal(t, uint64(3), h0.CX().Selector())
	assert.Equal(t, SelBuiltin, h1.CX().Selector())
}
