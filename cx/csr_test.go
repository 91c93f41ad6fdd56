package cx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojo/cxemu/cxerrors"
)

func TestCsrNames(t *testing.T) {
	assert.Equal(t, "cxsel", CsrName(CsrCxSel))
	assert.Equal(t, "cxidx", CsrName(CsrCxIdx))
	assert.Equal(t, "cxdata", CsrName(CsrCxData))
	assert.Equal(t, "unknown", CsrName(0x900))
}

func TestCsrSelectorIsReadOnly(t *testing.T) {
	h, _ := newTestHart(t)

	v, err := h.ReadCSR(CsrCxSel)
	require.NoError(t, err)
	assert.Equal(t, SelBuiltin, v)

	// ordinary CSR writes to cxsel are dropped
	require.NoError(t, h.WriteCSR(CsrCxSel, 3))
	v, err = h.ReadCSR(CsrCxSel)
	require.NoError(t, err)
	assert.Equal(t, SelBuiltin, v)
}

func TestCsrIndexedAccess(t *testing.T) {
	h, _ := newTestHart(t)

	require.NoError(t, h.WriteCSR(CsrCxIdx, 1))
	require.NoError(t, h.WriteCSR(CsrCxData, 0x77))

	idx, err := h.ReadCSR(CsrCxIdx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), idx)

	require.NoError(t, h.WriteCSR(CsrCxIdx, 1))
	v, err := h.ReadCSR(CsrCxData)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x77), v)
}

func TestCsrExchange(t *testing.T) {
	h, _ := newTestHart(t)

	old, err := h.ExchangeCSR(CsrCxIdx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), old)

	old, err = h.ExchangeCSR(CsrCxData, 0x99)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), old)

	// exchange advanced exactly once
	idx, err := h.ReadCSR(CsrCxIdx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), idx)

	require.NoError(t, h.WriteCSR(CsrCxIdx, 2))
	v, err := h.ReadCSR(CsrCxData)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x99), v)
}

func TestCsrDisabledGatesEverything(t *testing.T) {
	h, _ := newTestHart(t)
	h.SetCXEnabled(false)

	_, err := h.ReadCSR(CsrCxSel)
	assert.ErrorIs(t, err, cxerrors.ErrXCxDisabled)
	assert.ErrorIs(t, h.WriteCSR(CsrCxIdx, 0), cxerrors.ErrXCxDisabled)
	_, err = h.ExchangeCSR(CsrCxData, 0)
	assert.ErrorIs(t, err, cxerrors.ErrXCxDisabled)
}

func TestCsrUnknownAddress(t *testing.T) {
	h, _ := newTestHart(t)

	_, err := h.ReadCSR(0x8FF)
	assert.ErrorIs(t, err, cxerrors.ErrXIllegalInstruction)
	assert.ErrorIs(t, h.WriteCSR(0x8FF, 0), cxerrors.ErrXIllegalInstruction)
}

func TestCsrUndefinedReadsAreZero(t *testing.T) {
	h, _ := newTestHart(t)
	h.CX().Swap(42) // invalid selection

	// undefined, but never a fault
	v, err := h.ReadCSR(CsrCxIdx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	v, err = h.ReadCSR(CsrCxData)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	require.NoError(t, h.WriteCSR(CsrCxData, 0x1234))
}
