package cx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojo/cxemu/cxerrors"
	"github.com/lojo/cxemu/telemetry"
)

func TestRouterDispatchForwardsToProvider(t *testing.T) {
	h, ext := newTestHart(t)
	h.CX().Swap(3)

	inst, err := Decode(Encode(0x02, 1, 2, 0x1, 3))
	require.NoError(t, err)
	require.NoError(t, h.router.Dispatch(h, inst))
	require.Len(t, ext.Calls, 1)
	assert.Equal(t, inst, ext.Calls[0])
}

func TestRouterFaultsOnInvalidSelector(t *testing.T) {
	h, ext := newTestHart(t)
	h.CX().Swap(999)

	inst, err := Decode(Encode(0x02, 1, 2, 0x1, 3))
	require.NoError(t, err)
	assert.ErrorIs(t, h.router.Dispatch(h, inst), cxerrors.ErrXIllegalInstruction)
	assert.Empty(t, ext.Calls)
}

func TestRouterPropagatesProviderError(t *testing.T) {
	h, ext := newTestHart(t)
	h.CX().Swap(3)

	boom := errors.New("provider fault")
	ext.ExecuteFn = func(h *Hart, inst Instruction) error { return boom }

	inst, err := Decode(Encode(0x00, 0, 0, 0x1, 0))
	require.NoError(t, err)
	assert.ErrorIs(t, h.router.Dispatch(h, inst), boom)
}

func TestRouterEmitsFaultEvent(t *testing.T) {
	cat, _, _ := newTestCatalog(t)
	rec := telemetry.NewRecorder()
	trace := telemetry.NewTraceClient(rec)
	router := NewRouter(cat, trace)
	h := NewHart(2, cat, router, trace)
	h.CX().Swap(999)

	inst, err := Decode(Encode(0x02, 1, 2, 0x1, 3))
	require.NoError(t, err)
	require.Error(t, router.Dispatch(h, inst))

	var sawFault bool
	for _, ev := range rec.Events() {
		if ev.Code == telemetry.Trace_Fault {
			sawFault = true
			assert.Equal(t, uint64(2), ev.HartID)
		}
	}
	assert.True(t, sawFault)
}
