package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojo/cxemu/cx"
	"github.com/lojo/cxemu/cxerrors"
)

func TestLoadCatalogSpec(t *testing.T) {
	spec, err := LoadCatalogSpec(filepath.Join("testdata", "extensions.json"))
	require.NoError(t, err)

	assert.Equal(t, uint32(4), spec.BuiltinStateWords)
	require.Len(t, spec.Extensions, 2)
	assert.Equal(t, uint64(3), spec.Extensions[0].Selector)
	assert.Equal(t, uint32(8), spec.Extensions[0].StateSizeWords)
}

func TestBuildCatalog(t *testing.T) {
	spec, err := LoadCatalogSpec(filepath.Join("testdata", "extensions.json"))
	require.NoError(t, err)

	cat, err := spec.Build()
	require.NoError(t, err)

	assert.True(t, cat.IsValid(cx.SelBuiltin))
	assert.True(t, cat.IsValid(3))
	assert.True(t, cat.IsValid(5))
	assert.False(t, cat.IsValid(7))
	assert.Equal(t, uint32(8), cat.StateSize(3))
}

func TestBuildRejectsBadGUID(t *testing.T) {
	spec := &CatalogSpec{Extensions: []ExtensionSpec{{GUID: "not-a-guid", Selector: 3, StateSizeWords: 1}}}
	_, err := spec.Build()
	assert.ErrorIs(t, err, cxerrors.ErrCMalformedExtension)
}

func TestBuildRejectsDuplicateSelector(t *testing.T) {
	spec := &CatalogSpec{Extensions: []ExtensionSpec{
		{GUID: "5a11f2a0-1111-4222-8333-444455556666", Selector: 3, StateSizeWords: 1},
		{GUID: "5a11f2a0-7777-4888-8999-aaaabbbbcccc", Selector: 3, StateSizeWords: 1},
	}}
	_, err := spec.Build()
	assert.ErrorIs(t, err, cxerrors.ErrCDuplicateSelector)
}

func TestBuildDefaultsBuiltinSize(t *testing.T) {
	spec := &CatalogSpec{}
	cat, err := spec.Build()
	require.NoError(t, err)
	assert.Equal(t, uint32(cx.DefaultBuiltinStateWords), cat.StateSize(cx.SelBuiltin))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CXEMU_LOG_LEVEL", "debug")
	t.Setenv("CXEMU_HARTS", "4")

	e, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", e.LogLevel)
	assert.Equal(t, 4, e.Harts)
}
