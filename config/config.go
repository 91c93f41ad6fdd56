package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	"github.com/lojo/cxemu/cx"
	"github.com/lojo/cxemu/cxerrors"
)

// ExtensionSpec is one discovered extension: the platform discovery
// interface hands back a numeric selector and a state size for a GUID,
// and this is the file form of that answer.
type ExtensionSpec struct {
	GUID           string `json:"guid"`
	Name           string `json:"name,omitempty"`
	Selector       uint64 `json:"selector"`
	StateSizeWords uint32 `json:"state_size_words"`
}

// CatalogSpec configures the whole catalog for a run.
type CatalogSpec struct {
	BuiltinStateWords uint32          `json:"builtin_state_words"`
	Extensions        []ExtensionSpec `json:"extensions"`
}

// LoadCatalogSpec reads a catalog spec JSON file.
func LoadCatalogSpec(path string) (*CatalogSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec CatalogSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", cxerrors.ErrCMalformedExtension, err)
	}
	return &spec, nil
}

// Build populates a catalog from the spec. The spec carries identity and
// sizing only; in the simulator each third-party extension is backed by
// a local mock provider of the declared size.
func (s *CatalogSpec) Build() (*cx.Catalog, error) {
	words := s.BuiltinStateWords
	if words == 0 {
		words = cx.DefaultBuiltinStateWords
	}
	cat, err := cx.NewCatalog(cx.NewBuiltinExtension(words))
	if err != nil {
		return nil, err
	}
	for _, ext := range s.Extensions {
		guid, err := uuid.Parse(ext.GUID)
		if err != nil {
			return nil, fmt.Errorf("%w: guid %q: %v", cxerrors.ErrCMalformedExtension, ext.GUID, err)
		}
		err = cat.Register(cx.Descriptor{
			GUID:           guid,
			Name:           ext.Name,
			SelectorID:     ext.Selector,
			StateSizeWords: ext.StateSizeWords,
			Provider:       cx.NewMockExtension(ext.StateSizeWords),
		})
		if err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// Env carries the environment-variable defaults for the CLI.
type Env struct {
	LogLevel          string `env:"CXEMU_LOG_LEVEL" envDefault:"info"`
	DebugModules      string `env:"CXEMU_DEBUG_MODULES"`
	TelemetryEndpoint string `env:"CXEMU_TELEMETRY"`
	Harts             int    `env:"CXEMU_HARTS" envDefault:"1"`
}

// FromEnv parses the CXEMU_* environment variables.
func FromEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
