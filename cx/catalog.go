package cx

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xlab/treeprint"
	"golang.org/x/exp/slices"

	"github.com/lojo/cxemu/cxerrors"
	"github.com/lojo/cxemu/log"
)

const (
	// SelBuiltin selects the built-in extension. Always resolvable.
	SelBuiltin uint64 = 0

	// SelInvalid is the all-ones WARL narrowing target for unrecognized
	// selector values. Never resolvable, never registrable.
	SelInvalid uint64 = ^uint64(0)
)

// Descriptor identifies one registered extension. Immutable after
// registration; the catalog owns every descriptor.
type Descriptor struct {
	GUID           uuid.UUID
	Name           string
	SelectorID     uint64
	StateSizeWords uint32
	Provider       Provider
}

// Catalog is the configuration-time table of known extensions. It is
// read-only after configuration and safe to share across harts without
// synchronization.
type Catalog struct {
	bySelector map[uint64]*Descriptor
	byGUID     map[uuid.UUID]*Descriptor
}

// NewCatalog builds a catalog with builtin registered under selector 0.
func NewCatalog(builtin Provider) (*Catalog, error) {
	if builtin == nil {
		return nil, cxerrors.ErrCNilProvider
	}
	c := &Catalog{
		bySelector: make(map[uint64]*Descriptor),
		byGUID:     make(map[uuid.UUID]*Descriptor),
	}
	d := &Descriptor{
		GUID:           uuid.Nil,
		Name:           "builtin",
		SelectorID:     SelBuiltin,
		StateSizeWords: builtin.StateSize(),
		Provider:       builtin,
	}
	c.bySelector[SelBuiltin] = d
	c.byGUID[uuid.Nil] = d
	return c, nil
}

// Register adds one third-party extension. Configuration-time only; all
// failures here are fatal to configuration, never to execution.
func (c *Catalog) Register(d Descriptor) error {
	switch {
	case d.SelectorID == SelBuiltin:
		return cxerrors.ErrCReservedSelector
	case d.SelectorID == SelInvalid:
		return cxerrors.ErrCInvalidSelector
	case d.Provider == nil:
		return cxerrors.ErrCNilProvider
	case d.Provider.StateSize() != d.StateSizeWords:
		return fmt.Errorf("%w: descriptor %d words, provider %d words",
			cxerrors.ErrCStateSizeMismatch, d.StateSizeWords, d.Provider.StateSize())
	}
	if _, ok := c.bySelector[d.SelectorID]; ok {
		return fmt.Errorf("%w: selector %d", cxerrors.ErrCDuplicateSelector, d.SelectorID)
	}
	if _, ok := c.byGUID[d.GUID]; ok {
		return fmt.Errorf("%w: guid %s", cxerrors.ErrCDuplicateGUID, d.GUID)
	}
	reg := d
	c.bySelector[reg.SelectorID] = &reg
	c.byGUID[reg.GUID] = &reg
	log.Debug(log.CatalogMonitoring, "extension registered",
		"guid", reg.GUID.String(), "selector", reg.SelectorID, "words", reg.StateSizeWords)
	return nil
}

// LookupBySelector resolves a selector id to its descriptor.
func (c *Catalog) LookupBySelector(id uint64) (*Descriptor, error) {
	d, ok := c.bySelector[id]
	if !ok {
		return nil, cxerrors.ErrCSelectorNotFound
	}
	return d, nil
}

// LookupByGUID resolves an extension GUID, the consumer side of the
// platform discovery interface.
func (c *Catalog) LookupByGUID(g uuid.UUID) (*Descriptor, error) {
	d, ok := c.byGUID[g]
	if !ok {
		return nil, cxerrors.ErrCGUIDNotFound
	}
	return d, nil
}

// IsValid reports whether id names a registered extension.
func (c *Catalog) IsValid(id uint64) bool {
	_, ok := c.bySelector[id]
	return ok
}

// StateSize returns the word count of the extension registered under
// id, or 0 for an unknown selector.
func (c *Catalog) StateSize(id uint64) uint32 {
	d, ok := c.bySelector[id]
	if !ok {
		return 0
	}
	return d.StateSizeWords
}

// Selectors returns every registered selector id in ascending order.
func (c *Catalog) Selectors() []uint64 {
	out := make([]uint64, 0, len(c.bySelector))
	for id := range c.bySelector {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (c *Catalog) ToTree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("catalog (%d extensions)", len(c.bySelector)))
	for _, id := range c.Selectors() {
		d := c.bySelector[id]
		tree.AddNode(fmt.Sprintf("selector %d: %s guid=%s words=%d",
			d.SelectorID, d.Name, d.GUID, d.StateSizeWords))
	}
	return tree
}
