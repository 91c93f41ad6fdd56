package cx

// DefaultBuiltinStateWords is the state size the built-in extension
// exposes unless configured otherwise.
const DefaultBuiltinStateWords = 4

// BuiltinExtension backs selector 0. Its instruction semantics are out
// of scope for the register subsystem: every routed instruction retires
// successfully, and the only observable effect is the retirement count.
// Its state words exist purely to exercise the indexed access protocol.
type BuiltinExtension struct {
	state   []uint64
	retired uint64
}

func NewBuiltinExtension(words uint32) *BuiltinExtension {
	return &BuiltinExtension{state: make([]uint64, words)}
}

func (b *BuiltinExtension) StateSize() uint32 {
	return uint32(len(b.state))
}

func (b *BuiltinExtension) ReadStateWord(i uint32) uint64 {
	return b.state[i]
}

func (b *BuiltinExtension) WriteStateWord(i uint32, v uint64) {
	b.state[i] = v
}

func (b *BuiltinExtension) Execute(h *Hart, inst Instruction) error {
	b.retired++
	return nil
}

// Retired returns how many routed instructions the built-in has seen.
func (b *BuiltinExtension) Retired() uint64 {
	return b.retired
}
