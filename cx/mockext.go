package cx

// MockExtension implements the Provider interface with scriptable
// behavior for tests and the demo console.
type MockExtension struct {
	state []uint64

	// ExecuteFn, when set, handles routed instructions; otherwise every
	// instruction completes successfully.
	ExecuteFn func(h *Hart, inst Instruction) error

	// Calls records every instruction routed here, in order.
	Calls []Instruction
}

func NewMockExtension(words uint32) *MockExtension {
	return &MockExtension{state: make([]uint64, words)}
}

func (m *MockExtension) StateSize() uint32 {
	return uint32(len(m.state))
}

func (m *MockExtension) ReadStateWord(i uint32) uint64 {
	return m.state[i]
}

func (m *MockExtension) WriteStateWord(i uint32, v uint64) {
	m.state[i] = v
}

func (m *MockExtension) Execute(h *Hart, inst Instruction) error {
	m.Calls = append(m.Calls, inst)
	if m.ExecuteFn != nil {
		return m.ExecuteFn(h, inst)
	}
	return nil
}
