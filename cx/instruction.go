package cx

import (
	"fmt"

	"github.com/lojo/cxemu/cxerrors"
)

// CX-class instructions live on the RISC-V custom-0 major opcode. The
// selector swap is funct3=0/funct7=0; every other funct3/funct7
// combination on custom-0 belongs to the selected extension and is
// resolved by the router.
const (
	OpcodeCustom0 = 0x0B

	Funct3Setsel = 0x0
	Funct7Setsel = 0x00
)

// Instruction is one decoded CX-class instruction.
type Instruction struct {
	Raw    uint32
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Funct7 uint8
}

// Decode splits a 32-bit instruction word in R-type layout. Words off
// the custom-0 opcode are not this subsystem's to execute and are
// rejected before any CX state is consulted.
func Decode(raw uint32) (Instruction, error) {
	if raw&0x7F != OpcodeCustom0 {
		return Instruction{}, cxerrors.ErrXNotCxInstruction
	}
	return Instruction{
		Raw:    raw,
		Rd:     uint8(raw >> 7 & 0x1F),
		Funct3: uint8(raw >> 12 & 0x7),
		Rs1:    uint8(raw >> 15 & 0x1F),
		Rs2:    uint8(raw >> 20 & 0x1F),
		Funct7: uint8(raw >> 25 & 0x7F),
	}, nil
}

// IsSetsel reports whether inst is the selector swap, which is handled
// by the hart directly and never routed.
func (inst Instruction) IsSetsel() bool {
	return inst.Funct3 == Funct3Setsel && inst.Funct7 == Funct7Setsel
}

// Encode packs an R-type CX instruction word.
func Encode(funct7, rs2, rs1, funct3, rd uint8) uint32 {
	return uint32(funct7&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		OpcodeCustom0
}

// EncodeSetsel packs a cxsetsel rd, rs1 instruction word.
func EncodeSetsel(rd, rs1 uint8) uint32 {
	return Encode(Funct7Setsel, 0, rs1, Funct3Setsel, rd)
}

func (inst Instruction) String() string {
	if inst.IsSetsel() {
		return fmt.Sprintf("cxsetsel x%d, x%d", inst.Rd, inst.Rs1)
	}
	return fmt.Sprintf("cx.custom f3=%d f7=%d x%d, x%d, x%d",
		inst.Funct3, inst.Funct7, inst.Rd, inst.Rs1, inst.Rs2)
}
