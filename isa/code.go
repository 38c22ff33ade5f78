package isa

// Code is a single 32-bit instruction word.
type Code uint32

// Opcode returns bits [6:0].
func (code Code) Opcode() CodeOpcode {
	return CodeOpcode(uint32(code) & 0x7f)
}

// Rd returns the destination register, bits [11:7].
func (code Code) Rd() int {
	return int((uint32(code) >> 7) & 0x1f)
}

// Funct3 returns bits [14:12].
func (code Code) Funct3() uint32 {
	return (uint32(code) >> 12) & 0x7
}

// Rs1 returns the first source register, bits [19:15].
func (code Code) Rs1() int {
	return int((uint32(code) >> 15) & 0x1f)
}

// Rs2 returns the second source register, bits [24:20].
func (code Code) Rs2() int {
	return int((uint32(code) >> 20) & 0x1f)
}

// Funct7 returns bits [31:25].
func (code Code) Funct7() uint32 {
	return uint32(code) >> 25
}

// ImmU returns the U-type immediate: bits [31:12] in place, low 12 bits zero.
func (code Code) ImmU() int32 {
	return (int32(code) >> 12) << 12
}

// ImmI returns the sign extended I-type immediate, bits [31:20].
func (code Code) ImmI() int32 {
	return int32(code) >> 20
}

// ImmIUnsigned returns the zero extended I-type immediate, bits [31:20].
func (code Code) ImmIUnsigned() uint32 {
	return (uint32(code) >> 20) & 0xfff
}

// Shamt returns the shift amount of an I-type shift, masked to 5 bits.
func (code Code) Shamt() uint32 {
	return code.ImmIUnsigned() & 0x1f
}

// ImmJ returns the sign extended J-type offset.
// The offset is scattered over the word as imm[20|10:1|11|19:12],
// and bit 0 is never encoded.
func (code Code) ImmJ() int32 {
	word := uint32(code)

	imm20 := (word >> 31) & 0x1
	imm10_1 := (word >> 21) & 0x3ff
	imm11 := (word >> 20) & 0x1
	imm19_12 := (word >> 12) & 0xff

	imm := (imm20 << 20) | (imm19_12 << 12) | (imm11 << 11) | (imm10_1 << 1)
	if (imm & (1 << 20)) != 0 {
		imm |= ^uint32(0x1fffff)
	}

	return int32(imm)
}
