package isa

import (
	"fmt"
)

// CodeOpcode is the major opcode held in the low 7 bits of a Code.
type CodeOpcode uint32

const (
	OPCODE_LUI    = CodeOpcode(0b0110111) // Load upper immediate.
	OPCODE_AUIPC  = CodeOpcode(0b0010111) // Add upper immediate to PC.
	OPCODE_OP_IMM = CodeOpcode(0b0010011) // Register-immediate arithmetic.
	OPCODE_JAL    = CodeOpcode(0b1101111) // Jump and link.
	OPCODE_OP     = CodeOpcode(0b0110011) // Register-register arithmetic.
)

// Function codes of the OP-IMM and OP opcodes.
const (
	FUNCT3_ADD  = uint32(0b000)
	FUNCT3_SLL  = uint32(0b001)
	FUNCT3_SLT  = uint32(0b010)
	FUNCT3_SLTU = uint32(0b011)
	FUNCT3_XOR  = uint32(0b100)
	FUNCT3_SR   = uint32(0b101)
	FUNCT3_OR   = uint32(0b110)
	FUNCT3_AND  = uint32(0b111)

	FUNCT7_BASE = uint32(0b0000000)
	FUNCT7_ALT  = uint32(0b0100000) // sub, srai
)

// Format is an instruction encoding layout.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_NONE = Format(0) // -
	FORMAT_U    = Format(1) // u
	FORMAT_I    = Format(2) // i
	FORMAT_J    = Format(3) // j
	FORMAT_R    = Format(4) // r
)

// Mnemonic is a decoded operation.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	OP_INVALID = Mnemonic(0)  // invalid
	OP_LUI     = Mnemonic(1)  // lui
	OP_AUIPC   = Mnemonic(2)  // auipc
	OP_JAL     = Mnemonic(3)  // jal
	OP_ADDI    = Mnemonic(4)  // addi
	OP_SLTI    = Mnemonic(5)  // slti
	OP_SLTIU   = Mnemonic(6)  // sltiu
	OP_XORI    = Mnemonic(7)  // xori
	OP_ORI     = Mnemonic(8)  // ori
	OP_ANDI    = Mnemonic(9)  // andi
	OP_SLLI    = Mnemonic(10) // slli
	OP_SRLI    = Mnemonic(11) // srli
	OP_SRAI    = Mnemonic(12) // srai
	OP_ADD     = Mnemonic(13) // add
	OP_SUB     = Mnemonic(14) // sub
)

// encoding is the fixed part of a mnemonic's instruction word.
type encoding struct {
	format Format
	opcode CodeOpcode
	funct3 uint32
	funct7 uint32
}

var encodings = [...]encoding{
	OP_INVALID: {FORMAT_NONE, 0, 0, 0},
	OP_LUI:     {FORMAT_U, OPCODE_LUI, 0, 0},
	OP_AUIPC:   {FORMAT_U, OPCODE_AUIPC, 0, 0},
	OP_JAL:     {FORMAT_J, OPCODE_JAL, 0, 0},
	OP_ADDI:    {FORMAT_I, OPCODE_OP_IMM, FUNCT3_ADD, 0},
	OP_SLTI:    {FORMAT_I, OPCODE_OP_IMM, FUNCT3_SLT, 0},
	OP_SLTIU:   {FORMAT_I, OPCODE_OP_IMM, FUNCT3_SLTU, 0},
	OP_XORI:    {FORMAT_I, OPCODE_OP_IMM, FUNCT3_XOR, 0},
	OP_ORI:     {FORMAT_I, OPCODE_OP_IMM, FUNCT3_OR, 0},
	OP_ANDI:    {FORMAT_I, OPCODE_OP_IMM, FUNCT3_AND, 0},
	OP_SLLI:    {FORMAT_I, OPCODE_OP_IMM, FUNCT3_SLL, FUNCT7_BASE},
	OP_SRLI:    {FORMAT_I, OPCODE_OP_IMM, FUNCT3_SR, FUNCT7_BASE},
	OP_SRAI:    {FORMAT_I, OPCODE_OP_IMM, FUNCT3_SR, FUNCT7_ALT},
	OP_ADD:     {FORMAT_R, OPCODE_OP, FUNCT3_ADD, FUNCT7_BASE},
	OP_SUB:     {FORMAT_R, OPCODE_OP, FUNCT3_ADD, FUNCT7_ALT},
}

// Format returns the encoding layout of the mnemonic.
func (op Mnemonic) Format() Format {
	if op < 0 || int(op) >= len(encodings) {
		return FORMAT_NONE
	}
	return encodings[op].format
}

// Shift returns true for the immediate shift mnemonics.
func (op Mnemonic) Shift() bool {
	return op == OP_SLLI || op == OP_SRLI || op == OP_SRAI
}

// Mnemonics returns every valid mnemonic, in encoding order.
func Mnemonics() (ops []Mnemonic) {
	for op := range encodings {
		if op != int(OP_INVALID) {
			ops = append(ops, Mnemonic(op))
		}
	}
	return
}

// LookupMnemonic finds a mnemonic by its assembly name.
func LookupMnemonic(name string) (op Mnemonic, ok bool) {
	for _, op = range Mnemonics() {
		if op.String() == name {
			ok = true
			return
		}
	}

	op = OP_INVALID
	return
}

// MakeCodeU creates a U-type instruction. The low 12 bits of imm are dropped.
func MakeCodeU(opcode CodeOpcode, rd int, imm int32) Code {
	return Code((uint32(imm) & 0xfffff000) | (uint32(rd&0x1f) << 7) | uint32(opcode))
}

// MakeCodeI creates an OP-IMM instruction with a 12-bit immediate.
func MakeCodeI(funct3 uint32, rd, rs1 int, imm int32) Code {
	return Code(((uint32(imm) & 0xfff) << 20) |
		(uint32(rs1&0x1f) << 15) |
		((funct3 & 0x7) << 12) |
		(uint32(rd&0x1f) << 7) |
		uint32(OPCODE_OP_IMM))
}

// MakeCodeIShift creates an OP-IMM shift. The shift field is written six bits
// wide, so a shamt above 31 spills into the lowest bit of funct7.
func MakeCodeIShift(funct3, funct7 uint32, rd, rs1 int, shamt uint32) Code {
	return MakeCodeI(funct3, rd, rs1, int32((funct7<<5)|(shamt&0x3f)))
}

// MakeCodeJ creates a J-type instruction. Bit 0 of offset is dropped.
func MakeCodeJ(rd int, offset int32) Code {
	imm := uint32(offset)

	imm20 := (imm >> 20) & 0x1
	imm10_1 := (imm >> 1) & 0x3ff
	imm11 := (imm >> 11) & 0x1
	imm19_12 := (imm >> 12) & 0xff

	return Code((imm20 << 31) |
		(imm10_1 << 21) |
		(imm11 << 20) |
		(imm19_12 << 12) |
		(uint32(rd&0x1f) << 7) |
		uint32(OPCODE_JAL))
}

// MakeCodeR creates an OP instruction.
func MakeCodeR(funct3, funct7 uint32, rd, rs1, rs2 int) Code {
	return Code(((funct7 & 0x7f) << 25) |
		(uint32(rs2&0x1f) << 20) |
		(uint32(rs1&0x1f) << 15) |
		((funct3 & 0x7) << 12) |
		(uint32(rd&0x1f) << 7) |
		uint32(OPCODE_OP))
}

// MakeCode creates the instruction for op. Operands that op does not use are
// ignored; for shifts imm is the shift amount.
func MakeCode(op Mnemonic, rd, rs1, rs2 int, imm int32) (code Code) {
	if op <= OP_INVALID || int(op) >= len(encodings) {
		return
	}

	enc := encodings[op]
	switch {
	case enc.format == FORMAT_U:
		code = MakeCodeU(enc.opcode, rd, imm)
	case enc.format == FORMAT_J:
		code = MakeCodeJ(rd, imm)
	case enc.format == FORMAT_R:
		code = MakeCodeR(enc.funct3, enc.funct7, rd, rs1, rs2)
	case op.Shift():
		code = MakeCodeIShift(enc.funct3, enc.funct7, rd, rs1, uint32(imm))
	default:
		code = MakeCodeI(enc.funct3, rd, rs1, imm)
	}

	return
}

// Decode classifies the instruction word. Words outside of the supported
// subset decode as OP_INVALID.
func (code Code) Decode() Mnemonic {
	switch code.Opcode() {
	case OPCODE_LUI:
		return OP_LUI
	case OPCODE_AUIPC:
		return OP_AUIPC
	case OPCODE_JAL:
		return OP_JAL
	case OPCODE_OP_IMM:
		switch code.Funct3() {
		case FUNCT3_ADD:
			return OP_ADDI
		case FUNCT3_SLT:
			return OP_SLTI
		case FUNCT3_SLTU:
			return OP_SLTIU
		case FUNCT3_XOR:
			return OP_XORI
		case FUNCT3_OR:
			return OP_ORI
		case FUNCT3_AND:
			return OP_ANDI
		case FUNCT3_SLL:
			return OP_SLLI
		case FUNCT3_SR:
			// Bit 25 belongs to the shift field, not the function.
			switch code.Funct7() >> 1 {
			case FUNCT7_BASE >> 1:
				return OP_SRLI
			case FUNCT7_ALT >> 1:
				return OP_SRAI
			}
		}
	case OPCODE_OP:
		if code.Funct3() == FUNCT3_ADD {
			switch code.Funct7() {
			case FUNCT7_BASE:
				return OP_ADD
			case FUNCT7_ALT:
				return OP_SUB
			}
		}
	}

	return OP_INVALID
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Decode()

	switch {
	case op == OP_INVALID:
		out = fmt.Sprintf(".word 0x%08x", uint32(code))
	case op.Format() == FORMAT_U:
		out = fmt.Sprintf("%v x%d, %#x", op, code.Rd(), uint32(code.ImmU())>>12)
	case op.Format() == FORMAT_J:
		out = fmt.Sprintf("%v x%d, %d", op, code.Rd(), code.ImmJ())
	case op.Format() == FORMAT_R:
		out = fmt.Sprintf("%v x%d, x%d, x%d", op, code.Rd(), code.Rs1(), code.Rs2())
	case op.Shift():
		out = fmt.Sprintf("%v x%d, x%d, %d", op, code.Rd(), code.Rs1(), code.Shamt())
	default:
		out = fmt.Sprintf("%v x%d, x%d, %d", op, code.Rd(), code.Rs1(), code.ImmI())
	}

	return
}
