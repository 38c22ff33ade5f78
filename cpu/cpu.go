package cpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvcore/isa"
	"github.com/ezrec/rvcore/memory"
)

const (
	INSTRUCTION_SIZE = 4  // Bytes per instruction word.
	XLEN             = 32 // Architectural register width, in bits.
	PC_REGISTER      = 32 // RegisterString index of the program counter.
)

var _cpu_defines = map[string]string{
	"INSTRUCTION_SIZE": fmt.Sprintf("%v", INSTRUCTION_SIZE),
	"XLEN":             fmt.Sprintf("%v", XLEN),
}

// Memory is the memory the CPU fetches instructions from.
type Memory interface {
	Window(addr uint64) (view []byte, err error)
}

var _ Memory = (*memory.Memory)(nil)

// Cpu is the simulation context of a single hart.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Ticks   int  // Instructions executed since reset.

	pc       uint64                     // Address of the next instruction.
	register [isa.REGISTER_COUNT]int64 // Register file, x0 to x31.
	jumped   bool                       // Set when pc already holds the next target.
}

// NewCpu creates a CPU with all registers and the PC zeroed.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.register[:])
	cpu.pc = 0
	cpu.jumped = false
	cpu.Ticks = 0
}

// Pc returns the address of the next instruction.
func (cpu *Cpu) Pc() uint64 {
	return cpu.pc
}

// Register returns the value of register n.
func (cpu *Cpu) Register(n int) (value int64, err error) {
	if n < 0 || n >= len(cpu.register) {
		err = ErrRegisterIndex(n)
		return
	}

	value = cpu.register[n]
	return
}

// SetRegister sets register n. Writes to x0 are discarded.
func (cpu *Cpu) SetRegister(n int, value int64) (err error) {
	if n < 0 || n >= len(cpu.register) {
		err = ErrRegisterIndex(n)
		return
	}

	if n == 0 {
		return
	}

	cpu.register[n] = value
	return
}

// Registers iterates over the register file, x0 first.
func (cpu *Cpu) Registers() iter.Seq2[int, int64] {
	return func(yield func(n int, value int64) bool) {
		for n, value := range cpu.register {
			if !yield(n, value) {
				return
			}
		}
	}
}

// RegisterString returns "n:value" for a register, or "PC:value" for
// PC_REGISTER.
func (cpu *Cpu) RegisterString(n int) string {
	if n == PC_REGISTER {
		return fmt.Sprintf("PC:%d", cpu.pc)
	}

	value, err := cpu.Register(n)
	if err != nil {
		return err.Error()
	}

	return fmt.Sprintf("%d:%d", n, value)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("PC: %d", cpu.pc)
	for n, value := range cpu.Registers() {
		if n%4 == 0 {
			text += "\n"
		}
		text += fmt.Sprintf("%24s", fmt.Sprintf("R%d: 0x%016x", n, uint64(value)))
	}

	return
}

// AdvancePc moves the PC on by step bytes, unless the last executed
// instruction already set the PC to a jump target.
func (cpu *Cpu) AdvancePc(step uint64) {
	if cpu.jumped {
		cpu.jumped = false
		return
	}

	cpu.pc += step
}

// Fetch reads the little-endian instruction word at the PC.
func (cpu *Cpu) Fetch(mem Memory) (code isa.Code, err error) {
	view, err := mem.Window(cpu.pc)
	if err != nil {
		return
	}

	if len(view) < INSTRUCTION_SIZE {
		err = &memory.ErrAccess{Addr: cpu.pc, Size: INSTRUCTION_SIZE, Capacity: cpu.pc + uint64(len(view))}
		return
	}

	code = isa.Code(binary.LittleEndian.Uint32(view))
	return
}

// Tick fetches and executes a single instruction, then advances the PC.
// An all-zero instruction word halts with ErrHalt, leaving the PC on it.
func (cpu *Cpu) Tick(mem Memory) (err error) {
	code, err := cpu.Fetch(mem)
	if err != nil {
		return
	}

	if code == 0 {
		err = ErrHalt
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	cpu.AdvancePc(INSTRUCTION_SIZE)

	return
}

// Execute dispatches a single instruction word to its format handler.
// On error no register or PC change has been made.
func (cpu *Cpu) Execute(code isa.Code) (err error) {
	// A jump is only pending until the next instruction.
	pending := cpu.jumped
	cpu.jumped = false

	defer func() {
		if err != nil {
			cpu.jumped = pending
			err = errors.Join(ErrInstruction(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%08x: %08x %v", cpu.pc, uint32(code), code)
	}

	switch code.Opcode() {
	case isa.OPCODE_LUI, isa.OPCODE_AUIPC:
		err = cpu.executeU(code)
	case isa.OPCODE_OP_IMM:
		err = cpu.executeI(code)
	case isa.OPCODE_JAL:
		err = cpu.executeJ(code)
	case isa.OPCODE_OP:
		err = cpu.executeR(code)
	default:
		err = ErrUnknownInstruction
	}

	if err == nil {
		cpu.Ticks += 1
	}

	return
}

// sext32 truncates value to 32 bits, and sign extends it back to 64.
func sext32(value int64) int64 {
	return int64(int32(value))
}

// executeU handles lui and auipc.
func (cpu *Cpu) executeU(code isa.Code) (err error) {
	imm := int64(code.ImmU())

	var result int64
	switch code.Opcode() {
	case isa.OPCODE_LUI:
		result = imm
	case isa.OPCODE_AUIPC:
		result = sext32(imm + int64(cpu.pc))
	default:
		err = ErrUnknownInstruction
		return
	}

	return cpu.SetRegister(code.Rd(), result)
}

// executeI handles the register-immediate arithmetic and logic.
func (cpu *Cpu) executeI(code isa.Code) (err error) {
	rs1, err := cpu.Register(code.Rs1())
	if err != nil {
		return
	}
	rs1 = sext32(rs1)

	imm := int64(code.ImmI())
	shamt := code.Shamt()

	var result int64
	switch code.Funct3() {
	case isa.FUNCT3_ADD: // addi
		result = sext32(rs1 + imm)
	case isa.FUNCT3_SLT: // slti
		if rs1 < imm {
			result = 1
		}
	case isa.FUNCT3_SLTU: // sltiu
		if uint32(rs1) < code.ImmIUnsigned() {
			result = 1
		}
	case isa.FUNCT3_XOR: // xori
		result = rs1 ^ imm
	case isa.FUNCT3_OR: // ori
		result = rs1 | imm
	case isa.FUNCT3_AND: // andi
		result = rs1 & imm
	case isa.FUNCT3_SLL: // slli
		result = sext32(int64(uint32(rs1) << shamt))
	case isa.FUNCT3_SR:
		// Bit 25 is the top of the shift field; only funct7[6:1] selects.
		switch code.Funct7() >> 1 {
		case isa.FUNCT7_BASE >> 1: // srli
			result = sext32(int64(uint32(rs1) >> shamt))
		case isa.FUNCT7_ALT >> 1: // srai
			result = int64(int32(rs1) >> shamt)
		default:
			err = ErrUnknownInstruction
			return
		}
	default:
		err = ErrUnknownInstruction
		return
	}

	return cpu.SetRegister(code.Rd(), result)
}

// executeJ handles jal.
func (cpu *Cpu) executeJ(code isa.Code) (err error) {
	if code.Opcode() != isa.OPCODE_JAL {
		err = ErrUnknownInstruction
		return
	}

	target := int64(cpu.pc) + int64(code.ImmJ())
	if target < 0 {
		err = errors.Join(ErrPcRange, memory.ErrOutOfBounds)
		return
	}

	err = cpu.SetRegister(code.Rd(), sext32(int64(cpu.pc)+INSTRUCTION_SIZE))
	if err != nil {
		return
	}

	cpu.pc = uint64(target)
	cpu.jumped = true

	return
}

// executeR handles the register-register arithmetic.
func (cpu *Cpu) executeR(code isa.Code) (err error) {
	rs1, err := cpu.Register(code.Rs1())
	if err != nil {
		return
	}
	rs2, err := cpu.Register(code.Rs2())
	if err != nil {
		return
	}
	rs1, rs2 = sext32(rs1), sext32(rs2)

	if code.Funct3() != isa.FUNCT3_ADD {
		err = ErrUnknownInstruction
		return
	}

	var result int64
	switch code.Funct7() {
	case isa.FUNCT7_BASE: // add
		result = sext32(rs1 + rs2)
	case isa.FUNCT7_ALT: // sub
		result = sext32(rs1 - rs2)
	default:
		err = ErrUnknownInstruction
		return
	}

	return cpu.SetRegister(code.Rd(), result)
}
