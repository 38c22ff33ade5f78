package cpu

import (
	"encoding/binary"
	"iter"

	"github.com/ezrec/rvcore/isa"
)

// Opcode represents a line of assembled code with its source location and
// generated instructions.
type Opcode struct {
	LineNo    int
	Pc        uint64
	Words     []string
	Codes     []isa.Code
	LinkLabel string
}

// End returns the address following the last instruction of the opcode.
func (op *Opcode) End() uint64 {
	return op.Pc + uint64(len(op.Codes))*INSTRUCTION_SIZE
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates an instruction within the listing.
type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode holding the instruction at pc.
// If none does, the returned Opcode is nil.
func (prog *Program) Debug(pc uint64) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.End() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int((pc - op.Pc) / INSTRUCTION_SIZE),
			}
			break
		}
	}

	return
}

// Codes iterates over each instruction and its address.
func (prog *Program) Codes() iter.Seq2[uint64, isa.Code] {
	return func(yield func(pc uint64, code isa.Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Pc+uint64(n)*INSTRUCTION_SIZE, code) {
					return
				}
			}
		}
	}
}

// Binary returns the memory image of the program: little-endian words, each
// at its address.
func (prog *Program) Binary() (bin []byte) {
	for pc, code := range prog.Codes() {
		end := int(pc) + INSTRUCTION_SIZE
		if end > len(bin) {
			bin = append(bin, make([]byte, end-len(bin))...)
		}
		binary.LittleEndian.PutUint32(bin[pc:], uint32(code))
	}

	return
}
