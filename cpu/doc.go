// Package cpu implements the execution engine and assembler for a subset of
// the RV32I base integer instruction set.
//
// The CPU holds 32 general-purpose registers and a program counter. Register
// x0 is hard-wired to zero. Each register is 64 bits wide, but every result is
// computed on 32 bits and sign extended, as an RV32 hart would hold it.
//
// A step is Fetch, Execute, then AdvancePc. Execute either commits the whole
// effect of an instruction or nothing at all; instructions outside of the
// supported subset fail with ErrUnknownInstruction.
//
// The assembler accepts the same subset in the usual RISC-V syntax, with
// labels, equates, and compile-time $(...) expressions.
package cpu
