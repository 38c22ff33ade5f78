// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/rvcore/isa"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":           "0",
	"INSTRUCTION_SIZE": fmt.Sprintf("%v", INSTRUCTION_SIZE),
	"XLEN":             fmt.Sprintf("%v", XLEN),
}

// Assembler is a single pass assembler for the supported RV32I subset.
//
// Each line holds an optional "label:", then an instruction with comma or
// space separated operands. Comments start with ';' or '#'.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]uint64 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// immediate parses word as a value in [lo, hi].
func (asm *Assembler) immediate(word string, lo, hi int64) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	if value < lo || value > hi {
		err = ErrImmediate(word)
		return
	}

	return
}

// register parses a register name.
func (asm *Assembler) register(word string) (n int, err error) {
	n, ok := isa.LookupRegister(word)
	if !ok {
		err = ErrRegisterWord(word)
		return
	}

	return
}

// registers parses each word as a register.
func (asm *Assembler) registers(words ...string) (regs []int, err error) {
	for _, word := range words {
		var n int
		n, err = asm.register(word)
		if err != nil {
			return
		}
		regs = append(regs, n)
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeUint64(pc)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	reParen   = regexp.MustCompile(`\$\([^\$]*\)`)
	reComment = regexp.MustCompile(`[;#].*$`)
)

// parseLine expands a line of text into words, and records any labels or
// equates it defines.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint64, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentPc gets the address of the next instruction to assemble.
func (asm *Assembler) currentPc() uint64 {
	if len(asm.Opcode) == 0 {
		return 0
	}

	return asm.Opcode[len(asm.Opcode)-1].End()
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(reComment.ReplaceAllString(text, ""))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		target, ok := asm.Label[label]
		if !ok {
			lineno, line = op.LineNo, strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		linked := &op.Codes[len(op.Codes)-1]
		offset := int64(target) - int64(op.Pc)
		if offset < -0x100000 || offset >= 0x100000 {
			lineno, line = op.LineNo, strings.Join(op.Words, " ")
			err = ErrImmediate(label)
			return
		}
		*linked = isa.MakeCodeJ(linked.Rd(), int32(offset))
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// operands checks that exactly count operands follow the mnemonic.
func operands(words []string, count int) (err error) {
	switch {
	case len(words)-1 < count:
		err = ErrOpcodeValueMissing
	case len(words)-1 > count:
		err = ErrOpcodeExtraArgs
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []isa.Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Pc: asm.currentPc(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// Pseudo-instruction substitutions
	switch {
	case len(words) == 1 && words[0] == "nop":
		words = []string{"addi", "x0", "x0", "0"}
	case len(words) == 3 && words[0] == "mv":
		words = []string{"addi", words[1], words[2], "0"}
	case len(words) == 3 && words[0] == "not":
		words = []string{"xori", words[1], words[2], "-1"}
	case len(words) == 3 && words[0] == "neg":
		words = []string{"sub", words[1], "x0", words[2]}
	case len(words) == 3 && words[0] == "seqz":
		words = []string{"sltiu", words[1], words[2], "1"}
	case len(words) == 2 && words[0] == "j":
		words = []string{"jal", "x0", words[1]}
	case len(words) == 2 && words[0] == "jal":
		words = []string{"jal", "ra", words[1]}
	case len(words) == 1 && words[0] == "halt":
		words = []string{".word", "0"}
	default:
		// unchanged
	}

	switch words[0] {
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value int64
			value, err = asm.immediate(word, -0x80000000, 0xffffffff)
			if err != nil {
				return
			}
			codes = append(codes, isa.Code(uint32(value)))
		}
		return
	case "li":
		err = operands(words, 2)
		if err != nil {
			return
		}
		var rd int
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		var value int64
		value, err = asm.immediate(words[2], -0x80000000, 0xffffffff)
		if err != nil {
			return
		}
		value = int64(int32(value))
		if value >= -2048 && value <= 2047 {
			codes = append(codes, isa.MakeCode(isa.OP_ADDI, rd, 0, 0, int32(value)))
			return
		}
		// Round the upper part so the sign extended lower part adds back.
		hi := (value + 0x800) >> 12
		lo := value - (hi << 12)
		codes = append(codes,
			isa.MakeCode(isa.OP_LUI, rd, 0, 0, int32(hi<<12)),
			isa.MakeCode(isa.OP_ADDI, rd, rd, 0, int32(lo)),
		)
		return
	}

	op, ok := isa.LookupMnemonic(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	var code isa.Code
	switch op.Format() {
	case isa.FORMAT_U:
		err = operands(words, 2)
		if err != nil {
			return
		}
		var rd int
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		var imm int64
		imm, err = asm.immediate(words[2], -0x80000, 0xfffff)
		if err != nil {
			return
		}
		code = isa.MakeCode(op, rd, 0, 0, int32(imm<<12))
	case isa.FORMAT_J:
		err = operands(words, 2)
		if err != nil {
			return
		}
		var rd int
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		offset, perr := asm.immediate(words[2], -0x100000, 0xffffe)
		switch {
		case perr == nil:
			code = isa.MakeCode(op, rd, 0, 0, int32(offset))
		case errors.Is(perr, ErrImmediateRange):
			err = perr
			return
		default:
			// Resolved once every label is known.
			label = words[2]
			code = isa.MakeCode(op, rd, 0, 0, 0)
		}
	case isa.FORMAT_R:
		err = operands(words, 3)
		if err != nil {
			return
		}
		var regs []int
		regs, err = asm.registers(words[1:]...)
		if err != nil {
			return
		}
		code = isa.MakeCode(op, regs[0], regs[1], regs[2], 0)
	case isa.FORMAT_I:
		err = operands(words, 3)
		if err != nil {
			return
		}
		var regs []int
		regs, err = asm.registers(words[1:3]...)
		if err != nil {
			return
		}
		lo, hi := int64(-2048), int64(2047)
		if op.Shift() {
			lo, hi = 0, XLEN-1
		}
		var imm int64
		imm, err = asm.immediate(words[3], lo, hi)
		if err != nil {
			return
		}
		code = isa.MakeCode(op, regs[0], regs[1], 0, int32(imm))
	default:
		err = ErrInstructionInvalid
		return
	}

	codes = append(codes, code)

	return
}
