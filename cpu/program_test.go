package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvcore/isa"
)

func sampleProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Pc: 0, Words: []string{"addi", "x1", "x0", "16"},
				Codes: []isa.Code{isa.MakeCode(isa.OP_ADDI, 1, 0, 0, 16)}},
			{LineNo: 2, Pc: 4, Words: []string{"li", "x2", "0x12345678"},
				Codes: []isa.Code{
					isa.MakeCode(isa.OP_LUI, 2, 0, 0, 0x12345000),
					isa.MakeCode(isa.OP_ADDI, 2, 2, 0, 0x678),
				}},
			{LineNo: 4, Pc: 12, Words: []string{"add", "x3", "x1", "x2"},
				Codes: []isa.Code{isa.MakeCode(isa.OP_ADD, 3, 1, 2, 0)}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := sampleProgram()

	table := [](struct {
		pc     uint64
		lineno int
		index  int
	}){
		{0, 1, 0},
		{4, 2, 0},
		{8, 2, 1},
		{12, 4, 0},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.pc)
		if assert.NotNil(dbg.Opcode, entry.pc) {
			assert.Equal(entry.lineno, dbg.Opcode.LineNo, entry.pc)
			assert.Equal(entry.index, dbg.Index, entry.pc)
		}
	}
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := sampleProgram()

	dbg := prog.Debug(16)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = (&Program{}).Debug(0)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := sampleProgram()

	bin := prog.Binary()
	assert.Equal(16, len(bin))
	assert.Equal([]byte{0x93, 0x00, 0x00, 0x01}, bin[0:4])
	assert.Equal([]byte{0x37, 0x51, 0x34, 0x12}, bin[4:8])
	assert.Equal([]byte{0xb3, 0x81, 0x20, 0x00}, bin[12:16])

	assert.Nil((&Program{}).Binary())
}

func TestProgram_Binary_Gap(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Pc: 8, Words: []string{".word", "0x11223344"},
				Codes: []isa.Code{0x11223344}},
		},
	}

	assert.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0x44, 0x33, 0x22, 0x11}, prog.Binary())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := sampleProgram()

	pcs := []uint64{}
	codes := []isa.Code{}
	for pc, code := range prog.Codes() {
		pcs = append(pcs, pc)
		codes = append(codes, code)
	}

	assert.Equal([]uint64{0, 4, 8, 12}, pcs)
	assert.Equal(4, len(codes))
	assert.Equal(isa.OP_LUI, codes[1].Decode())
	assert.Equal(isa.OP_ADDI, codes[2].Decode())
}

func TestProgram_Codes_EarlyReturn(t *testing.T) {
	assert := assert.New(t)

	prog := sampleProgram()

	count := 0
	for range prog.Codes() {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(2, count)
}

func TestProgram_Integration_ParseAndDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := strings.Join([]string{
		"li x1, 0x100",
		"li x2, 0x20000",
		"",
		"add x3, x1, x2",
	}, "\n")

	prog, err := asm.Parse(strings.NewReader(program))
	assert.NoError(err)

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)

	dbg = prog.Debug(8)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(12)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.Opcode.LineNo)

	assert.Equal(16, len(prog.Binary()))
}
