package cpu

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvcore/isa"
)

// snapshot captures the architectural state.
func snapshot(cpu *Cpu) (pc uint64, regs []int64) {
	pc = cpu.Pc()
	for _, value := range cpu.Registers() {
		regs = append(regs, value)
	}
	return
}

func FuzzCpu(f *testing.F) {
	for _, op := range isa.Mnemonics() {
		f.Add(uint32(isa.MakeCode(op, 1, 2, 3, 1)), uint32(0x100), int64(7))
		f.Add(uint32(isa.MakeCode(op, 0, 31, 31, -1)), uint32(0), int64(-1))
	}
	f.Add(uint32(0x0000_007f), uint32(0), int64(0))
	f.Add(uint32(0xffff_ffff), uint32(0x40), int64(0x7fffffff))

	f.Fuzz(func(t *testing.T, word uint32, start uint32, seed int64) {
		assert := assert.New(t)

		code := isa.Code(word)
		rng := rand.New(rand.NewSource(seed))

		cpu := NewCpu()
		for n := 1; n < isa.REGISTER_COUNT; n++ {
			assert.NoError(cpu.SetRegister(n, int64(int32(rng.Uint32()))))
		}

		// Move the PC to an aligned start address.
		jump := isa.MakeCode(isa.OP_JAL, 0, 0, 0, int32(start&0xffffc))
		assert.NoError(cpu.Execute(jump))
		cpu.AdvancePc(INSTRUCTION_SIZE)
		ticks := cpu.Ticks

		pc, regs := snapshot(cpu)

		err := cpu.Execute(code)
		if err == nil {
			cpu.AdvancePc(INSTRUCTION_SIZE)
		}

		after_pc, after_regs := snapshot(cpu)
		assert.Equal(int64(0), after_regs[0])

		if code.Decode() == isa.OP_INVALID {
			assert.ErrorIs(err, ErrUnknownInstruction, code.String())
		}

		if err != nil {
			assert.True(errors.Is(err, ErrInstruction(code)))
			assert.Equal(pc, after_pc)
			assert.Equal(regs, after_regs)
			assert.Equal(ticks, cpu.Ticks)
			return
		}

		assert.Equal(ticks+1, cpu.Ticks)

		// At most rd changed.
		rd := code.Rd()
		for n := range regs {
			if n != rd {
				assert.Equal(regs[n], after_regs[n], "x%d", n)
			}
		}

		// Every result is a sign extended 32 bit value.
		assert.Equal(int64(int32(after_regs[rd])), after_regs[rd])

		if code.Opcode() == isa.OPCODE_JAL {
			assert.Equal(uint64(int64(pc)+int64(code.ImmJ())), after_pc)
			if rd != 0 {
				assert.Equal(int64(pc)+INSTRUCTION_SIZE, after_regs[rd])
			}
		} else {
			assert.Equal(pc+INSTRUCTION_SIZE, after_pc)
		}

		// Execution is deterministic.
		replay := NewCpu()
		for n, value := range regs {
			assert.NoError(replay.SetRegister(n, value))
		}
		assert.NoError(replay.Execute(jump))
		replay.AdvancePc(INSTRUCTION_SIZE)
		assert.NoError(replay.Execute(code))
		replay.AdvancePc(INSTRUCTION_SIZE)
		_, replay_regs := snapshot(replay)
		assert.True(slices.Equal(after_regs, replay_regs))
	})
}
