// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/internal"
	"github.com/ezrec/rvcore/isa"
	"github.com/ezrec/rvcore/memory"
)

const (
	RESET_PC = 0 // Address of the first instruction after a reset.
)

var _emulator_defines = map[string]string{
	"RESET_PC": fmt.Sprintf("%v", RESET_PC),
}

// Emulator state. CPU + memory + the program listing.
type Emulator struct {
	Verbose  bool           // If set, enables verbose logging.
	*cpu.Cpu                // Reference to the CPU simulation.
	Memory   *memory.Memory // Memory the CPU fetches from.
	Program  *cpu.Program   // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator with size bytes of memory.
// A size of zero selects memory.MEMORY_SIZE.
func NewEmulator(size uint) (emu *Emulator) {
	if size == 0 {
		size = memory.MEMORY_SIZE
	}

	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Memory:  memory.New(size),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Seq2Concat(maps.All(_emulator_defines),
		emu.Memory.Defines(),
		emu.Cpu.Defines(),
	)
}

// Reset clears the CPU and memory, then loads the program listing.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Memory.Reset()

	if emu.Program == nil {
		emu.Program = &cpu.Program{}
	}

	err = emu.Memory.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	return
}

// Load clears the CPU and memory, then loads a raw memory image.
// Any program listing is discarded.
func (emu *Emulator) Load(image []byte) (err error) {
	emu.Program = &cpu.Program{}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Memory.Reset()

	err = emu.Memory.Load(image)
	if err != nil {
		return
	}

	return
}

// Code returns the instruction at the PC, or zero if it cannot be fetched.
func (emu *Emulator) Code() isa.Code {
	code, err := emu.Cpu.Fetch(emu.Memory)
	if err != nil {
		return 0
	}

	return code
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// runtime wraps err with the current location.
func (emu *Emulator) runtime(err error) error {
	return &ErrRuntime{Pc: emu.Cpu.Pc(), LineNo: emu.LineNo(), Err: err}
}

// Tick performs a single instruction of the emulator.
// done is set when the halt sentinel is reached.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Tick(emu.Memory)
	if errors.Is(err, cpu.ErrHalt) {
		err = nil
		done = true
		return
	}
	if err != nil {
		// The CPU has made no changes, so the PC still locates the fault.
		err = emu.runtime(err)
		return
	}

	return
}

// Run ticks the emulator until it halts, fails, or ctx is done.
// If limit is non-zero, at most limit instructions are executed before
// failing with ErrTickLimit.
func (emu *Emulator) Run(ctx context.Context, limit int) (err error) {
	for n := 0; limit == 0 || n < limit; n++ {
		err = ctx.Err()
		if err != nil {
			err = emu.runtime(err)
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	// Stopping on the sentinel is not over the limit.
	code, ferr := emu.Cpu.Fetch(emu.Memory)
	if ferr == nil && code == 0 {
		_, err = emu.Tick()
		return
	}

	err = emu.runtime(ErrTickLimit)
	return
}
