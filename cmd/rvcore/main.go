// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/emulator"
	"github.com/ezrec/rvcore/internal"
	"github.com/ezrec/rvcore/translate"
)

func main() {
	var compile string
	var binary string
	var memsize uint
	var limit int
	var verbose bool
	var dump bool
	var predefines bool
	var listing bool
	var lang string

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&binary, "b", "", "raw little-endian memory image to load")
	flag.UintVar(&memsize, "m", 0, "memory size in bytes (0 for the default)")
	flag.IntVar(&limit, "n", 0, "instruction limit (0 for unlimited)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "d", false, "Dump the CPU state after each instruction")
	flag.BoolVar(&predefines, "p", false, "Print the assembler predefines, do not execute")
	flag.BoolVar(&listing, "l", false, "Print the assembled listing, do not execute")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47 tag)")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		err := translate.Use(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	if len(compile) != 0 && len(binary) != 0 {
		log.Fatalf("%v: -c and -b are exclusive", os.Args[0])
	}

	emu := emulator.NewEmulator(memsize)
	emu.Verbose = verbose

	if predefines {
		for key, value := range internal.Seq2Sorted(emu.Defines()) {
			fmt.Printf(".equ %v %v\n", key, value)
		}
		return
	}

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if listing {
			for _, op := range prog.Opcodes {
				for n, code := range op.Codes {
					fmt.Printf("%08x: %08x  %-24v ; %d\n",
						op.Pc+uint64(n)*cpu.INSTRUCTION_SIZE, uint32(code), code, op.LineNo)
				}
			}
			return
		}

		emu.Program = prog
		err = emu.Reset()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(binary) != 0:
		image, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}

		err = emu.Load(image)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	default:
		log.Fatalf("%v: one of -c or -b is required", os.Args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !dump {
		err := emu.Run(ctx, limit)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		for ticks := 0; ; ticks++ {
			if limit != 0 && ticks == limit {
				log.Fatal(emulator.ErrTickLimit)
			}
			if ctx.Err() != nil {
				log.Fatal(ctx.Err())
			}
			done, err := emu.Tick()
			if err != nil {
				log.Fatal(err)
			}
			if done {
				break
			}
			fmt.Println(emu.Cpu.String())
		}
	}

	fmt.Printf("BREAK %v\n", emu.Cpu.RegisterString(cpu.PC_REGISTER))
}
