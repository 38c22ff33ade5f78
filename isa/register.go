package isa

import (
	"fmt"
	"strings"
)

const (
	REGISTER_COUNT = 32 // General purpose registers, x0 to x31.
)

// abiNames are the calling convention names of x0 to x31.
var abiNames = [REGISTER_COUNT]string{
	"zero",  // Hard-wired zero
	"ra",    // Return address
	"sp",    // Stack pointer
	"gp",    // Global pointer
	"tp",    // Thread pointer
	"t0",    // Temporary/alternate link register
	"t1",    // Temporaries
	"t2",    // Temporaries
	"s0/fp", // Saved register/frame pointer
	"s1",    // Saved register
	"a0",    // Function arguments/return values
	"a1",    // Function arguments/return values
	"a2",    // Function arguments
	"a3",    // Function arguments
	"a4",    // Function arguments
	"a5",    // Function arguments
	"a6",    // Function arguments
	"a7",    // Function arguments
	"s2",    // Saved registers
	"s3",    // Saved registers
	"s4",    // Saved registers
	"s5",    // Saved registers
	"s6",    // Saved registers
	"s7",    // Saved registers
	"s8",    // Saved registers
	"s9",    // Saved registers
	"s10",   // Saved registers
	"s11",   // Saved registers
	"t3",    // Temporaries
	"t4",    // Temporaries
	"t5",    // Temporaries
	"t6",    // Temporaries
}

// registerMap maps both xN and ABI names to register indexes.
var registerMap map[string]int

func init() {
	registerMap = make(map[string]int, 2*REGISTER_COUNT+1)
	for n, name := range abiNames {
		registerMap[fmt.Sprintf("x%d", n)] = n
		for _, alias := range strings.Split(name, "/") {
			registerMap[alias] = n
		}
	}
}

// RegisterName returns the ABI name of register n.
func RegisterName(n int) string {
	if n < 0 || n >= REGISTER_COUNT {
		return fmt.Sprintf("x%d", n)
	}
	return abiNames[n]
}

// LookupRegister finds a register by xN or ABI name.
func LookupRegister(name string) (n int, ok bool) {
	n, ok = registerMap[name]
	return
}
