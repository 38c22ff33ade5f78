// Package isa decodes and encodes the 32-bit RISC-V instruction words run by
// the simulator.
//
// Decoding is pure bitfield extraction over a Code. Every extractor is total:
// it returns a value for any word, but the value only has meaning for words
// of the matching format (U, I, J or R).
//
// Immediates are reassembled exactly as the base ISA lays them out, and are
// returned sign extended to 32 bits unless the name says otherwise.
package isa
